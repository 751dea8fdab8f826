// Package supportrouter mounts the /support-tickets routes.
package supportrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"
	supporthdl "delivery_marketplace/internal/api/support/handler"

	"github.com/gofiber/fiber/v3"
)

// Routes registers replies, status and the ticket CRUD routes.
func Routes(h *supporthdl.SupportHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		router.RegisterRouteWithMiddleware(v1, "/support-tickets", fiber.MethodPost, "/:id/replies", nil, h.AddReply)
		router.RegisterRouteWithMiddleware(v1, "/support-tickets", fiber.MethodPut, "/:id/status", nil, h.SetStatus)
		r.RegisterCRUDRoutes(v1, "/support-tickets", h, router.CRUDConfig{Create: true, Read: true, Update: true})
		router.RegisterRouteWithMiddleware(v1, "/support-tickets", fiber.MethodDelete, "/:id",
			[]middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin)}, h.DeleteById)
		return nil
	}
}
