// Package orderrouter mounts the /orders routes.
package orderrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	orderhdl "delivery_marketplace/internal/api/order/handler"
	"delivery_marketplace/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Routes registers the status route and the order CRUD routes.
// Any authenticated role may request a status change; the order flow decides.
func Routes(h *orderhdl.OrderHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		router.RegisterRouteWithMiddleware(v1, "/orders", fiber.MethodPut, "/:id/status", nil, h.ChangeStatus)
		r.RegisterCRUDRoutes(v1, "/orders", h, router.CRUDConfig{Read: true, Create: true})
		r.RegisterCRUDRoutes(v1, "/orders", h, router.CRUDConfig{
			Update:     true,
			WriteRoles: []string{basemodels.RoleAdmin, basemodels.RoleShopOwner},
		})
		router.RegisterRouteWithMiddleware(v1, "/orders", fiber.MethodDelete, "/:id",
			[]middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin)}, h.DeleteById)
		return nil
	}
}
