// Package deliveryrouter mounts the admin-only /delivery routes.
package deliveryrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	deliveryhdl "delivery_marketplace/internal/api/delivery/handler"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Routes registers the queue and history listings.
func Routes(queue *deliveryhdl.QueueHandler, history *deliveryhdl.HistoryHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		admin := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin)}
		router.RegisterRouteWithMiddleware(v1, "/delivery/queue", fiber.MethodGet, "/stats", admin, queue.Stats)
		router.RegisterRouteWithMiddleware(v1, "/delivery/queue", fiber.MethodPost, "/:id/requeue", admin, queue.Requeue)
		r.RegisterCRUDRoutes(v1, "/delivery/queue", queue, router.CRUDConfig{Read: true, ReadRoles: []string{basemodels.RoleAdmin}})
		r.RegisterCRUDRoutes(v1, "/delivery/history", history, router.CRUDConfig{Read: true, ReadRoles: []string{basemodels.RoleAdmin}})
		return nil
	}
}
