// Package courierrouter mounts the /couriers routes.
package courierrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	courierhdl "delivery_marketplace/internal/api/courier/handler"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Routes registers /couriers/available, availability toggling and the courier CRUD routes.
func Routes(h *courierhdl.CourierHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		staff := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin, basemodels.RoleShopOwner, basemodels.RoleCourier)}
		router.RegisterRouteWithMiddleware(v1, "/couriers", fiber.MethodGet, "/available", nil, h.Available)
		router.RegisterRouteWithMiddleware(v1, "/couriers", fiber.MethodPut, "/:id/availability", staff, h.SetAvailability)
		r.RegisterCRUDRoutes(v1, "/couriers", h, router.CRUDConfig{
			Create: true, Read: true, Update: true, Delete: true,
			WriteRoles: []string{basemodels.RoleAdmin, basemodels.RoleShopOwner},
		})
		return nil
	}
}
