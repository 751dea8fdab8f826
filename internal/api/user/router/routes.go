// Package userrouter mounts the /users routes.
package userrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"
	userhdl "delivery_marketplace/internal/api/user/handler"

	"github.com/gofiber/fiber/v3"
)

// Routes registers /users/suggestions and the user CRUD routes.
func Routes(h *userhdl.UserHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		editors := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin, basemodels.RoleShopOwner)}
		router.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodGet, "/suggestions", editors, h.Suggestions)
		r.RegisterCRUDRoutes(v1, "/users", h, router.CRUDConfig{
			Create: true, Read: true, Update: true, Delete: true,
			ReadRoles:  []string{basemodels.RoleAdmin, basemodels.RoleShopOwner},
			WriteRoles: []string{basemodels.RoleAdmin},
		})
		return nil
	}
}
