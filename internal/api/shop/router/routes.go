// Package shoprouter mounts the /shops routes.
package shoprouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"
	shophdl "delivery_marketplace/internal/api/shop/handler"

	"github.com/gofiber/fiber/v3"
)

// Routes registers /shops/groups before /shops so /shops/:id never captures "groups".
func Routes(shops *shophdl.ShopHandler, groups *shophdl.GroupHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		editors := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin, basemodels.RoleShopOwner)}
		router.RegisterRouteWithMiddleware(v1, "/shops", fiber.MethodGet, "/groups/unassigned", editors, groups.Unassigned)
		router.RegisterRouteWithMiddleware(v1, "/shops", fiber.MethodGet, "/groups/suggestions", editors, groups.Suggestions)
		r.RegisterCRUDRoutes(v1, "/shops/groups", groups, router.CRUDConfig{
			Create: true, Read: true, Update: true, Delete: true,
			ReadRoles:  []string{basemodels.RoleAdmin, basemodels.RoleShopOwner},
			WriteRoles: []string{basemodels.RoleAdmin},
		})
		r.RegisterCRUDRoutes(v1, "/shops", shops, router.CRUDConfig{
			Create: true, Read: true, Update: true, Delete: true,
			WriteRoles: []string{basemodels.RoleAdmin},
		})
		return nil
	}
}
