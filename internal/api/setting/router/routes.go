// Package settingrouter mounts the /settings routes.
package settingrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/router"
	settinghdl "delivery_marketplace/internal/api/setting/handler"

	"github.com/gofiber/fiber/v3"
)

// Routes registers /settings/key/:key and the settings CRUD routes. Writes are admin only.
func Routes(h *settinghdl.SettingHandler) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		router.RegisterRouteWithMiddleware(v1, "/settings", fiber.MethodGet, "/key/:key", nil, h.FindByKey)
		r.RegisterCRUDRoutes(v1, "/settings", h, router.CRUDConfig{
			Create: true, Read: true, Update: true, Delete: true,
			WriteRoles: []string{basemodels.RoleAdmin},
		})
		return nil
	}
}
