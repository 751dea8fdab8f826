package middleware

import (
	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// Guard runs before a route handler; a non-nil error stops the request and is rendered as the envelope.
type Guard func(c fiber.Ctx) error

// RequireRoles allows callers whose role is in roles.
func RequireRoles(roles ...string) Guard {
	return func(c fiber.Ctx) error {
		if !utility.Contains(roles, basehdl.GetCaller(c).Role) {
			return common.ErrRoleDenied
		}
		return nil
	}
}

// RequireShopAccess allows admins, and shop owners whose token shopId equals the :param path value.
func RequireShopAccess(param string) Guard {
	return func(c fiber.Ctx) error {
		caller := basehdl.GetCaller(c)
		switch caller.Role {
		case basemodels.RoleAdmin:
			return nil
		case basemodels.RoleShopOwner:
			if caller.ShopID != "" && caller.ShopID == c.Params(param) {
				return nil
			}
		}
		return common.ErrRoleDenied
	}
}

// WithGuards wraps handler so every guard must pass first.
func WithGuards(handler fiber.Handler, guards ...Guard) fiber.Handler {
	if len(guards) == 0 {
		return handler
	}
	return func(c fiber.Ctx) error {
		for _, guard := range guards {
			if err := guard(c); err != nil {
				return basehdl.HandleError(c, err)
			}
		}
		return handler(c)
	}
}
