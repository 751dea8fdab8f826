// Package orderflowrouter mounts the /order-flows routes.
package orderflowrouter

import (
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	orderflowhdl "delivery_marketplace/internal/api/orderflow/handler"
	"delivery_marketplace/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

const prefix = "/order-flows"

// Routes returns the RegisterFunc for the order flow handler.
// Fixed segments (step, next-statuses, shop, ...) are registered before /:id.
func Routes(h *orderflowhdl.OrderFlowHandler) router.RegisterFunc {
	return func(v1 fiber.Router, _ *router.Router) error {
		adminOnly := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin)}
		editors := []middleware.Guard{middleware.RequireRoles(basemodels.RoleAdmin, basemodels.RoleShopOwner)}
		shopAccess := []middleware.Guard{middleware.RequireShopAccess("shopId")}

		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "/step/:status", nil, h.GetStepByStatus)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "/next-statuses/:status", nil, h.GetNextStatuses)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "/forwarding-destinations/:status", nil, h.GetForwardingDestinations)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPost, "/can-change-status", nil, h.CanChangeStatus)

		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "/shop/:shopId", nil, h.GetFlowForShop)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPost, "/shop/:shopId/customize", shopAccess, h.CustomizeFlowForShop)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPut, "/shop/:shopId", shopAccess, h.SaveShopFlow)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodDelete, "/shop/:shopId", shopAccess, h.ResetShopFlow)

		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "", nil, h.GetAllFlows)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPost, "", editors, h.CreateFlow)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodGet, "/:id", nil, h.GetFlowByID)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPut, "/:id", editors, h.UpdateFlow)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodDelete, "/:id", editors, h.DeleteFlow)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPost, "/:id/set-default", adminOnly, h.SetDefaultFlow)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPut, "/:id/steps/:index", editors, h.ReplaceStep)
		router.RegisterRouteWithMiddleware(v1, prefix, fiber.MethodPut, "/:id/steps/:index/destinations/:destIndex", editors, h.ReplaceDestination)
		return nil
	}
}
