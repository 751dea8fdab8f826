// Package orderflowhdl serves the /order-flows routes.
package orderflowhdl

import (
	"errors"
	"strconv"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	orderflowdto "delivery_marketplace/internal/api/orderflow/dto"
	"delivery_marketplace/internal/api/orderflow/models"
	orderflowsvc "delivery_marketplace/internal/api/orderflow/service"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceType = "order_flow"

// OrderFlowHandler exposes OrderFlowService over HTTP.
type OrderFlowHandler struct {
	service *orderflowsvc.OrderFlowService
}

// NewOrderFlowHandler creates the handler.
func NewOrderFlowHandler(service *orderflowsvc.OrderFlowService) *OrderFlowHandler {
	return &OrderFlowHandler{service: service}
}

// expectedVersion returns the body's version field, or nil when the client sent none.
func expectedVersion(c fiber.Ctx) (*int64, error) {
	v := gjson.GetBytes(c.Body(), "version")
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if v.Type != gjson.Number {
		return nil, common.NewValidationError(common.MsgValidationError, map[string]string{"version": "must be a number"})
	}
	n := v.Int()
	return &n, nil
}

func optionalBool(c fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, common.NewValidationError(common.MsgValidationError, map[string]string{key: "must be true or false"})
	}
	return &b, nil
}

// canEdit lets admins edit any flow and shop owners edit their own shop's flow.
func canEdit(c fiber.Ctx, flow models.OrderFlow) error {
	caller := basehdl.GetCaller(c)
	if caller.Role == basemodels.RoleAdmin {
		return nil
	}
	if caller.Role == basemodels.RoleShopOwner && flow.ShopID != nil && flow.ShopID.Hex() == caller.ShopID {
		return nil
	}
	return common.ErrRoleDenied
}

// GetAllFlows lists flows. Filters: shopId, isDefault, isActive.
func (h *OrderFlowHandler) GetAllFlows(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var filter orderflowsvc.FlowFilter
		var err error
		if filter.ShopID, err = basehdl.ParseOptionalObjectID(c, "shopId"); err != nil {
			return basehdl.HandleError(c, err)
		}
		if filter.IsDefault, err = optionalBool(c, "isDefault"); err != nil {
			return basehdl.HandleError(c, err)
		}
		if filter.IsActive, err = optionalBool(c, "isActive"); err != nil {
			return basehdl.HandleError(c, err)
		}
		flows, err := h.service.GetAllFlows(c, filter)
		return basehdl.HandleResponse(c, flows, err)
	})
}

// GetFlowByID returns one flow.
func (h *OrderFlowHandler) GetFlowByID(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		flow, err := h.service.GetFlowByID(c, id)
		return basehdl.HandleResponse(c, flow, err)
	})
}

// GetFlowForShop returns the flow that applies to :shopId.
func (h *OrderFlowHandler) GetFlowForShop(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		flow, err := h.service.GetFlowForShop(c, &shopID)
		return basehdl.HandleResponse(c, flow, err)
	})
}

// GetStepByStatus returns the step for :status.
func (h *OrderFlowHandler) GetStepByStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		step, err := h.service.GetStepByStatus(c, c.Params("status"), shopID)
		return basehdl.HandleResponse(c, step, err)
	})
}

// GetNextStatuses lists the statuses reachable from :status.
func (h *OrderFlowHandler) GetNextStatuses(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		next, err := h.service.GetNextStatuses(c, c.Params("status"), shopID)
		return basehdl.HandleResponse(c, next, err)
	})
}

// GetForwardingDestinations lists the active destinations of :status's step.
func (h *OrderFlowHandler) GetForwardingDestinations(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		dests, err := h.service.GetForwardingDestinations(c, c.Params("status"), shopID)
		return basehdl.HandleResponse(c, dests, err)
	})
}

// CanChangeStatus answers {allowed, reason, code}. A refused transition is a 200 with allowed=false.
func (h *OrderFlowHandler) CanChangeStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input orderflowdto.CanChangeStatusInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		role := input.Role
		if role == "" {
			role = basehdl.GetCaller(c).Role
		}
		var shopID *primitive.ObjectID
		if input.ShopID != "" {
			id, _ := primitive.ObjectIDFromHex(input.ShopID)
			shopID = &id
		}

		err := h.service.CanChangeStatus(c, input.CurrentStatus, input.NewStatus, role, shopID)
		if err == nil {
			return basehdl.HandleResponse(c, fiber.Map{"allowed": true}, nil)
		}
		var appErr *common.Error
		if errors.As(err, &appErr) && (appErr.Code == common.ErrCodeBusinessState || appErr.Code == common.ErrCodeBusinessTransition) {
			return basehdl.HandleResponse(c, fiber.Map{
				"allowed": false,
				"reason":  appErr.Message,
				"code":    appErr.Code.Code,
			}, nil)
		}
		return basehdl.HandleError(c, err)
	})
}

// CreateFlow stores a new flow. Shop owners may only create a flow for their own shop.
func (h *OrderFlowHandler) CreateFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input orderflowdto.OrderFlowInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		flow := input.ToModel()
		if basehdl.GetCaller(c).Role != basemodels.RoleAdmin {
			if flow.IsDefault {
				return basehdl.HandleError(c, common.ErrRoleDenied)
			}
			if err := canEdit(c, flow); err != nil {
				return basehdl.HandleError(c, err)
			}
		}

		created, err := h.service.CreateFlow(c, flow)
		if err == nil {
			logger.LogCRUD("create", resourceType, created.ID.Hex(), c, map[string]interface{}{"isDefault": created.IsDefault})
		}
		return basehdl.HandleCreated(c, created, err)
	})
}

// loadEditable loads :id and checks the caller may edit it.
func (h *OrderFlowHandler) loadEditable(c fiber.Ctx) (models.OrderFlow, error) {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return models.OrderFlow{}, err
	}
	flow, err := h.service.GetFlowByID(c, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	return flow, canEdit(c, flow)
}

// UpdateFlow replaces a flow's name, description, steps and isActive.
func (h *OrderFlowHandler) UpdateFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		existing, err := h.loadEditable(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input orderflowdto.OrderFlowInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		version, err := expectedVersion(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		updated, err := h.service.UpdateFlow(c, existing.ID, input.ToModel(), version)
		if err == nil {
			logger.LogCRUD("update", resourceType, existing.ID.Hex(), c, map[string]interface{}{"version": updated.Version})
		}
		return basehdl.HandleResponse(c, updated, err)
	})
}

// DeleteFlow removes a non-default flow.
func (h *OrderFlowHandler) DeleteFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		existing, err := h.loadEditable(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		err = h.service.DeleteFlow(c, existing.ID)
		if err == nil {
			logger.LogCRUD("delete", resourceType, existing.ID.Hex(), c, nil)
		}
		return basehdl.HandleResponse(c, fiber.Map{"deleted": existing.ID.Hex()}, err)
	})
}

// SetDefaultFlow makes :id the default flow.
func (h *OrderFlowHandler) SetDefaultFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		flow, err := h.service.SetDefaultFlow(c, id)
		if err == nil {
			logger.LogCRUD("set_default", resourceType, id.Hex(), c, nil)
		}
		return basehdl.HandleResponse(c, flow, err)
	})
}

// CustomizeFlowForShop copies the default flow for :shopId. 201 when a copy was made.
func (h *OrderFlowHandler) CustomizeFlowForShop(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		flow, created, err := h.service.CustomizeFlowForShop(c, shopID)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		if !created {
			return basehdl.HandleResponse(c, flow, nil)
		}
		logger.LogCRUD("create", resourceType, flow.ID.Hex(), c, map[string]interface{}{"shopId": shopID.Hex(), "from": "default"})
		return basehdl.HandleCreated(c, flow, nil)
	})
}

// SaveShopFlow creates or updates :shopId's custom flow.
func (h *OrderFlowHandler) SaveShopFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input orderflowdto.OrderFlowInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		version, err := expectedVersion(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		flow, err := h.service.SaveShopFlow(c, shopID, input.ToModel(), version)
		if err == nil {
			logger.LogCRUD("update", resourceType, flow.ID.Hex(), c, map[string]interface{}{"shopId": shopID.Hex()})
		}
		return basehdl.HandleResponse(c, flow, err)
	})
}

// ResetShopFlow drops :shopId's custom flow and returns the default.
func (h *OrderFlowHandler) ResetShopFlow(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		flow, err := h.service.ResetShopFlow(c, shopID)
		if err == nil {
			logger.LogCRUD("reset", resourceType, shopID.Hex(), c, nil)
		}
		return basehdl.HandleResponse(c, flow, err)
	})
}

// ReplaceStep replaces the step at :index.
func (h *OrderFlowHandler) ReplaceStep(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		existing, err := h.loadEditable(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		index, err := basehdl.ParseIntParam(c, "index")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input orderflowdto.OrderFlowStepInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		version, err := expectedVersion(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		flow, err := h.service.ReplaceStep(c, existing.ID, index, input.ToModel(), version)
		if err == nil {
			logger.LogCRUD("update", resourceType, existing.ID.Hex(), c, map[string]interface{}{"step": index})
		}
		return basehdl.HandleResponse(c, flow, err)
	})
}

// ReplaceDestination replaces destination :destIndex of step :index.
func (h *OrderFlowHandler) ReplaceDestination(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		existing, err := h.loadEditable(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		index, err := basehdl.ParseIntParam(c, "index")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		destIndex, err := basehdl.ParseIntParam(c, "destIndex")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input orderflowdto.ForwardingDestinationInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		version, err := expectedVersion(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		flow, err := h.service.ReplaceDestination(c, existing.ID, index, destIndex, input.ToModel(), version)
		if err == nil {
			logger.LogCRUD("update", resourceType, existing.ID.Hex(), c, map[string]interface{}{"step": index, "destination": destIndex})
		}
		return basehdl.HandleResponse(c, flow, err)
	})
}
