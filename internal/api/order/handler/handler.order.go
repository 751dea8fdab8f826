// Package orderhdl serves the /orders routes.
package orderhdl

import (
	"context"
	"errors"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	basesvc "delivery_marketplace/internal/api/base/service"
	couriermodels "delivery_marketplace/internal/api/courier/models"
	orderdto "delivery_marketplace/internal/api/order/dto"
	"delivery_marketplace/internal/api/order/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceType = "order"

// Service is what the handler needs from ordersvc.OrderService.
type Service interface {
	basehdl.CRUDService[models.Order]
	Create(ctx context.Context, order models.Order, actor, notes string) (models.Order, error)
	ChangeStatus(ctx context.Context, id primitive.ObjectID, next, actor, role, notes string) (models.Order, error)
}

// CourierLookup resolves the courier profile behind a courier token. couriersvc.CourierService implements it.
type CourierLookup interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (couriermodels.Courier, error)
}

// OrderHandler serves orders. Clients see their own orders, couriers the orders assigned to them,
// shop staff the orders of their shop.
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, orderdto.OrderCreateInput, orderdto.OrderUpdateInput]
	service  Service
	couriers CourierLookup
}

// NewOrderHandler creates the handler.
func NewOrderHandler(service Service, couriers CourierLookup) *OrderHandler {
	h := &OrderHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Order, orderdto.OrderCreateInput, orderdto.OrderUpdateInput](service, resourceType),
		service:     service,
		couriers:    couriers,
	}
	h.ToModel = toModel
	h.ToUpdate = func(c fiber.Ctx, in *orderdto.OrderUpdateInput) (interface{}, error) {
		if _, err := h.load(c); err != nil {
			return nil, err
		}
		return orderUpdate(in), nil
	}
	h.Filter = h.filter
	return h
}

func toModel(c fiber.Ctx, in *orderdto.OrderCreateInput) (models.Order, error) {
	caller := basehdl.GetCaller(c)
	shopID, _ := primitive.ObjectIDFromHex(in.ShopID)

	clientHex := in.ClientID
	switch caller.Role {
	case basemodels.RoleClient:
		clientHex = caller.UserID
	case basemodels.RoleShopOwner:
		if caller.ShopID != in.ShopID {
			return models.Order{}, common.ErrRoleDenied
		}
	case basemodels.RoleAdmin:
	default:
		return models.Order{}, common.ErrRoleDenied
	}
	clientID, err := primitive.ObjectIDFromHex(clientHex)
	if err != nil {
		return models.Order{}, common.NewValidationError(common.MsgValidationError, map[string]string{
			"clientId": "clientId is required",
		})
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, models.OrderItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	return models.Order{
		ShopID:          shopID,
		ClientID:        clientID,
		Items:           items,
		DeliveryAddress: in.DeliveryAddress,
	}, nil
}

func orderUpdate(in *orderdto.OrderUpdateInput) *basesvc.UpdateData {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if in.DeliveryAddress != nil {
		update.Set["deliveryAddress"] = *in.DeliveryAddress
	}
	if in.CourierID != nil {
		if *in.CourierID == "" {
			update.Unset = map[string]interface{}{"courierId": ""}
		} else {
			id, _ := primitive.ObjectIDFromHex(*in.CourierID)
			update.Set["courierId"] = id
		}
	}
	return update
}

// courierOf returns the courier profile of the calling courier.
func (h *OrderHandler) courierOf(c fiber.Ctx) (couriermodels.Courier, error) {
	userID, err := primitive.ObjectIDFromHex(basehdl.GetCaller(c).UserID)
	if err != nil {
		return couriermodels.Courier{}, common.ErrRoleDenied
	}
	courier, err := h.couriers.FindByUserID(c, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return couriermodels.Courier{}, common.ErrRoleDenied
		}
		return couriermodels.Courier{}, err
	}
	return courier, nil
}

func (h *OrderHandler) filter(c fiber.Ctx) (bson.M, error) {
	f := bson.M{}
	caller := basehdl.GetCaller(c)
	switch caller.Role {
	case basemodels.RoleAdmin:
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return nil, err
		}
		if shopID != nil {
			f["shopId"] = *shopID
		}
	case basemodels.RoleClient:
		id, err := primitive.ObjectIDFromHex(caller.UserID)
		if err != nil {
			return nil, common.ErrRoleDenied
		}
		f["clientId"] = id
	case basemodels.RoleCourier:
		courier, err := h.courierOf(c)
		if err != nil {
			return nil, err
		}
		f["courierId"] = courier.ID
	default:
		id, err := primitive.ObjectIDFromHex(caller.ShopID)
		if err != nil {
			return nil, common.ErrRoleDenied
		}
		f["shopId"] = id
	}
	if status := c.Query("status"); status != "" {
		f["status"] = status
	}
	courierID, err := basehdl.ParseOptionalObjectID(c, "courierId")
	if err != nil {
		return nil, err
	}
	if courierID != nil && caller.Role != basemodels.RoleCourier {
		f["courierId"] = *courierID
	}
	return f, nil
}

// canSee reports whether caller may read and act on order.
func (h *OrderHandler) canSee(c fiber.Ctx, order models.Order) (bool, error) {
	caller := basehdl.GetCaller(c)
	switch caller.Role {
	case basemodels.RoleAdmin:
		return true, nil
	case basemodels.RoleClient:
		return order.ClientID.Hex() == caller.UserID, nil
	case basemodels.RoleCourier:
		if order.CourierID == nil {
			return false, nil
		}
		courier, err := h.courierOf(c)
		if err != nil {
			if errors.Is(err, common.ErrRoleDenied) {
				return false, nil
			}
			return false, err
		}
		return courier.ID == *order.CourierID, nil
	default:
		return caller.ShopID != "" && order.ShopID.Hex() == caller.ShopID, nil
	}
}

// load reads :id, answering not found for orders the caller may not see.
func (h *OrderHandler) load(c fiber.Ctx) (models.Order, error) {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return models.Order{}, err
	}
	order, err := h.service.FindOneById(c, id)
	if err != nil {
		return models.Order{}, err
	}
	visible, err := h.canSee(c, order)
	if err != nil {
		return models.Order{}, err
	}
	if !visible {
		return models.Order{}, common.ErrNotFound
	}
	return order, nil
}

// InsertOne answers POST /orders. The order starts in the first active step of its shop's flow.
func (h *OrderHandler) InsertOne(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input orderdto.OrderCreateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		order, err := h.ToModel(c, &input)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		created, err := h.service.Create(c, order, basehdl.GetCaller(c).UserID, input.Notes)
		if err == nil {
			logger.LogCRUD("create", resourceType, created.ID.Hex(), c, map[string]interface{}{"status": created.Status})
		}
		return basehdl.HandleCreated(c, created, err)
	})
}

// FindOneById answers GET /orders/:id.
func (h *OrderHandler) FindOneById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		order, err := h.load(c)
		return basehdl.HandleResponse(c, order, err)
	})
}

// ChangeStatus answers PUT /orders/:id/status.
func (h *OrderHandler) ChangeStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		order, err := h.load(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input orderdto.StatusChangeInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		caller := basehdl.GetCaller(c)
		updated, err := h.service.ChangeStatus(c, order.ID, input.Status, caller.UserID, caller.Role, input.Notes)
		if err == nil {
			logger.LogCRUD("status_change", resourceType, order.ID.Hex(), c, map[string]interface{}{
				"from": order.Status,
				"to":   updated.Status,
			})
		}
		return basehdl.HandleResponse(c, updated, err)
	})
}
