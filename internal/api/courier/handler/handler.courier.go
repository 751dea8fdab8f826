// Package courierhdl serves the /couriers routes.
package courierhdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	basesvc "delivery_marketplace/internal/api/base/service"
	courierdto "delivery_marketplace/internal/api/courier/dto"
	"delivery_marketplace/internal/api/courier/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is what the handler needs from couriersvc.CourierService.
type Service interface {
	basehdl.CRUDService[models.Courier]
	Available(ctx context.Context, shopID *primitive.ObjectID) ([]models.Courier, error)
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (models.Courier, error)
}

// CourierHandler is the courier CRUD handler.
type CourierHandler struct {
	*basehdl.BaseHandler[models.Courier, courierdto.CourierCreateInput, courierdto.CourierUpdateInput]
	service Service
}

// NewCourierHandler creates the handler.
func NewCourierHandler(service Service) *CourierHandler {
	h := &CourierHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Courier, courierdto.CourierCreateInput, courierdto.CourierUpdateInput](service, "courier"),
		service:     service,
	}
	h.ToModel = func(_ fiber.Ctx, in *courierdto.CourierCreateInput) (models.Courier, error) {
		userID, _ := primitive.ObjectIDFromHex(in.UserID)
		courier := models.Courier{
			UserID:      userID,
			Name:        in.Name,
			Phone:       in.Phone,
			TelegramID:  in.TelegramID,
			IsAvailable: in.IsAvailable,
			IsActive:    in.IsActive == nil || *in.IsActive,
		}
		if in.ShopID != "" {
			id, _ := primitive.ObjectIDFromHex(in.ShopID)
			courier.ShopID = &id
		}
		return courier, nil
	}
	h.ToUpdate = func(_ fiber.Ctx, in *courierdto.CourierUpdateInput) (interface{}, error) {
		return courierUpdate(in), nil
	}
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		f := bson.M{}
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return nil, err
		}
		if shopID != nil {
			f["shopId"] = *shopID
		}
		if v := c.Query("isAvailable"); v != "" {
			f["isAvailable"] = v == "true"
		}
		return f, nil
	}
	return h
}

func courierUpdate(in *courierdto.CourierUpdateInput) *basesvc.UpdateData {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if in.Name != nil {
		update.Set["name"] = *in.Name
	}
	if in.Phone != nil {
		update.Set["phone"] = *in.Phone
	}
	if in.TelegramID != nil {
		update.Set["telegramId"] = *in.TelegramID
	}
	if in.IsAvailable != nil {
		update.Set["isAvailable"] = *in.IsAvailable
	}
	if in.IsActive != nil {
		update.Set["isActive"] = *in.IsActive
	}
	if in.ShopID != nil {
		if *in.ShopID == "" {
			update.Unset = map[string]interface{}{"shopId": ""}
		} else {
			id, _ := primitive.ObjectIDFromHex(*in.ShopID)
			update.Set["shopId"] = id
		}
	}
	return update
}

// Available answers GET /couriers/available?shopId=.
func (h *CourierHandler) Available(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		couriers, err := h.service.Available(c, shopID)
		return basehdl.HandleResponse(c, couriers, err)
	})
}

// SetAvailability answers PUT /couriers/:id/availability. A courier may only toggle itself.
func (h *CourierHandler) SetAvailability(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input courierdto.AvailabilityInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}

		caller := basehdl.GetCaller(c)
		if caller.Role == basemodels.RoleCourier {
			courier, err := h.service.FindOneById(c, id)
			if err != nil {
				return basehdl.HandleError(c, err)
			}
			if courier.UserID.Hex() != caller.UserID {
				return basehdl.HandleError(c, common.ErrRoleDenied)
			}
		}

		courier, err := h.service.SetAvailability(c, id, *input.IsAvailable)
		if err == nil {
			logger.LogCRUD("update", "courier", id.Hex(), c, map[string]interface{}{"isAvailable": *input.IsAvailable})
		}
		return basehdl.HandleResponse(c, courier, err)
	})
}
