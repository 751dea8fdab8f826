// Package settinghdl serves the /settings routes.
package settinghdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	settingdto "delivery_marketplace/internal/api/setting/dto"
	"delivery_marketplace/internal/api/setting/models"
	settingsvc "delivery_marketplace/internal/api/setting/service"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// Service is what the handler needs from settingsvc.SettingService.
type Service interface {
	basehdl.CRUDService[models.Setting]
	FindByKey(ctx context.Context, key string) (models.Setting, error)
}

// SettingHandler is the settings CRUD handler.
type SettingHandler struct {
	*basehdl.BaseHandler[models.Setting, settingdto.SettingCreateInput, settingdto.SettingUpdateInput]
	service Service
}

// NewSettingHandler creates the handler.
func NewSettingHandler(service Service) *SettingHandler {
	h := &SettingHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Setting, settingdto.SettingCreateInput, settingdto.SettingUpdateInput](service, "setting"),
		service:     service,
	}
	h.ToModel = func(_ fiber.Ctx, in *settingdto.SettingCreateInput) (models.Setting, error) {
		return models.Setting{
			Key:         in.Key,
			FlagType:    in.FlagType,
			Value:       in.Value,
			Options:     in.Options,
			Description: in.Description,
			IsActive:    in.IsActive == nil || *in.IsActive,
		}, nil
	}
	h.ToUpdate = func(c fiber.Ctx, in *settingdto.SettingUpdateInput) (interface{}, error) {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return nil, err
		}
		existing, err := service.FindOneById(c, id)
		if err != nil {
			return nil, err
		}
		return settingsvc.MergeUpdate(existing, in.Value, in.Options, in.Description, in.IsActive)
	}
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		f := bson.M{}
		if t := c.Query("flagType"); t != "" {
			f["flagType"] = t
		}
		return f, nil
	}
	h.Sort = bson.D{{Key: "key", Value: 1}}
	return h
}

// FindByKey answers GET /settings/key/:key.
func (h *SettingHandler) FindByKey(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		setting, err := h.service.FindByKey(c, c.Params("key"))
		return basehdl.HandleResponse(c, setting, err)
	})
}
