// Package shophdl serves the /shops routes and the Telegram group lookups under /shops/groups.
package shophdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basesvc "delivery_marketplace/internal/api/base/service"
	shopdto "delivery_marketplace/internal/api/shop/dto"
	"delivery_marketplace/internal/api/shop/models"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupService is what the group handler needs from shopsvc.TelegramGroupService.
type GroupService interface {
	basehdl.CRUDService[models.TelegramGroup]
	Unassigned(ctx context.Context) ([]models.TelegramGroup, error)
	Suggest(ctx context.Context, q, kind string) ([]models.TelegramGroup, error)
}

// ShopHandler is the shop CRUD handler.
type ShopHandler struct {
	*basehdl.BaseHandler[models.Shop, shopdto.ShopCreateInput, shopdto.ShopUpdateInput]
}

// NewShopHandler creates the shop handler.
func NewShopHandler(service basehdl.CRUDService[models.Shop]) *ShopHandler {
	h := &ShopHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Shop, shopdto.ShopCreateInput, shopdto.ShopUpdateInput](service, "shop"),
	}
	h.ToModel = func(_ fiber.Ctx, in *shopdto.ShopCreateInput) (models.Shop, error) {
		ownerID, _ := primitive.ObjectIDFromHex(in.OwnerID)
		return models.Shop{
			Name:            in.Name,
			OwnerID:         ownerID,
			TelegramGroupID: in.TelegramGroupID,
			OrdersChatID:    in.OrdersChatID,
			CouriersChatID:  in.CouriersChatID,
			IsActive:        in.IsActive == nil || *in.IsActive,
		}, nil
	}
	h.ToUpdate = func(_ fiber.Ctx, in *shopdto.ShopUpdateInput) (interface{}, error) {
		return shopUpdate(in), nil
	}
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		f := bson.M{}
		owner, err := basehdl.ParseOptionalObjectID(c, "ownerId")
		if err != nil {
			return nil, err
		}
		if owner != nil {
			f["ownerId"] = *owner
		}
		if q := c.Query("q"); q != "" {
			f["$text"] = bson.M{"$search": q}
		}
		return f, nil
	}
	return h
}

func shopUpdate(in *shopdto.ShopUpdateInput) *basesvc.UpdateData {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}, Unset: map[string]interface{}{}}
	if in.Name != nil {
		update.Set["name"] = *in.Name
	}
	if in.IsActive != nil {
		update.Set["isActive"] = *in.IsActive
	}
	for key, value := range map[string]*string{
		"telegramGroupId": in.TelegramGroupID,
		"ordersChatId":    in.OrdersChatID,
		"couriersChatId":  in.CouriersChatID,
	} {
		switch {
		case value == nil:
		case *value == "":
			update.Unset[key] = ""
		default:
			update.Set[key] = *value
		}
	}
	if len(update.Unset) == 0 {
		update.Unset = nil
	}
	return update
}

// GroupHandler is the Telegram group handler.
type GroupHandler struct {
	*basehdl.BaseHandler[models.TelegramGroup, shopdto.TelegramGroupInput, shopdto.TelegramGroupUpdateInput]
	service GroupService
}

// NewGroupHandler creates the group handler.
func NewGroupHandler(service GroupService) *GroupHandler {
	h := &GroupHandler{
		BaseHandler: basehdl.NewBaseHandler[models.TelegramGroup, shopdto.TelegramGroupInput, shopdto.TelegramGroupUpdateInput](service, "telegram_group"),
		service:     service,
	}
	h.ToModel = func(_ fiber.Ctx, in *shopdto.TelegramGroupInput) (models.TelegramGroup, error) {
		g := models.TelegramGroup{ChatID: in.ChatID, Title: in.Title, Type: in.Type, Username: in.Username}
		if in.ShopID != "" {
			id, _ := primitive.ObjectIDFromHex(in.ShopID)
			g.ShopID = &id
		}
		return g, nil
	}
	h.ToUpdate = func(_ fiber.Ctx, in *shopdto.TelegramGroupUpdateInput) (interface{}, error) {
		update := &basesvc.UpdateData{Set: map[string]interface{}{}}
		if in.Title != nil {
			update.Set["title"] = *in.Title
		}
		if in.ShopID != nil {
			if *in.ShopID == "" {
				update.Unset = map[string]interface{}{"shopId": ""}
			} else {
				id, _ := primitive.ObjectIDFromHex(*in.ShopID)
				update.Set["shopId"] = id
			}
		}
		return update, nil
	}
	h.Sort = bson.D{{Key: "title", Value: 1}}
	return h
}

// Unassigned answers GET /shops/groups/unassigned.
func (h *GroupHandler) Unassigned(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		groups, err := h.service.Unassigned(c)
		return basehdl.HandleResponse(c, groups, err)
	})
}

// Suggestions answers GET /shops/groups/suggestions?q=&type=.
func (h *GroupHandler) Suggestions(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		groups, err := h.service.Suggest(c, c.Query("q"), c.Query("type"))
		return basehdl.HandleResponse(c, groups, err)
	})
}
