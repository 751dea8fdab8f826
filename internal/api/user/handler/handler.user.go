// Package userhdl serves the /users routes.
package userhdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basesvc "delivery_marketplace/internal/api/base/service"
	userdto "delivery_marketplace/internal/api/user/dto"
	"delivery_marketplace/internal/api/user/models"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is what the handler needs from usersvc.UserService.
type Service interface {
	basehdl.CRUDService[models.User]
	Suggest(ctx context.Context, q string) ([]models.User, error)
}

// UserHandler is the CRUD handler plus suggestions.
type UserHandler struct {
	*basehdl.BaseHandler[models.User, userdto.UserCreateInput, userdto.UserUpdateInput]
	service Service
}

// NewUserHandler creates the handler.
func NewUserHandler(service Service) *UserHandler {
	h := &UserHandler{
		BaseHandler: basehdl.NewBaseHandler[models.User, userdto.UserCreateInput, userdto.UserUpdateInput](service, "user"),
		service:     service,
	}
	h.ToModel = toModel
	h.ToUpdate = toUpdate
	h.Filter = filter
	return h
}

func toModel(_ fiber.Ctx, in *userdto.UserCreateInput) (models.User, error) {
	u := models.User{
		TelegramID: in.TelegramID,
		Username:   in.Username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Role:       in.Role,
		IsActive:   in.IsActive == nil || *in.IsActive,
	}
	if in.ShopID != "" {
		id, _ := primitive.ObjectIDFromHex(in.ShopID)
		u.ShopID = &id
	}
	return u, nil
}

func toUpdate(_ fiber.Ctx, in *userdto.UserUpdateInput) (interface{}, error) {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if in.Username != nil {
		update.Set["username"] = *in.Username
	}
	if in.FirstName != nil {
		update.Set["firstName"] = *in.FirstName
	}
	if in.LastName != nil {
		update.Set["lastName"] = *in.LastName
	}
	if in.Role != nil {
		update.Set["role"] = *in.Role
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
	return update, nil
}

// filter reads role, shopId and isActive from the query string.
func filter(c fiber.Ctx) (bson.M, error) {
	f := bson.M{}
	if role := c.Query("role"); role != "" {
		f["role"] = role
	}
	shopID, err := basehdl.ParseOptionalObjectID(c, "shopId")
	if err != nil {
		return nil, err
	}
	if shopID != nil {
		f["shopId"] = *shopID
	}
	if active := c.Query("isActive"); active != "" {
		f["isActive"] = active == "true"
	}
	return f, nil
}

// Suggestions answers GET /users/suggestions?q=.
func (h *UserHandler) Suggestions(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		users, err := h.service.Suggest(c, c.Query("q"))
		return basehdl.HandleResponse(c, users, err)
	})
}
