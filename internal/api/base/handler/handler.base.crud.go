// Package basehdl holds the response envelope, request parsing and the generic CRUD handler.
package basehdl

import (
	"context"
	"fmt"
	"reflect"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CRUDService is the part of basesvc.BaseServiceMongo the CRUD handler calls.
type CRUDService[T any] interface {
	InsertOne(ctx context.Context, data T) (T, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (T, error)
	FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
}

// BaseHandler serves list/get/create/update/delete for one resource.
// CreateInput and UpdateInput are the request DTOs; ToModel and ToUpdate map them onto storage.
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService  CRUDService[T]
	ResourceType string

	ToModel  func(c fiber.Ctx, input *CreateInput) (T, error)
	ToUpdate func(c fiber.Ctx, input *UpdateInput) (interface{}, error)
	// Filter builds the list filter from query parameters. nil lists everything.
	Filter func(c fiber.Ctx) (bson.M, error)
	Sort   bson.D
}

// NewBaseHandler returns a handler with newest-first listing.
func NewBaseHandler[T any, CreateInput any, UpdateInput any](service CRUDService[T], resourceType string) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService:  service,
		ResourceType: resourceType,
		Sort:         bson.D{{Key: "createdAt", Value: -1}},
	}
}

// InsertOne creates a document from CreateInput.
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var input CreateInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleError(c, err)
		}
		if h.ToModel == nil {
			return HandleError(c, fmt.Errorf("%s: create is not configured", h.ResourceType))
		}
		model, err := h.ToModel(c, &input)
		if err != nil {
			return HandleError(c, err)
		}

		data, err := h.BaseService.InsertOne(c, model)
		if err == nil {
			logger.LogCRUD("create", h.ResourceType, documentID(data), c, nil)
		}
		return HandleCreated(c, data, err)
	})
}

// FindOneById returns the document with the :id path parameter.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleError(c, err)
		}
		data, err := h.BaseService.FindOneById(c, id)
		return HandleResponse(c, data, err)
	})
}

// FindWithPagination lists one page; see ParsePagination.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter := bson.M{}
		if h.Filter != nil {
			f, err := h.Filter(c)
			if err != nil {
				return HandleError(c, err)
			}
			filter = f
		}

		page, limit := ParsePagination(c)
		opts := options.Find()
		if len(h.Sort) > 0 {
			opts.SetSort(h.Sort)
		}
		result, err := h.BaseService.FindWithPagination(c, filter, page, limit, opts)
		return HandlePaginated(c, result, err)
	})
}

// UpdateById applies UpdateInput to the document with :id.
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleError(c, err)
		}
		var input UpdateInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleError(c, err)
		}
		if h.ToUpdate == nil {
			return HandleError(c, fmt.Errorf("%s: update is not configured", h.ResourceType))
		}
		update, err := h.ToUpdate(c, &input)
		if err != nil {
			return HandleError(c, err)
		}

		data, err := h.BaseService.UpdateById(c, id, update)
		if err == nil {
			logger.LogCRUD("update", h.ResourceType, id.Hex(), c, nil)
		}
		return HandleResponse(c, data, err)
	})
}

// DeleteById removes the document with :id.
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleError(c, err)
		}
		err = h.BaseService.DeleteById(c, id)
		if err == nil {
			logger.LogCRUD("delete", h.ResourceType, id.Hex(), c, nil)
		}
		return HandleResponse(c, fiber.Map{"deleted": id.Hex()}, err)
	})
}

// documentID reads the ID field of a model for audit entries.
func documentID(model interface{}) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	field := v.FieldByName("ID")
	if !field.IsValid() {
		return ""
	}
	if id, ok := field.Interface().(primitive.ObjectID); ok {
		return id.Hex()
	}
	return ""
}
