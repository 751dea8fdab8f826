// Package deliveryhdl exposes the delivery queue and history for inspection.
package deliveryhdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	"delivery_marketplace/internal/api/delivery/models"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueueService is what the queue handler needs from deliverysvc.DeliveryQueueService.
type QueueService interface {
	basehdl.CRUDService[models.DeliveryQueueItem]
	Requeue(ctx context.Context, id primitive.ObjectID) (models.DeliveryQueueItem, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// QueueHandler lists queue items. Items are created by status changes, never over HTTP.
type QueueHandler struct {
	*basehdl.BaseHandler[models.DeliveryQueueItem, struct{}, struct{}]
	service QueueService
}

// HistoryHandler lists send attempts.
type HistoryHandler struct {
	*basehdl.BaseHandler[models.DeliveryHistory, struct{}, struct{}]
}

func deliveryFilter(c fiber.Ctx) (bson.M, error) {
	f := bson.M{}
	if status := c.Query("status"); status != "" {
		f["status"] = status
	}
	orderID, err := basehdl.ParseOptionalObjectID(c, "orderId")
	if err != nil {
		return nil, err
	}
	if orderID != nil {
		f["orderId"] = *orderID
	}
	return f, nil
}

// NewQueueHandler creates the queue handler.
func NewQueueHandler(service QueueService) *QueueHandler {
	h := &QueueHandler{
		BaseHandler: basehdl.NewBaseHandler[models.DeliveryQueueItem, struct{}, struct{}](service, "delivery_queue"),
		service:     service,
	}
	h.Filter = deliveryFilter
	return h
}

// NewHistoryHandler creates the history handler.
func NewHistoryHandler(service basehdl.CRUDService[models.DeliveryHistory]) *HistoryHandler {
	h := &HistoryHandler{
		BaseHandler: basehdl.NewBaseHandler[models.DeliveryHistory, struct{}, struct{}](service, "delivery_history"),
	}
	h.Filter = deliveryFilter
	return h
}

// Requeue answers POST /delivery/queue/:id/requeue.
func (h *QueueHandler) Requeue(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		item, err := h.service.Requeue(c, id)
		if err == nil {
			logger.LogCRUD("requeue", "delivery_queue", id.Hex(), c, nil)
		}
		return basehdl.HandleResponse(c, item, err)
	})
}

// Stats answers GET /delivery/queue/stats.
func (h *QueueHandler) Stats(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		counts, err := h.service.CountByStatus(c)
		return basehdl.HandleResponse(c, counts, err)
	})
}
