// Package supporthdl serves the /support-tickets routes.
package supporthdl

import (
	"context"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	basesvc "delivery_marketplace/internal/api/base/service"
	supportdto "delivery_marketplace/internal/api/support/dto"
	"delivery_marketplace/internal/api/support/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceType = "support_ticket"

// Service is what the handler needs from supportsvc.SupportTicketService.
type Service interface {
	basehdl.CRUDService[models.SupportTicket]
	AddReply(ctx context.Context, id primitive.ObjectID, reply models.TicketReply, staff bool) (models.SupportTicket, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.SupportTicket, error)
}

// SupportHandler is the ticket handler. Admins see every ticket; everyone else only their own.
type SupportHandler struct {
	*basehdl.BaseHandler[models.SupportTicket, supportdto.TicketCreateInput, supportdto.TicketUpdateInput]
	service Service
}

// NewSupportHandler creates the handler.
func NewSupportHandler(service Service) *SupportHandler {
	h := &SupportHandler{
		BaseHandler: basehdl.NewBaseHandler[models.SupportTicket, supportdto.TicketCreateInput, supportdto.TicketUpdateInput](service, resourceType),
		service:     service,
	}
	h.ToModel = func(c fiber.Ctx, in *supportdto.TicketCreateInput) (models.SupportTicket, error) {
		priority := in.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		ticket := models.SupportTicket{
			UserID:   basehdl.GetCaller(c).UserID,
			Subject:  in.Subject,
			Message:  in.Message,
			Status:   models.TicketOpen,
			Priority: priority,
			Replies:  []models.TicketReply{},
		}
		if in.OrderID != "" {
			id, _ := primitive.ObjectIDFromHex(in.OrderID)
			ticket.OrderID = &id
		}
		return ticket, nil
	}
	h.ToUpdate = func(c fiber.Ctx, in *supportdto.TicketUpdateInput) (interface{}, error) {
		if _, err := h.owned(c); err != nil {
			return nil, err
		}
		update := &basesvc.UpdateData{Set: map[string]interface{}{}}
		if in.Subject != nil {
			update.Set["subject"] = *in.Subject
		}
		if in.Priority != nil {
			update.Set["priority"] = *in.Priority
		}
		return update, nil
	}
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		f := bson.M{}
		caller := basehdl.GetCaller(c)
		if caller.Role != basemodels.RoleAdmin {
			f["userId"] = caller.UserID
		}
		if status := c.Query("status"); status != "" {
			f["status"] = status
		}
		return f, nil
	}
	return h
}

// owned loads :id and checks the caller is an admin or the ticket's author.
func (h *SupportHandler) owned(c fiber.Ctx) (models.SupportTicket, error) {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return models.SupportTicket{}, err
	}
	ticket, err := h.service.FindOneById(c, id)
	if err != nil {
		return models.SupportTicket{}, err
	}
	caller := basehdl.GetCaller(c)
	if caller.Role != basemodels.RoleAdmin && ticket.UserID != caller.UserID {
		// hide other users' tickets entirely
		return models.SupportTicket{}, common.ErrNotFound
	}
	return ticket, nil
}

// FindOneById returns a ticket the caller may see.
func (h *SupportHandler) FindOneById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		ticket, err := h.owned(c)
		return basehdl.HandleResponse(c, ticket, err)
	})
}

// AddReply answers POST /support-tickets/:id/replies.
func (h *SupportHandler) AddReply(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		ticket, err := h.owned(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input supportdto.ReplyInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		caller := basehdl.GetCaller(c)
		reply := models.TicketReply{AuthorID: caller.UserID, Role: caller.Role, Message: input.Message}
		updated, err := h.service.AddReply(c, ticket.ID, reply, caller.Role == basemodels.RoleAdmin)
		if err == nil {
			logger.LogCRUD("reply", resourceType, ticket.ID.Hex(), c, nil)
		}
		return basehdl.HandleCreated(c, updated, err)
	})
}

// SetStatus answers PUT /support-tickets/:id/status. Authors may only close their own ticket.
func (h *SupportHandler) SetStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		ticket, err := h.owned(c)
		if err != nil {
			return basehdl.HandleError(c, err)
		}
		var input supportdto.StatusInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleError(c, err)
		}
		if basehdl.GetCaller(c).Role != basemodels.RoleAdmin && input.Status != models.TicketClosed {
			return basehdl.HandleError(c, common.ErrRoleDenied)
		}
		updated, err := h.service.SetStatus(c, ticket.ID, input.Status)
		if err == nil {
			logger.LogCRUD("update", resourceType, ticket.ID.Hex(), c, map[string]interface{}{"status": input.Status})
		}
		return basehdl.HandleResponse(c, updated, err)
	})
}
