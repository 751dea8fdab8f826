// Package supportsvc stores support tickets.
package supportsvc

import (
	"context"
	"time"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/support/models"
	"delivery_marketplace/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errTicketClosed = common.NewError(common.ErrCodeBusinessState, "Ticket is closed", common.StatusBadRequest, nil)

// SupportTicketService is the ticket CRUD service.
type SupportTicketService struct {
	*basesvc.BaseServiceMongoImpl[models.SupportTicket]
}

// NewSupportTicketService wraps the support_tickets collection.
func NewSupportTicketService(collection *mongo.Collection) *SupportTicketService {
	return &SupportTicketService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.SupportTicket](collection)}
}

// AddReply appends a reply. A staff reply moves an open ticket to in_progress.
func (s *SupportTicketService) AddReply(ctx context.Context, id primitive.ObjectID, reply models.TicketReply, staff bool) (models.SupportTicket, error) {
	ticket, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.SupportTicket{}, err
	}
	if ticket.Status == models.TicketClosed {
		return models.SupportTicket{}, errTicketClosed
	}
	reply.CreatedAt = time.Now().UnixMilli()
	update := &basesvc.UpdateData{Push: map[string]interface{}{"replies": reply}}
	if staff && ticket.Status == models.TicketOpen {
		update.Set = map[string]interface{}{"status": models.TicketInProgress}
	}
	return s.UpdateById(ctx, id, update)
}

// SetStatus moves a ticket. Closed tickets stay closed.
func (s *SupportTicketService) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.SupportTicket, error) {
	ticket, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.SupportTicket{}, err
	}
	if ticket.Status == models.TicketClosed && status != models.TicketClosed {
		return models.SupportTicket{}, errTicketClosed
	}
	return s.UpdateOne(ctx, bson.M{"_id": id}, &basesvc.UpdateData{Set: map[string]interface{}{"status": status}}, nil)
}
