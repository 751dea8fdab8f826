// Package models - SupportTicket belongs to the support domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TicketReply is one message in a ticket thread.
type TicketReply struct {
	AuthorID  string `json:"authorId" bson:"authorId"`
	Role      string `json:"role" bson:"role"`
	Message   string `json:"message" bson:"message"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// SupportTicket is a user's support request.
type SupportTicket struct {
	ID        primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    string              `json:"userId" bson:"userId" index:"single:1"`
	OrderID   *primitive.ObjectID `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Subject   string              `json:"subject" bson:"subject"`
	Message   string              `json:"message" bson:"message"`
	Status    string              `json:"status" bson:"status" index:"single:1"`
	Priority  string              `json:"priority" bson:"priority"`
	Replies   []TicketReply       `json:"replies" bson:"replies"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}
