// Package supportdto holds the request bodies of the /support-tickets routes.
package supportdto

// TicketCreateInput opens a ticket for the caller.
type TicketCreateInput struct {
	OrderID  string `json:"orderId,omitempty" validate:"omitempty,object_id"`
	Subject  string `json:"subject" validate:"required,max=200,no_xss"`
	Message  string `json:"message" validate:"required,max=4000,no_xss"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// TicketUpdateInput edits subject or priority.
type TicketUpdateInput struct {
	Subject  *string `json:"subject,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Priority *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// ReplyInput adds a reply.
type ReplyInput struct {
	Message string `json:"message" validate:"required,max=4000,no_xss"`
}

// StatusInput moves a ticket.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}
