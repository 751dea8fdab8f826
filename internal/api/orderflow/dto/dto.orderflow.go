// Package orderflowdto holds the request bodies of the order flow routes.
package orderflowdto

import (
	"delivery_marketplace/internal/api/orderflow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForwardingDestinationInput is one destination in a step form.
type ForwardingDestinationInput struct {
	Type       string `json:"type" validate:"required,destination_type"`
	Identifier string `json:"identifier" validate:"required,max=128"`
	Name       string `json:"name,omitempty" validate:"omitempty,max=100,no_xss"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// OrderFlowStepInput is the step editor form.
type OrderFlowStepInput struct {
	Status                 string                       `json:"status" validate:"required,max=64,no_xss"`
	Name                   string                       `json:"name" validate:"required,max=100,no_xss"`
	Description            string                       `json:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	ForwardingDestinations []ForwardingDestinationInput `json:"forwardingDestinations" validate:"omitempty,dive"`
	AuthorizedRoles        []string                     `json:"authorizedRoles" validate:"omitempty,dive,flow_role"`
	NextStatuses           []string                     `json:"nextStatuses" validate:"omitempty,dive,max=64"`
	IsActive               *bool                        `json:"isActive,omitempty"`
	Order                  int                          `json:"order"`
}

// OrderFlowInput is the flow form. version, when present, is read from the raw body.
type OrderFlowInput struct {
	ShopID      string               `json:"shopId,omitempty" validate:"omitempty,object_id"`
	Name        string               `json:"name" validate:"required,max=100,no_xss"`
	Description string               `json:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	Steps       []OrderFlowStepInput `json:"steps" validate:"required,min=1,dive"`
	IsActive    *bool                `json:"isActive,omitempty"`
	IsDefault   bool                 `json:"isDefault"`
}

// CanChangeStatusInput asks whether a transition is allowed. Role defaults to the caller's role.
type CanChangeStatusInput struct {
	CurrentStatus string `json:"currentStatus" validate:"required"`
	NewStatus     string `json:"newStatus" validate:"required"`
	Role          string `json:"role,omitempty" validate:"omitempty,flow_role"`
	ShopID        string `json:"shopId,omitempty" validate:"omitempty,object_id"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ToModel converts a destination; isActive defaults to true.
func (in ForwardingDestinationInput) ToModel() models.ForwardingDestination {
	return models.ForwardingDestination{
		Type:       in.Type,
		Identifier: in.Identifier,
		Name:       in.Name,
		IsActive:   boolOr(in.IsActive, true),
	}
}

// ToModel converts a step; isActive defaults to true.
func (in OrderFlowStepInput) ToModel() models.OrderFlowStep {
	dests := make([]models.ForwardingDestination, 0, len(in.ForwardingDestinations))
	for _, d := range in.ForwardingDestinations {
		dests = append(dests, d.ToModel())
	}
	roles := append([]string{}, in.AuthorizedRoles...)
	next := append([]string{}, in.NextStatuses...)
	return models.OrderFlowStep{
		Status:                 in.Status,
		Name:                   in.Name,
		Description:            in.Description,
		ForwardingDestinations: dests,
		AuthorizedRoles:        roles,
		NextStatuses:           next,
		IsActive:               boolOr(in.IsActive, true),
		Order:                  in.Order,
	}
}

// ToModel converts the flow form. shopId has already passed object_id validation.
func (in OrderFlowInput) ToModel() models.OrderFlow {
	steps := make([]models.OrderFlowStep, 0, len(in.Steps))
	for _, s := range in.Steps {
		steps = append(steps, s.ToModel())
	}
	flow := models.OrderFlow{
		Name:        in.Name,
		Description: in.Description,
		Steps:       steps,
		IsActive:    boolOr(in.IsActive, true),
		IsDefault:   in.IsDefault,
	}
	if in.ShopID != "" {
		if id, err := primitive.ObjectIDFromHex(in.ShopID); err == nil {
			flow.ShopID = &id
		}
	}
	return flow
}
