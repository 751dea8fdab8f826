// Package models - OrderFlow belongs to the order flow domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Forwarding destination types.
const (
	DestinationTelegramUser    = "telegram_user"
	DestinationTelegramGroup   = "telegram_group"
	DestinationTelegramChannel = "telegram_channel"
)

// DestinationTypes is the fixed destination type enum.
var DestinationTypes = []string{DestinationTelegramUser, DestinationTelegramGroup, DestinationTelegramChannel}

// IsValidDestinationType reports whether t is one of DestinationTypes.
func IsValidDestinationType(t string) bool {
	for _, d := range DestinationTypes {
		if d == t {
			return true
		}
	}
	return false
}

// ForwardingDestination is a Telegram chat notified when an order enters a step.
// Identifier is a numeric chat id, an @username, or a {{...}} placeholder.
type ForwardingDestination struct {
	Type       string `json:"type" bson:"type" yaml:"type"`
	Identifier string `json:"identifier" bson:"identifier" yaml:"identifier"`
	Name       string `json:"name,omitempty" bson:"name,omitempty" yaml:"name"`
	IsActive   bool   `json:"isActive" bson:"isActive" yaml:"isActive"`
}

// OrderFlowStep is one order status in a flow.
type OrderFlowStep struct {
	Status                 string                  `json:"status" bson:"status" yaml:"status"`
	Name                   string                  `json:"name" bson:"name" yaml:"name"`
	Description            string                  `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	ForwardingDestinations []ForwardingDestination `json:"forwardingDestinations" bson:"forwardingDestinations" yaml:"forwardingDestinations"`
	// AuthorizedRoles may move an order INTO this step.
	AuthorizedRoles []string `json:"authorizedRoles" bson:"authorizedRoles" yaml:"authorizedRoles"`
	NextStatuses    []string `json:"nextStatuses" bson:"nextStatuses" yaml:"nextStatuses"`
	IsActive        bool     `json:"isActive" bson:"isActive" yaml:"isActive"`
	Order           int      `json:"order" bson:"order" yaml:"order"`
}

// OrderFlow is a per-shop order state machine. ShopID is nil for the default flow.
type OrderFlow struct {
	ID          primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty" yaml:"-"`
	ShopID      *primitive.ObjectID `json:"shopId" bson:"shopId,omitempty" yaml:"-" index:"unique,partial:objectId"`
	Name        string              `json:"name" bson:"name" yaml:"name"`
	Description string              `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	Steps       []OrderFlowStep     `json:"steps" bson:"steps" yaml:"steps"`
	IsActive    bool                `json:"isActive" bson:"isActive" yaml:"isActive" index:"single:1"`
	IsDefault   bool                `json:"isDefault" bson:"isDefault" yaml:"isDefault" index:"single:1"`
	// Version increases on every write; updates carrying a stale version are rejected.
	Version   int64 `json:"version" bson:"version"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// IsCustom reports whether the flow belongs to a shop.
func (f *OrderFlow) IsCustom() bool {
	return f.ShopID != nil && !f.ShopID.IsZero()
}
