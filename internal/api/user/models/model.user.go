// Package models - User belongs to the user domain.
package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a Telegram account known to the marketplace.
type User struct {
	ID         primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	TelegramID int64               `json:"telegramId" bson:"telegramId" index:"unique"`
	Username   string              `json:"username,omitempty" bson:"username,omitempty" index:"single:1"`
	FirstName  string              `json:"firstName" bson:"firstName"`
	LastName   string              `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Role       string              `json:"role" bson:"role" index:"single:1"`
	ShopID     *primitive.ObjectID `json:"shopId,omitempty" bson:"shopId,omitempty" index:"single:1"`
	IsActive   bool                `json:"isActive" bson:"isActive"`
	CreatedAt  int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64               `json:"updatedAt" bson:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
