// Package models - Courier belongs to the courier domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Courier delivers orders. TelegramID backs the {{courier.telegram_id}} placeholder.
type Courier struct {
	ID          primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"userId" bson:"userId" index:"unique"`
	Name        string              `json:"name" bson:"name"`
	Phone       string              `json:"phone" bson:"phone"`
	TelegramID  string              `json:"telegramId,omitempty" bson:"telegramId,omitempty"`
	ShopID      *primitive.ObjectID `json:"shopId,omitempty" bson:"shopId,omitempty" index:"compound:shop_available"`
	IsAvailable bool                `json:"isAvailable" bson:"isAvailable" index:"compound:shop_available"`
	IsActive    bool                `json:"isActive" bson:"isActive"`
	CreatedAt   int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64               `json:"updatedAt" bson:"updatedAt"`
}
