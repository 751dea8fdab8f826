// Package models - Shop and TelegramGroup belong to the shop domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Telegram chat types a group record can have.
const (
	ChatTypeGroup      = "group"
	ChatTypeSupergroup = "supergroup"
	ChatTypeChannel    = "channel"
)

// Shop is a seller. The chat fields back the {{shop.*}} destination placeholders.
type Shop struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name" index:"text"`
	OwnerID         primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"`
	TelegramGroupID string             `json:"telegramGroupId,omitempty" bson:"telegramGroupId,omitempty"`
	OrdersChatID    string             `json:"ordersChatId,omitempty" bson:"ordersChatId,omitempty"`
	CouriersChatID  string             `json:"couriersChatId,omitempty" bson:"couriersChatId,omitempty"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	CreatedAt       int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64              `json:"updatedAt" bson:"updatedAt"`
}

// TelegramGroup is a group or channel the bot has been added to.
type TelegramGroup struct {
	ID        primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	ChatID    int64               `json:"chatId" bson:"chatId" index:"unique"`
	Title     string              `json:"title" bson:"title"`
	Type      string              `json:"type" bson:"type"`
	Username  string              `json:"username,omitempty" bson:"username,omitempty"`
	ShopID    *primitive.ObjectID `json:"shopId,omitempty" bson:"shopId,omitempty" index:"single:1"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}
