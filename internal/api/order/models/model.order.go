// Package models - Order belongs to the order domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one order line.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

// StatusChange is one statusHistory entry.
type StatusChange struct {
	Status    string `json:"status" bson:"status"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
	UpdatedBy string `json:"updatedBy" bson:"updatedBy"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order moves through the statuses of its shop's order flow.
// ClientID is the ordering user, CourierID the assigned courier record.
type Order struct {
	ID              primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	ShopID          primitive.ObjectID  `json:"shopId" bson:"shopId" index:"compound:shop_status"`
	ClientID        primitive.ObjectID  `json:"clientId" bson:"clientId" index:"single:1"`
	CourierID       *primitive.ObjectID `json:"courierId,omitempty" bson:"courierId,omitempty" index:"single:1"`
	Items           []OrderItem         `json:"items" bson:"items"`
	TotalAmount     float64             `json:"totalAmount" bson:"totalAmount"`
	DeliveryAddress string              `json:"deliveryAddress" bson:"deliveryAddress"`
	Status          string              `json:"status" bson:"status" index:"compound:shop_status"`
	StatusHistory   []StatusChange      `json:"statusHistory" bson:"statusHistory"`
	CreatedAt       int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64               `json:"updatedAt" bson:"updatedAt"`
}

// Total sums the item lines.
func Total(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}
