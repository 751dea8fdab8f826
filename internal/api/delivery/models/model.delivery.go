// Package models - the delivery queue and its history belong to the delivery domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Queue item statuses. Sent items leave the queue; failed items wait for the purge job.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusFailed     = "failed"
)

// QueueStatuses lists the statuses a queue item can be in.
var QueueStatuses = []string{QueueStatusPending, QueueStatusProcessing, QueueStatusFailed}

// History outcomes.
const (
	HistorySent   = "sent"
	HistoryFailed = "failed"
)

// DeliveryQueueItem is one rendered Telegram message waiting for one resolved recipient.
type DeliveryQueueItem struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID         primitive.ObjectID `json:"orderId" bson:"orderId" index:"single:1"`
	ShopID          primitive.ObjectID `json:"shopId" bson:"shopId"`
	OrderStatus     string             `json:"orderStatus" bson:"orderStatus"`
	DestinationType string             `json:"destinationType" bson:"destinationType"`
	DestinationName string             `json:"destinationName,omitempty" bson:"destinationName,omitempty"`
	Recipient       string             `json:"recipient" bson:"recipient"`
	Content         string             `json:"content" bson:"content"`

	Status      string `json:"status" bson:"status" index:"compound:status_next"`
	RetryCount  int    `json:"retryCount" bson:"retryCount"`
	MaxRetries  int    `json:"maxRetries" bson:"maxRetries"`
	NextRetryAt *int64 `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty" index:"compound:status_next"`
	Error       string `json:"error,omitempty" bson:"error,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// DeliveryHistory records one send attempt.
type DeliveryHistory struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	QueueItemID     primitive.ObjectID `json:"queueItemId" bson:"queueItemId" index:"single:1"`
	OrderID         primitive.ObjectID `json:"orderId" bson:"orderId" index:"single:1"`
	OrderStatus     string             `json:"orderStatus" bson:"orderStatus"`
	DestinationType string             `json:"destinationType" bson:"destinationType"`
	Recipient       string             `json:"recipient" bson:"recipient"`
	Content         string             `json:"content" bson:"content"`
	Status          string             `json:"status" bson:"status" index:"single:1"`
	Error           string             `json:"error,omitempty" bson:"error,omitempty"`
	RetryCount      int                `json:"retryCount" bson:"retryCount"`
	SentAt          *int64             `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	CreatedAt       int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64              `json:"updatedAt" bson:"updatedAt"`
}
