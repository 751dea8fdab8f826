// Package deliverysvc stores the Telegram delivery queue and its history.
package deliverysvc

import (
	"context"
	"time"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/delivery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMaxRetries applies to items enqueued without their own limit.
const DefaultMaxRetries = 3

// DeliveryQueueService is the delivery_queue collection.
type DeliveryQueueService struct {
	*basesvc.BaseServiceMongoImpl[models.DeliveryQueueItem]
	stuckAfter time.Duration
}

// NewDeliveryQueueService wraps collection. Items left in processing longer than stuckAfter are
// claimable again.
func NewDeliveryQueueService(collection *mongo.Collection, stuckAfter time.Duration) *DeliveryQueueService {
	return &DeliveryQueueService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.DeliveryQueueItem](collection),
		stuckAfter:           stuckAfter,
	}
}

// Enqueue inserts items as pending.
func (s *DeliveryQueueService) Enqueue(ctx context.Context, items []models.DeliveryQueueItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].Status = models.QueueStatusPending
		items[i].RetryCount = 0
		items[i].NextRetryAt = nil
		if items[i].MaxRetries <= 0 {
			items[i].MaxRetries = DefaultMaxRetries
		}
	}
	_, err := s.InsertMany(ctx, items)
	return err
}

// pendingFilter matches due pending items and processing items that look abandoned.
func pendingFilter(now time.Time, stuckAfter time.Duration) bson.M {
	nowMs := now.UnixMilli()
	return bson.M{
		"$and": []bson.M{
			{"$or": []bson.M{
				{"status": models.QueueStatusPending},
				{"status": models.QueueStatusProcessing, "updatedAt": bson.M{"$lt": now.Add(-stuckAfter).UnixMilli()}},
			}},
			{"$or": []bson.M{
				{"nextRetryAt": nil},
				{"nextRetryAt": bson.M{"$lte": nowMs}},
			}},
		},
	}
}

// FindPending returns up to limit claimable items, oldest first.
func (s *DeliveryQueueService) FindPending(ctx context.Context, limit int) ([]models.DeliveryQueueItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit))
	return s.Find(ctx, pendingFilter(time.Now(), s.stuckAfter), opts)
}

// ClaimPending moves up to limit claimable items to processing and returns them.
// Items another processor claimed in between are dropped from the result.
func (s *DeliveryQueueService) ClaimPending(ctx context.Context, limit int) ([]models.DeliveryQueueItem, error) {
	candidates, err := s.FindPending(ctx, limit)
	if err != nil {
		return nil, err
	}
	claimed := make([]models.DeliveryQueueItem, 0, len(candidates))
	for _, item := range candidates {
		filter := bson.M{"_id": item.ID, "updatedAt": item.UpdatedAt}
		update := &basesvc.UpdateData{Set: map[string]interface{}{"status": models.QueueStatusProcessing}}
		n, err := s.UpdateMany(ctx, filter, update, nil)
		if err != nil {
			return claimed, err
		}
		if n == 1 {
			item.Status = models.QueueStatusProcessing
			claimed = append(claimed, item)
		}
	}
	return claimed, nil
}

// Complete removes a sent item.
func (s *DeliveryQueueService) Complete(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// Retry puts an item back to pending until nextRetryAt (unix ms).
func (s *DeliveryQueueService) Retry(ctx context.Context, id primitive.ObjectID, retryCount int, nextRetryAt int64, reason string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": id}, &basesvc.UpdateData{Set: map[string]interface{}{
		"status":      models.QueueStatusPending,
		"retryCount":  retryCount,
		"nextRetryAt": nextRetryAt,
		"error":       reason,
	}}, nil)
	return err
}

// Fail marks an item failed. It stays in the queue until CleanupFailed purges it.
func (s *DeliveryQueueService) Fail(ctx context.Context, id primitive.ObjectID, retryCount int, reason string) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": id}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":     models.QueueStatusFailed,
			"retryCount": retryCount,
			"error":      reason,
		},
		Unset: map[string]interface{}{"nextRetryAt": ""},
	}, nil)
	return err
}

// ResetStuck returns items stuck in processing for longer than stuckAfter to pending.
func (s *DeliveryQueueService) ResetStuck(ctx context.Context) (int64, error) {
	filter := bson.M{
		"status":    models.QueueStatusProcessing,
		"updatedAt": bson.M{"$lt": time.Now().Add(-s.stuckAfter).UnixMilli()},
	}
	return s.UpdateMany(ctx, filter, &basesvc.UpdateData{
		Set:   map[string]interface{}{"status": models.QueueStatusPending},
		Unset: map[string]interface{}{"nextRetryAt": ""},
	}, nil)
}

// CleanupFailed deletes failed items last touched before now-retention.
func (s *DeliveryQueueService) CleanupFailed(ctx context.Context, retention time.Duration) (int64, error) {
	return s.DeleteMany(ctx, bson.M{
		"status":    models.QueueStatusFailed,
		"updatedAt": bson.M{"$lt": time.Now().Add(-retention).UnixMilli()},
	})
}

// CountByStatus counts items per queue status.
func (s *DeliveryQueueService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(models.QueueStatuses))
	for _, status := range models.QueueStatuses {
		n, err := s.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

// Requeue gives a failed item a fresh set of attempts.
func (s *DeliveryQueueService) Requeue(ctx context.Context, id primitive.ObjectID) (models.DeliveryQueueItem, error) {
	return s.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": models.QueueStatusFailed}, &basesvc.UpdateData{
		Set:   map[string]interface{}{"status": models.QueueStatusPending, "retryCount": 0},
		Unset: map[string]interface{}{"nextRetryAt": "", "error": ""},
	}, nil)
}
