package deliverysvc

import (
	"context"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/delivery/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DeliveryHistoryService is the delivery_history collection.
type DeliveryHistoryService struct {
	*basesvc.BaseServiceMongoImpl[models.DeliveryHistory]
}

// NewDeliveryHistoryService wraps collection.
func NewDeliveryHistoryService(collection *mongo.Collection) *DeliveryHistoryService {
	return &DeliveryHistoryService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.DeliveryHistory](collection)}
}

// Record stores one attempt.
func (s *DeliveryHistoryService) Record(ctx context.Context, h models.DeliveryHistory) error {
	_, err := s.InsertOne(ctx, h)
	return err
}
