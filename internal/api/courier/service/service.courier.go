// Package couriersvc stores couriers.
package couriersvc

import (
	"context"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/courier/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourierService is the courier CRUD service.
type CourierService struct {
	*basesvc.BaseServiceMongoImpl[models.Courier]
}

// NewCourierService wraps the couriers collection.
func NewCourierService(collection *mongo.Collection) *CourierService {
	return &CourierService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Courier](collection)}
}

// AvailableFilter selects active, available couriers, of one shop when shopID is set.
func AvailableFilter(shopID *primitive.ObjectID) bson.M {
	filter := bson.M{"isActive": true, "isAvailable": true}
	if shopID != nil {
		filter["shopId"] = *shopID
	}
	return filter
}

// Available lists couriers that can take an order, by name.
func (s *CourierService) Available(ctx context.Context, shopID *primitive.ObjectID) ([]models.Courier, error) {
	return s.Find(ctx, AvailableFilter(shopID), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// SetAvailability flips isAvailable.
func (s *CourierService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (models.Courier, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"isAvailable": available}})
}

// FindByUserID returns the courier profile of a user account.
func (s *CourierService) FindByUserID(ctx context.Context, userID primitive.ObjectID) (models.Courier, error) {
	return s.FindOne(ctx, bson.M{"userId": userID}, nil)
}
