package orderflowsvc

import (
	"context"
	"errors"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists order flows.
type Store interface {
	FindAll(ctx context.Context, filter FlowFilter) ([]models.OrderFlow, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error)
	// FindByShop returns the shop's custom flow; found is false when the shop has none.
	FindByShop(ctx context.Context, shopID primitive.ObjectID) (flow models.OrderFlow, found bool, err error)
	FindDefault(ctx context.Context) (models.OrderFlow, error)
	Insert(ctx context.Context, flow models.OrderFlow) (models.OrderFlow, error)
	// Replace overwrites name, description, steps and isActive and bumps the version.
	// With expectedVersion set, a stored version other than it fails with ErrVersionConflict.
	Replace(ctx context.Context, flow models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// SetDefault makes id the only default flow and detaches it from any shop.
	SetDefault(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error)
}

// FlowFilter narrows FindAll.
type FlowFilter struct {
	ShopID    *primitive.ObjectID
	IsDefault *bool
	IsActive  *bool
}

// MongoStore is the Store over the order_flows collection.
type MongoStore struct {
	*basesvc.BaseServiceMongoImpl[models.OrderFlow]
}

// NewMongoStore wraps collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.OrderFlow](collection)}
}

// FindAll lists the default flow first, then the rest by creation time.
func (s *MongoStore) FindAll(ctx context.Context, f FlowFilter) ([]models.OrderFlow, error) {
	filter := bson.M{}
	if f.ShopID != nil {
		filter["shopId"] = *f.ShopID
	}
	if f.IsDefault != nil {
		filter["isDefault"] = *f.IsDefault
	}
	if f.IsActive != nil {
		filter["isActive"] = *f.IsActive
	}
	opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: 1}})
	return s.Find(ctx, filter, opts)
}

// FindByID implements Store.
func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	return s.FindOneById(ctx, id)
}

// FindByShop implements Store.
func (s *MongoStore) FindByShop(ctx context.Context, shopID primitive.ObjectID) (models.OrderFlow, bool, error) {
	flow, err := s.FindOne(ctx, bson.M{"shopId": shopID}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return models.OrderFlow{}, false, nil
	}
	if err != nil {
		return models.OrderFlow{}, false, err
	}
	return flow, true, nil
}

// FindDefault implements Store.
func (s *MongoStore) FindDefault(ctx context.Context) (models.OrderFlow, error) {
	return s.FindOne(ctx, bson.M{"isDefault": true}, nil)
}

// Insert stores flow at version 1.
func (s *MongoStore) Insert(ctx context.Context, flow models.OrderFlow) (models.OrderFlow, error) {
	flow.ID = primitive.NilObjectID
	flow.Version = 1
	return s.InsertOne(ctx, flow)
}

// Replace implements Store.
func (s *MongoStore) Replace(ctx context.Context, flow models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error) {
	filter := bson.M{"_id": flow.ID}
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"name":        flow.Name,
			"description": flow.Description,
			"steps":       flow.Steps,
			"isActive":    flow.IsActive,
		},
		Inc: map[string]interface{}{"version": 1},
	}

	updated, err := s.FindOneAndUpdate(ctx, filter, update, nil)
	if errors.Is(err, common.ErrNotFound) && expectedVersion != nil {
		exists, existsErr := s.DocumentExists(ctx, bson.M{"_id": flow.ID})
		if existsErr != nil {
			return models.OrderFlow{}, existsErr
		}
		if exists {
			return models.OrderFlow{}, common.ErrVersionConflict
		}
	}
	return updated, err
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteById(ctx, id)
}

// SetDefault clears isDefault on every other flow, then promotes id.
// The two writes are not transactional; a crash between them leaves no default,
// which GetFlowForShop reports as not found until set-default is retried.
func (s *MongoStore) SetDefault(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	if _, err := s.FindOneById(ctx, id); err != nil {
		return models.OrderFlow{}, err
	}

	demote := &basesvc.UpdateData{
		Set: map[string]interface{}{"isDefault": false},
		Inc: map[string]interface{}{"version": 1},
	}
	if _, err := s.UpdateMany(ctx, bson.M{"_id": bson.M{"$ne": id}, "isDefault": true}, demote, nil); err != nil {
		return models.OrderFlow{}, err
	}

	promote := &basesvc.UpdateData{
		Set:   map[string]interface{}{"isDefault": true},
		Unset: map[string]interface{}{"shopId": ""},
		Inc:   map[string]interface{}{"version": 1},
	}
	return s.FindOneAndUpdate(ctx, bson.M{"_id": id}, promote, nil)
}
