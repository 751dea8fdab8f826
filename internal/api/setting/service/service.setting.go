// Package settingsvc stores feature flags.
package settingsvc

import (
	"context"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/setting/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettingService is the settings CRUD service.
type SettingService struct {
	*basesvc.BaseServiceMongoImpl[models.Setting]
}

// NewSettingService wraps the settings collection.
func NewSettingService(collection *mongo.Collection) *SettingService {
	return &SettingService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Setting](collection)}
}

// FindByKey returns the flag stored under key.
func (s *SettingService) FindByKey(ctx context.Context, key string) (models.Setting, error) {
	return s.FindOne(ctx, bson.M{"key": key}, nil)
}

// MergeUpdate applies a partial change to existing and checks the result still fits the flag type.
// value and options are nil when not being changed.
func MergeUpdate(existing models.Setting, value interface{}, options []string, description *string, isActive *bool) (*basesvc.UpdateData, error) {
	merged := existing
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if value != nil {
		merged.Value = value
		update.Set["value"] = value
	}
	if options != nil {
		merged.Options = options
		update.Set["options"] = options
	}
	if description != nil {
		update.Set["description"] = *description
	}
	if isActive != nil {
		update.Set["isActive"] = *isActive
	}
	if !global.CheckFlagValue(merged.FlagType, merged.Options, merged.Value) {
		return nil, common.NewValidationError(common.MsgValidationError, map[string]string{
			"value": "does not fit a " + merged.FlagType + " flag",
		})
	}
	return update, nil
}

// EnsureDefaults inserts every flag in defaults whose key is not stored yet.
func (s *SettingService) EnsureDefaults(ctx context.Context, defaults []models.Setting) (int, error) {
	created := 0
	for _, d := range defaults {
		exists, err := s.DocumentExists(ctx, bson.M{"key": d.Key})
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if _, err := s.InsertOne(ctx, d); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
