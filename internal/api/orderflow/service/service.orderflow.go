// Package orderflowsvc stores order flows and answers engine queries against the flow that applies to a shop.
package orderflowsvc

import (
	"context"
	"errors"
	"time"

	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/cache"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/orderflow"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	cachePrefix    = "orderflow:"
	defaultFlowKey = cachePrefix + "shop:default"
)

var (
	errStepNotFound    = common.NewError(common.ErrCodeDatabaseQuery, "Status is not a step of the order flow", common.StatusNotFound, nil)
	errNoDefaultFlow   = common.NewError(common.ErrCodeDatabaseQuery, "No default order flow is configured", common.StatusNotFound, nil)
	errDeleteDefault   = common.NewError(common.ErrCodeBusinessOperation, "The default flow cannot be deleted, set another flow as default first", common.StatusBadRequest, nil)
	errInactiveDefault = common.NewError(common.ErrCodeBusinessOperation, "An inactive flow cannot be the default flow", common.StatusBadRequest, nil)
	errShopHasFlow     = common.NewError(common.ErrCodeDatabaseQuery, "Shop already has a custom order flow", common.StatusConflict, nil)
)

// OrderFlowService manages flows and resolves the flow that applies to a shop.
type OrderFlowService struct {
	store Store
	cache cache.Cache
	ttl   time.Duration
}

// NewOrderFlowService creates the service. Resolved flows are cached for ttl.
func NewOrderFlowService(store Store, c cache.Cache, ttl time.Duration) *OrderFlowService {
	return &OrderFlowService{store: store, cache: c, ttl: ttl}
}

func shopKey(shopID *primitive.ObjectID) string {
	if shopID == nil || shopID.IsZero() {
		return defaultFlowKey
	}
	return cachePrefix + "shop:" + shopID.Hex()
}

func (s *OrderFlowService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		logger.GetAppLogger().WithError(err).Warn("Failed to invalidate order flow cache")
	}
}

// GetAllFlows lists flows, default first.
func (s *OrderFlowService) GetAllFlows(ctx context.Context, filter FlowFilter) ([]models.OrderFlow, error) {
	return s.store.FindAll(ctx, filter)
}

// GetFlowByID returns one flow.
func (s *OrderFlowService) GetFlowByID(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	return s.store.FindByID(ctx, id)
}

// GetFlowForShop returns the shop's active custom flow, or the default flow.
// A nil shopID asks for the default flow.
func (s *OrderFlowService) GetFlowForShop(ctx context.Context, shopID *primitive.ObjectID) (models.OrderFlow, error) {
	key := shopKey(shopID)
	var cached models.OrderFlow
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	} else if err != nil {
		logger.GetAppLogger().WithError(err).WithField("key", key).Warn("Order flow cache read failed")
	}

	flow, err := s.resolve(ctx, shopID)
	if err != nil {
		return models.OrderFlow{}, err
	}
	if err := s.cache.Set(ctx, key, flow, s.ttl); err != nil {
		logger.GetAppLogger().WithError(err).WithField("key", key).Warn("Order flow cache write failed")
	}
	return flow, nil
}

func (s *OrderFlowService) resolve(ctx context.Context, shopID *primitive.ObjectID) (models.OrderFlow, error) {
	if shopID != nil && !shopID.IsZero() {
		flow, found, err := s.store.FindByShop(ctx, *shopID)
		if err != nil {
			return models.OrderFlow{}, err
		}
		if found && flow.IsActive {
			return flow, nil
		}
	}
	flow, err := s.store.FindDefault(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return models.OrderFlow{}, errNoDefaultFlow
	}
	return flow, err
}

// GetStepByStatus returns the step for status in the shop's flow.
func (s *OrderFlowService) GetStepByStatus(ctx context.Context, status string, shopID *primitive.ObjectID) (models.OrderFlowStep, error) {
	flow, err := s.GetFlowForShop(ctx, shopID)
	if err != nil {
		return models.OrderFlowStep{}, err
	}
	step, ok := orderflow.StepByStatus(flow, status)
	if !ok {
		return models.OrderFlowStep{}, errStepNotFound
	}
	return step, nil
}

// GetNextStatuses lists the statuses reachable from status.
func (s *OrderFlowService) GetNextStatuses(ctx context.Context, status string, shopID *primitive.ObjectID) ([]string, error) {
	flow, err := s.GetFlowForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if _, ok := orderflow.StepByStatus(flow, status); !ok {
		return nil, errStepNotFound
	}
	return orderflow.NextStatuses(flow, status), nil
}

// CanChangeStatus checks a transition against the shop's flow.
func (s *OrderFlowService) CanChangeStatus(ctx context.Context, current, next, role string, shopID *primitive.ObjectID) error {
	flow, err := s.GetFlowForShop(ctx, shopID)
	if err != nil {
		return err
	}
	return orderflow.CanChangeStatus(flow, current, next, role)
}

// GetForwardingDestinations returns the active destinations of status's step.
func (s *OrderFlowService) GetForwardingDestinations(ctx context.Context, status string, shopID *primitive.ObjectID) ([]models.ForwardingDestination, error) {
	flow, err := s.GetFlowForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if _, ok := orderflow.StepByStatus(flow, status); !ok {
		return nil, errStepNotFound
	}
	return orderflow.ActiveDestinations(flow, status), nil
}

// CreateFlow validates and stores a new flow. A flow created with isDefault becomes the only default.
func (s *OrderFlowService) CreateFlow(ctx context.Context, flow models.OrderFlow) (models.OrderFlow, error) {
	orderflow.Normalize(&flow)
	if err := orderflow.Validate(flow); err != nil {
		return models.OrderFlow{}, err
	}
	if flow.IsCustom() {
		if _, found, err := s.store.FindByShop(ctx, *flow.ShopID); err != nil {
			return models.OrderFlow{}, err
		} else if found {
			return models.OrderFlow{}, errShopHasFlow
		}
	}

	makeDefault := flow.IsDefault
	flow.IsDefault = false
	created, err := s.store.Insert(ctx, flow)
	if err != nil {
		return models.OrderFlow{}, err
	}
	if makeDefault {
		created, err = s.store.SetDefault(ctx, created.ID)
		if err != nil {
			return models.OrderFlow{}, err
		}
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateFlow replaces the editable fields of flow id. shopId and isDefault are kept;
// set-default and the shop routes change those.
func (s *OrderFlowService) UpdateFlow(ctx context.Context, id primitive.ObjectID, input models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	existing.Name = input.Name
	existing.Description = input.Description
	existing.Steps = input.Steps
	existing.IsActive = input.IsActive
	return s.replace(ctx, existing, expectedVersion)
}

func (s *OrderFlowService) replace(ctx context.Context, flow models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error) {
	orderflow.Normalize(&flow)
	if err := orderflow.Validate(flow); err != nil {
		return models.OrderFlow{}, err
	}
	if flow.IsDefault && !flow.IsActive {
		return models.OrderFlow{}, errInactiveDefault
	}
	updated, err := s.store.Replace(ctx, flow, expectedVersion)
	if err != nil {
		return models.OrderFlow{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteFlow removes a non-default flow.
func (s *OrderFlowService) DeleteFlow(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return errDeleteDefault
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetDefaultFlow makes id the single default flow.
func (s *OrderFlowService) SetDefaultFlow(ctx context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	if !existing.IsActive {
		return models.OrderFlow{}, errInactiveDefault
	}
	flow, err := s.store.SetDefault(ctx, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	s.invalidate(ctx)
	return flow, nil
}

// CustomizeFlowForShop copies the default flow into a custom flow for shopID.
// When the shop already has one it is returned unchanged with created=false.
func (s *OrderFlowService) CustomizeFlowForShop(ctx context.Context, shopID primitive.ObjectID) (flow models.OrderFlow, created bool, err error) {
	existing, found, err := s.store.FindByShop(ctx, shopID)
	if err != nil {
		return models.OrderFlow{}, false, err
	}
	if found {
		return existing, false, nil
	}

	base, err := s.store.FindDefault(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return models.OrderFlow{}, false, errNoDefaultFlow
	}
	if err != nil {
		return models.OrderFlow{}, false, err
	}

	custom := orderflow.Clone(base)
	custom.ID = primitive.NilObjectID
	custom.ShopID = &shopID
	custom.IsDefault = false
	custom.IsActive = true
	orderflow.Normalize(&custom)

	flow, err = s.store.Insert(ctx, custom)
	if err != nil {
		return models.OrderFlow{}, false, err
	}
	s.invalidate(ctx)
	logger.GetAppLogger().WithFields(logrus.Fields{
		"shopId": shopID.Hex(),
		"flowId": flow.ID.Hex(),
	}).Info("Created custom order flow from default")
	return flow, true, nil
}

// ResetShopFlow deletes the shop's custom flow, if any, and returns the default flow.
func (s *OrderFlowService) ResetShopFlow(ctx context.Context, shopID primitive.ObjectID) (models.OrderFlow, error) {
	existing, found, err := s.store.FindByShop(ctx, shopID)
	if err != nil {
		return models.OrderFlow{}, err
	}
	if found {
		if err := s.store.Delete(ctx, existing.ID); err != nil {
			return models.OrderFlow{}, err
		}
		s.invalidate(ctx)
	}
	return s.GetFlowForShop(ctx, &shopID)
}

// SaveShopFlow creates the shop's custom flow, or updates it when one exists.
func (s *OrderFlowService) SaveShopFlow(ctx context.Context, shopID primitive.ObjectID, input models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error) {
	existing, found, err := s.store.FindByShop(ctx, shopID)
	if err != nil {
		return models.OrderFlow{}, err
	}
	if found {
		existing.Name = input.Name
		existing.Description = input.Description
		existing.Steps = input.Steps
		existing.IsActive = input.IsActive
		return s.replace(ctx, existing, expectedVersion)
	}

	input.ShopID = &shopID
	input.IsDefault = false
	return s.CreateFlow(ctx, input)
}

// ReplaceStep replaces the step at index, leaving the other steps as they are.
func (s *OrderFlowService) ReplaceStep(ctx context.Context, id primitive.ObjectID, index int, step models.OrderFlowStep, expectedVersion *int64) (models.OrderFlow, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	updated, err := orderflow.ReplaceStepAt(existing, index, step)
	if err != nil {
		return models.OrderFlow{}, err
	}
	return s.replace(ctx, updated, expectedVersion)
}

// ReplaceDestination replaces one forwarding destination of one step.
func (s *OrderFlowService) ReplaceDestination(ctx context.Context, id primitive.ObjectID, stepIndex, destIndex int, dest models.ForwardingDestination, expectedVersion *int64) (models.OrderFlow, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.OrderFlow{}, err
	}
	updated, err := orderflow.ReplaceDestinationAt(existing, stepIndex, destIndex, dest)
	if err != nil {
		return models.OrderFlow{}, err
	}
	return s.replace(ctx, updated, expectedVersion)
}

// EnsureDefaultFlow inserts seed as the default flow when none exists.
func (s *OrderFlowService) EnsureDefaultFlow(ctx context.Context, seed models.OrderFlow) (models.OrderFlow, bool, error) {
	existing, err := s.store.FindDefault(ctx)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return models.OrderFlow{}, false, err
	}
	seed.IsDefault = true
	seed.ShopID = nil
	created, err := s.CreateFlow(ctx, seed)
	return created, err == nil, err
}
