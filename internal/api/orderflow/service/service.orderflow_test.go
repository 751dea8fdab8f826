package orderflowsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/cache"
	"delivery_marketplace/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func flowWith(name string, statuses ...string) models.OrderFlow {
	steps := make([]models.OrderFlowStep, 0, len(statuses))
	for i, status := range statuses {
		var next []string
		if i+1 < len(statuses) {
			next = []string{statuses[i+1]}
		}
		steps = append(steps, models.OrderFlowStep{
			Status:          status,
			Name:            status,
			AuthorizedRoles: []string{basemodels.RoleAdmin, basemodels.RoleShopOwner},
			NextStatuses:    next,
			IsActive:        true,
			ForwardingDestinations: []models.ForwardingDestination{
				{Type: models.DestinationTelegramGroup, Identifier: "{{shop.orders_chat_id}}", IsActive: true},
			},
		})
	}
	return models.OrderFlow{Name: name, Steps: steps, IsActive: true}
}

func newService(t *testing.T) (*OrderFlowService, *MemoryStore, models.OrderFlow) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewOrderFlowService(store, cache.NewMemoryCache(0), time.Minute)
	def := flowWith("default", "created", "confirmed", "delivered")
	def.IsDefault = true
	created, err := svc.CreateFlow(context.Background(), def)
	require.NoError(t, err)
	require.True(t, created.IsDefault)
	return svc, store, created
}

func countDefaults(t *testing.T, svc *OrderFlowService) int {
	t.Helper()
	yes := true
	flows, err := svc.GetAllFlows(context.Background(), FlowFilter{IsDefault: &yes})
	require.NoError(t, err)
	return len(flows)
}

func TestCreateFlow_RejectsZeroSteps(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.CreateFlow(context.Background(), models.OrderFlow{Name: "empty"})
	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
}

func TestCreateFlow_RenumbersOrder(t *testing.T) {
	svc, _, _ := newService(t)
	flow := flowWith("other", "a", "b", "c")
	flow.Steps[0].Order = 9
	flow.Steps[2].Order = 1

	created, err := svc.CreateFlow(context.Background(), flow)
	require.NoError(t, err)
	for i, s := range created.Steps {
		assert.Equal(t, i, s.Order)
	}
}

func TestGetFlowForShop_FallsBackToDefault(t *testing.T) {
	svc, _, def := newService(t)
	shopID := primitive.NewObjectID()

	flow, err := svc.GetFlowForShop(context.Background(), &shopID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, flow.ID)
}

func TestCustomizeThenReset(t *testing.T) {
	svc, _, def := newService(t)
	ctx := context.Background()
	shopID := primitive.NewObjectID()

	// warm the cache with the default answer
	_, err := svc.GetFlowForShop(ctx, &shopID)
	require.NoError(t, err)

	custom, created, err := svc.CustomizeFlowForShop(ctx, shopID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, def.ID, custom.ID)
	assert.Equal(t, shopID, *custom.ShopID)
	assert.False(t, custom.IsDefault)
	assert.Equal(t, len(def.Steps), len(custom.Steps))

	again, created, err := svc.CustomizeFlowForShop(ctx, shopID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, custom.ID, again.ID)

	resolved, err := svc.GetFlowForShop(ctx, &shopID)
	require.NoError(t, err)
	assert.Equal(t, custom.ID, resolved.ID, "cache must be invalidated by customize")

	reset, err := svc.ResetShopFlow(ctx, shopID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, reset.ID)

	resolved, err = svc.GetFlowForShop(ctx, &shopID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, resolved.ID)
}

func TestCreateFlow_OneCustomFlowPerShop(t *testing.T) {
	svc, _, _ := newService(t)
	shopID := primitive.NewObjectID()
	flow := flowWith("shop", "created", "done")
	flow.ShopID = &shopID

	_, err := svc.CreateFlow(context.Background(), flow)
	require.NoError(t, err)
	_, err = svc.CreateFlow(context.Background(), flow)
	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusConflict, appErr.StatusCode)
}

func TestSaveShopFlow_CreatesThenUpdates(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	shopID := primitive.NewObjectID()

	first, err := svc.SaveShopFlow(ctx, shopID, flowWith("mine", "created", "done"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)

	edit := flowWith("mine v2", "created", "packing", "done")
	second, err := svc.SaveShopFlow(ctx, shopID, edit, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "mine v2", second.Name)
	assert.Len(t, second.Steps, 3)
	assert.Equal(t, int64(2), second.Version)
}

func TestUpdateFlow_VersionConflict(t *testing.T) {
	svc, _, def := newService(t)
	ctx := context.Background()

	stale := def.Version
	_, err := svc.UpdateFlow(ctx, def.ID, flowWith("v2", "created", "done"), &stale)
	require.NoError(t, err)

	_, err = svc.UpdateFlow(ctx, def.ID, flowWith("v3", "created", "done"), &stale)
	assert.True(t, errors.Is(err, common.ErrVersionConflict))

	// without a version the write wins
	_, err = svc.UpdateFlow(ctx, def.ID, flowWith("v4", "created", "done"), nil)
	assert.NoError(t, err)
}

func TestUpdateFlow_KeepsShopAndDefault(t *testing.T) {
	svc, _, def := newService(t)
	input := flowWith("renamed", "created", "done")
	input.IsDefault = false
	shopID := primitive.NewObjectID()
	input.ShopID = &shopID

	updated, err := svc.UpdateFlow(context.Background(), def.ID, input, nil)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Nil(t, updated.ShopID)
}

func TestSetDefaultFlow_LeavesExactlyOneDefault(t *testing.T) {
	svc, _, def := newService(t)
	ctx := context.Background()

	other, err := svc.CreateFlow(ctx, flowWith("other", "created", "done"))
	require.NoError(t, err)
	third := flowWith("third", "created", "done")
	third.IsDefault = true
	thirdCreated, err := svc.CreateFlow(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaults(t, svc))

	promoted, err := svc.SetDefaultFlow(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)
	assert.Equal(t, 1, countDefaults(t, svc))

	old, err := svc.GetFlowByID(ctx, def.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
	old, err = svc.GetFlowByID(ctx, thirdCreated.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)

	resolved, err := svc.GetFlowForShop(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, other.ID, resolved.ID)
}

func TestSetDefaultFlow_DetachesShopFlow(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	shopID := primitive.NewObjectID()
	custom, _, err := svc.CustomizeFlowForShop(ctx, shopID)
	require.NoError(t, err)

	promoted, err := svc.SetDefaultFlow(ctx, custom.ID)
	require.NoError(t, err)
	assert.Nil(t, promoted.ShopID)
	assert.Equal(t, 1, countDefaults(t, svc))
}

func TestDeleteFlow_DefaultIsProtected(t *testing.T) {
	svc, _, def := newService(t)
	err := svc.DeleteFlow(context.Background(), def.ID)
	assert.True(t, errors.Is(err, errDeleteDefault))

	other, err := svc.CreateFlow(context.Background(), flowWith("other", "created", "done"))
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteFlow(context.Background(), other.ID))
	_, err = svc.GetFlowByID(context.Background(), other.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestReplaceDestination_IndexStable(t *testing.T) {
	svc, _, def := newService(t)
	ctx := context.Background()
	flow := def
	flow.Steps[1].ForwardingDestinations = append(flow.Steps[1].ForwardingDestinations,
		models.ForwardingDestination{Type: models.DestinationTelegramUser, Identifier: "1001", IsActive: true})
	_, err := svc.UpdateFlow(ctx, def.ID, flow, nil)
	require.NoError(t, err)

	updated, err := svc.ReplaceDestination(ctx, def.ID, 1, 1, models.ForwardingDestination{
		Type: models.DestinationTelegramChannel, Identifier: "@orders", IsActive: true,
	}, nil)
	require.NoError(t, err)
	dests := updated.Steps[1].ForwardingDestinations
	require.Len(t, dests, 2)
	assert.Equal(t, "{{shop.orders_chat_id}}", dests[0].Identifier)
	assert.Equal(t, "@orders", dests[1].Identifier)
}

func TestReplaceStep_ValidatesResult(t *testing.T) {
	svc, _, def := newService(t)
	ctx := context.Background()

	bad := def.Steps[0]
	bad.NextStatuses = []string{"nowhere"}
	_, err := svc.ReplaceStep(ctx, def.ID, 0, bad, nil)
	assert.Error(t, err)

	good := def.Steps[0]
	good.Name = "Placed"
	updated, err := svc.ReplaceStep(ctx, def.ID, 0, good, nil)
	require.NoError(t, err)
	assert.Equal(t, "Placed", updated.Steps[0].Name)
	assert.Equal(t, def.Steps[1], updated.Steps[1])
}

func TestStatusQueries(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	next, err := svc.GetNextStatuses(ctx, "created", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"confirmed"}, next)

	_, err = svc.GetStepByStatus(ctx, "ghost", nil)
	assert.True(t, errors.Is(err, errStepNotFound))

	assert.NoError(t, svc.CanChangeStatus(ctx, "created", "confirmed", basemodels.RoleShopOwner, nil))
	assert.True(t, errors.Is(svc.CanChangeStatus(ctx, "created", "confirmed", basemodels.RoleCourier, nil), common.ErrTransitionDenied))

	dests, err := svc.GetForwardingDestinations(ctx, "confirmed", nil)
	require.NoError(t, err)
	assert.Len(t, dests, 1)
}

func TestGetFlowForShop_NoDefault(t *testing.T) {
	svc := NewOrderFlowService(NewMemoryStore(), cache.NewMemoryCache(0), time.Minute)
	_, err := svc.GetFlowForShop(context.Background(), nil)
	assert.True(t, errors.Is(err, errNoDefaultFlow))
}

func TestEnsureDefaultFlow(t *testing.T) {
	svc := NewOrderFlowService(NewMemoryStore(), cache.NewMemoryCache(0), time.Minute)
	ctx := context.Background()

	flow, created, err := svc.EnsureDefaultFlow(ctx, flowWith("seed", "created", "done"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, flow.IsDefault)

	again, created, err := svc.EnsureDefaultFlow(ctx, flowWith("seed", "created", "done"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, flow.ID, again.ID)
}
