package ordersvc

import (
	"context"
	"net/http"
	"testing"
	"time"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/order/models"
	flowmodels "delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memStore struct {
	orders map[primitive.ObjectID]models.Order
	// raced, when set, changes the stored status right before the conditional write
	raced string
}

func (m *memStore) InsertOne(_ context.Context, o models.Order) (models.Order, error) {
	o.ID = primitive.NewObjectID()
	m.orders[o.ID] = o
	return o, nil
}

func (m *memStore) FindOneById(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, common.ErrNotFound
	}
	return o, nil
}

func (m *memStore) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{}, _ *options.FindOneAndUpdateOptions) (models.Order, error) {
	f := filter.(bson.M)
	id := f["_id"].(primitive.ObjectID)
	o, ok := m.orders[id]
	if m.raced != "" {
		o.Status = m.raced
	}
	if !ok || o.Status != f["status"] {
		return models.Order{}, common.ErrNotFound
	}
	u := update.(*basesvc.UpdateData)
	o.Status = u.Set["status"].(string)
	o.StatusHistory = append(o.StatusHistory, u.Push["statusHistory"].(models.StatusChange))
	m.orders[id] = o
	return o, nil
}

type staticFlow struct{ flow flowmodels.OrderFlow }

func (s staticFlow) GetFlowForShop(context.Context, *primitive.ObjectID) (flowmodels.OrderFlow, error) {
	return s.flow, nil
}

type recorder struct{ steps []string }

func (r *recorder) Notify(_ context.Context, _ models.Order, step flowmodels.OrderFlowStep, _ string) (int, error) {
	r.steps = append(r.steps, step.Status)
	return len(step.ForwardingDestinations), nil
}

func testFlow() flowmodels.OrderFlow {
	step := func(status string, order int, roles []string, next ...string) flowmodels.OrderFlowStep {
		return flowmodels.OrderFlowStep{Status: status, Name: status, AuthorizedRoles: roles, NextStatuses: next, IsActive: true, Order: order}
	}
	return flowmodels.OrderFlow{Name: "Default", IsDefault: true, Steps: []flowmodels.OrderFlowStep{
		step("confirmed", 1, []string{"shop_owner"}, "delivered"),
		step("created", 0, []string{"client"}, "confirmed"),
		step("delivered", 2, []string{"courier"}),
	}}
}

func newTestService() (*OrderService, *memStore, *recorder) {
	store := &memStore{orders: map[primitive.ObjectID]models.Order{}}
	rec := &recorder{}
	svc := newOrderService(nil, store, staticFlow{flow: testFlow()}, rec)
	svc.now = func() time.Time { return time.UnixMilli(1000) }
	return svc, store, rec
}

func TestCreate_StartsAtFirstStep(t *testing.T) {
	svc, _, rec := newTestService()
	order, err := svc.Create(context.Background(), models.Order{
		ShopID: primitive.NewObjectID(),
		Items:  []models.OrderItem{{Name: "Pizza", Quantity: 2, Price: 7.5}},
	}, "u1", "")
	require.NoError(t, err)

	assert.Equal(t, "created", order.Status)
	assert.Equal(t, 15.0, order.TotalAmount)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusChange{Status: "created", Timestamp: 1000, UpdatedBy: "u1"}, order.StatusHistory[0])
	assert.Equal(t, []string{"created"}, rec.steps)
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newTestService()
	order, err := svc.Create(ctx, models.Order{ShopID: primitive.NewObjectID()}, "client-1", "")
	require.NoError(t, err)

	// not in nextStatuses
	_, err = svc.ChangeStatus(ctx, order.ID, "delivered", "owner-1", "shop_owner", "")
	assert.ErrorIs(t, err, common.ErrTransitionInvalid)

	// role outside authorizedRoles
	_, err = svc.ChangeStatus(ctx, order.ID, "confirmed", "client-1", "client", "")
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)

	updated, err := svc.ChangeStatus(ctx, order.ID, "confirmed", "owner-1", "shop_owner", "call first")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "owner-1", updated.StatusHistory[1].UpdatedBy)
	assert.Equal(t, "call first", updated.StatusHistory[1].Notes)
	assert.Equal(t, []string{"created", "confirmed"}, rec.steps)

	_, err = svc.ChangeStatus(ctx, order.ID, "confirmed", "owner-1", "shop_owner", "")
	assert.Error(t, err)
	assert.Len(t, rec.steps, 2)
}

func TestChangeStatus_ConcurrentChange(t *testing.T) {
	ctx := context.Background()
	svc, store, rec := newTestService()
	order, err := svc.Create(ctx, models.Order{ShopID: primitive.NewObjectID()}, "client-1", "")
	require.NoError(t, err)

	store.raced = "confirmed"
	_, err = svc.ChangeStatus(ctx, order.ID, "confirmed", "owner-1", "shop_owner", "")
	assert.ErrorIs(t, err, common.ErrVersionConflict)
	assert.Equal(t, []string{"created"}, rec.steps)
}

func TestCreate_NoActiveStep(t *testing.T) {
	store := &memStore{orders: map[primitive.ObjectID]models.Order{}}
	svc := newOrderService(nil, store, staticFlow{flow: flowmodels.OrderFlow{Steps: []flowmodels.OrderFlowStep{{Status: "created"}}}}, nil)
	_, err := svc.Create(context.Background(), models.Order{}, "u", "")
	assert.Error(t, err)
	assert.Empty(t, store.orders)
}
