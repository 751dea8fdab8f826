// Package ordersvc stores orders and moves them through their shop's order flow.
package ordersvc

import (
	"context"
	"errors"
	"time"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/order/models"
	flowmodels "delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/metrics"
	"delivery_marketplace/internal/orderflow"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Transition outcomes reported to metrics.
const (
	OutcomeApplied  = "applied"
	OutcomeDenied   = "denied"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
)

var errNoInitialStatus = common.NewError(common.ErrCodeBusinessState,
	"Order flow has no active step to start from", common.StatusBadRequest, nil)

// FlowResolver returns the flow that applies to a shop.
type FlowResolver interface {
	GetFlowForShop(ctx context.Context, shopID *primitive.ObjectID) (flowmodels.OrderFlow, error)
}

// Notifier enqueues the notifications of a step. notification.Notifier implements it.
type Notifier interface {
	Notify(ctx context.Context, order models.Order, step flowmodels.OrderFlowStep, notes string) (int, error)
}

// Store is the persistence the order service needs. BaseServiceMongoImpl implements it.
type Store interface {
	InsertOne(ctx context.Context, data models.Order) (models.Order, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (models.Order, error)
}

// OrderService is the order CRUD service plus the status machine.
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
	store    Store
	flows    FlowResolver
	notifier Notifier
	now      func() time.Time
}

// NewOrderService wraps the orders collection.
func NewOrderService(collection *mongo.Collection, flows FlowResolver, notifier Notifier) *OrderService {
	base := basesvc.NewBaseServiceMongo[models.Order](collection)
	return newOrderService(base, base, flows, notifier)
}

func newOrderService(base *basesvc.BaseServiceMongoImpl[models.Order], store Store, flows FlowResolver, notifier Notifier) *OrderService {
	return &OrderService{BaseServiceMongoImpl: base, store: store, flows: flows, notifier: notifier, now: time.Now}
}

// Create stores order in the first active step of its shop's flow and notifies that step.
func (s *OrderService) Create(ctx context.Context, order models.Order, actor string, notes string) (models.Order, error) {
	flow, err := s.flows.GetFlowForShop(ctx, &order.ShopID)
	if err != nil {
		return models.Order{}, err
	}
	initial, ok := orderflow.InitialStatus(flow)
	if !ok {
		return models.Order{}, errNoInitialStatus
	}
	order.Status = initial
	order.TotalAmount = models.Total(order.Items)
	order.StatusHistory = []models.StatusChange{{
		Status:    initial,
		Timestamp: s.now().UnixMilli(),
		UpdatedBy: actor,
		Notes:     notes,
	}}
	created, err := s.store.InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	step, _ := orderflow.StepByStatus(flow, initial)
	s.notify(ctx, created, step, notes)
	return created, nil
}

// ChangeStatus moves an order to next on behalf of actor with role.
// The write only applies if the order is still in the status the check ran against.
func (s *OrderService) ChangeStatus(ctx context.Context, id primitive.ObjectID, next, actor, role, notes string) (models.Order, error) {
	order, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	flow, err := s.flows.GetFlowForShop(ctx, &order.ShopID)
	if err != nil {
		return models.Order{}, err
	}
	if err := orderflow.CanChangeStatus(flow, order.Status, next, role); err != nil {
		outcome := OutcomeInvalid
		if errors.Is(err, common.ErrTransitionDenied) {
			outcome = OutcomeDenied
		}
		metrics.RecordTransition(order.Status, next, outcome)
		return models.Order{}, err
	}

	entry := models.StatusChange{Status: next, Timestamp: s.now().UnixMilli(), UpdatedBy: actor, Notes: notes}
	updated, err := s.store.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": order.Status},
		&basesvc.UpdateData{
			Set:  map[string]interface{}{"status": next},
			Push: map[string]interface{}{"statusHistory": entry},
		}, nil)
	if errors.Is(err, common.ErrNotFound) {
		metrics.RecordTransition(order.Status, next, OutcomeConflict)
		return models.Order{}, common.ErrVersionConflict
	}
	if err != nil {
		return models.Order{}, err
	}
	metrics.RecordTransition(order.Status, next, OutcomeApplied)

	step, _ := orderflow.StepByStatus(flow, next)
	s.notify(ctx, updated, step, notes)
	return updated, nil
}

// notify never fails the status change; a lost notification is logged.
func (s *OrderService) notify(ctx context.Context, order models.Order, step flowmodels.OrderFlowStep, notes string) {
	if s.notifier == nil {
		return
	}
	n, err := s.notifier.Notify(ctx, order, step, notes)
	log := logger.GetAppLogger().WithFields(logrus.Fields{"orderId": order.ID.Hex(), "status": order.Status})
	if err != nil {
		log.WithError(err).Error("Failed to enqueue status notifications")
		return
	}
	if n > 0 {
		log.WithField("count", n).Debug("Enqueued status notifications")
	}
}
