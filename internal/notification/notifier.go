package notification

import (
	"context"

	deliverymodels "delivery_marketplace/internal/api/delivery/models"
	ordermodels "delivery_marketplace/internal/api/order/models"
	flowmodels "delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Enqueuer stores delivery items. deliverysvc.DeliveryQueueService implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, items []deliverymodels.DeliveryQueueItem) error
}

// Notifier enqueues one delivery item per active, resolvable destination of a step.
type Notifier struct {
	lookup     Lookup
	queue      Enqueuer
	template   string
	maxRetries int
	log        *logrus.Logger
}

// NewNotifier creates a Notifier using DefaultTemplate.
func NewNotifier(lookup Lookup, queue Enqueuer, maxRetries int) *Notifier {
	return &Notifier{
		lookup:     lookup,
		queue:      queue,
		template:   DefaultTemplate,
		maxRetries: maxRetries,
		log:        logger.GetAppLogger(),
	}
}

// Plan resolves the step's destinations for order. Destinations that are inactive are ignored;
// destinations whose identifier does not resolve are skipped and logged.
func (n *Notifier) Plan(ctx context.Context, order ordermodels.Order, step flowmodels.OrderFlowStep, notes string) []deliverymodels.DeliveryQueueItem {
	content := Render(n.template, MessageVars(order, step, notes))
	r := newResolver(ctx, n.lookup, order)

	items := make([]deliverymodels.DeliveryQueueItem, 0, len(step.ForwardingDestinations))
	seen := map[string]bool{}
	for _, dest := range step.ForwardingDestinations {
		if !dest.IsActive {
			continue
		}
		recipient, err := r.Resolve(dest.Identifier)
		if err == nil && recipient == "" {
			err = ErrUnresolved
		}
		if err != nil {
			n.log.WithFields(logrus.Fields{
				"orderId":    order.ID.Hex(),
				"status":     order.Status,
				"identifier": dest.Identifier,
				"type":       dest.Type,
			}).WithError(err).Warn("Skipping forwarding destination")
			metrics.RecordDelivery(dest.Type, metrics.ResultSkipped)
			continue
		}
		// two placeholders can land on the same chat
		if seen[recipient] {
			continue
		}
		seen[recipient] = true
		items = append(items, deliverymodels.DeliveryQueueItem{
			OrderID:         order.ID,
			ShopID:          order.ShopID,
			OrderStatus:     order.Status,
			DestinationType: dest.Type,
			DestinationName: dest.Name,
			Recipient:       recipient,
			Content:         content,
			MaxRetries:      n.maxRetries,
		})
	}
	return items
}

// Notify plans and enqueues. It returns the number of enqueued items.
func (n *Notifier) Notify(ctx context.Context, order ordermodels.Order, step flowmodels.OrderFlowStep, notes string) (int, error) {
	items := n.Plan(ctx, order, step, notes)
	if len(items) == 0 {
		return 0, nil
	}
	if err := n.queue.Enqueue(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
