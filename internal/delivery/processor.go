// Package delivery sends queued notifications: it claims due queue items, sends them through a
// channel under a shared rate limit, records every attempt and retries failures with backoff.
package delivery

import (
	"context"
	"fmt"
	"math"
	"time"

	"delivery_marketplace/internal/api/delivery/models"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/metrics"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Queue is the part of deliverysvc.DeliveryQueueService the processor uses.
type Queue interface {
	ClaimPending(ctx context.Context, limit int) ([]models.DeliveryQueueItem, error)
	Complete(ctx context.Context, id primitive.ObjectID) error
	Retry(ctx context.Context, id primitive.ObjectID, retryCount int, nextRetryAt int64, reason string) error
	Fail(ctx context.Context, id primitive.ObjectID, retryCount int, reason string) error
}

// History records send attempts.
type History interface {
	Record(ctx context.Context, h models.DeliveryHistory) error
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, destinationType, recipient, text string) error
}

// Options tunes the processor.
type Options struct {
	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
	MaxRetries   int
	// RatePerSec caps sends across all workers. Zero means unlimited.
	RatePerSec float64
}

// Processor drains the delivery queue.
type Processor struct {
	queue   Queue
	history History
	sender  Sender
	opts    Options
	limiter *rate.Limiter
	now     func() time.Time
	log     *logrus.Logger
}

// NewProcessor creates a Processor. Zero options take the defaults: 5s poll, batches of 10,
// 5 concurrent sends, 3 attempts.
func NewProcessor(queue Queue, history History, sender Sender, opts Options) *Processor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), int(math.Max(1, opts.RatePerSec)))
	}
	return &Processor{
		queue:   queue,
		history: history,
		sender:  sender,
		opts:    opts,
		limiter: limiter,
		now:     time.Now,
		log:     logger.GetAppLogger(),
	}
}

// Backoff is the delay before attempt retryCount+1: 2^retryCount seconds.
func Backoff(retryCount int) time.Duration {
	return time.Duration(1<<uint(retryCount)) * time.Second
}

// Start polls until ctx is done.
func (p *Processor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	p.log.WithFields(logrus.Fields{
		"interval":    p.opts.PollInterval.String(),
		"batchSize":   p.opts.BatchSize,
		"concurrency": p.opts.Concurrency,
	}).Info("Delivery processor started")

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Delivery processor stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Processor) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("panic", r).Error("Delivery processor panicked")
		}
	}()
	// drain while full batches keep coming
	for ctx.Err() == nil {
		n, err := p.ProcessBatch(ctx)
		if err != nil {
			p.log.WithError(err).Error("Delivery batch failed")
			return
		}
		if n < p.opts.BatchSize {
			return
		}
	}
}

// ProcessBatch claims one batch and sends it. It returns the number of claimed items.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	items, err := p.queue.ClaimPending(ctx, p.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim pending: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i := range items {
		item := items[i]
		g.Go(func() error {
			p.process(gctx, item)
			return nil
		})
	}
	return len(items), g.Wait()
}

// process sends one item and settles it: sent items leave the queue, failures are retried or failed.
func (p *Processor) process(ctx context.Context, item models.DeliveryQueueItem) {
	log := p.log.WithFields(logrus.Fields{
		"queueItemId": item.ID.Hex(),
		"orderId":     item.OrderID.Hex(),
		"recipient":   item.Recipient,
	})

	if err := p.limiter.Wait(ctx); err != nil {
		// shutting down; the maintenance job returns the item to pending
		log.WithError(err).Debug("Delivery interrupted before send")
		return
	}
	start := time.Now()
	sendErr := p.sender.Send(ctx, item.DestinationType, item.Recipient, item.Content)
	metrics.ObserveSend(time.Since(start))

	now := p.now()
	record := models.DeliveryHistory{
		QueueItemID:     item.ID,
		OrderID:         item.OrderID,
		OrderStatus:     item.OrderStatus,
		DestinationType: item.DestinationType,
		Recipient:       item.Recipient,
		Content:         item.Content,
		RetryCount:      item.RetryCount,
		Status:          models.HistorySent,
	}
	if sendErr != nil {
		record.Status = models.HistoryFailed
		record.Error = sendErr.Error()
	} else {
		sentAt := now.UnixMilli()
		record.SentAt = &sentAt
	}
	if err := p.history.Record(ctx, record); err != nil {
		log.WithError(err).Warn("Failed to record delivery history")
	}

	if sendErr == nil {
		metrics.RecordDelivery(item.DestinationType, metrics.ResultSent)
		if err := p.queue.Complete(ctx, item.ID); err != nil {
			log.WithError(err).Warn("Failed to remove sent queue item")
		}
		return
	}

	maxRetries := item.MaxRetries
	if maxRetries <= 0 {
		maxRetries = p.opts.MaxRetries
	}
	retryCount := item.RetryCount + 1
	if retryCount < maxRetries {
		next := now.Add(Backoff(retryCount)).UnixMilli()
		metrics.RecordDelivery(item.DestinationType, metrics.ResultRetry)
		log.WithError(sendErr).WithField("retryCount", retryCount).Warn("Delivery failed, will retry")
		if err := p.queue.Retry(ctx, item.ID, retryCount, next, sendErr.Error()); err != nil {
			log.WithError(err).Error("Failed to schedule retry")
		}
		return
	}
	metrics.RecordDelivery(item.DestinationType, metrics.ResultFailed)
	log.WithError(sendErr).WithField("retryCount", retryCount).Error("Delivery failed permanently")
	if err := p.queue.Fail(ctx, item.ID, retryCount, sendErr.Error()); err != nil {
		log.WithError(err).Error("Failed to mark queue item failed")
	}
}
