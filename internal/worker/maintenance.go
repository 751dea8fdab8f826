// Package worker runs the background jobs next to the HTTP server.
package worker

import (
	"context"
	"fmt"
	"time"

	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// QueueMaintainer is the part of deliverysvc.DeliveryQueueService the maintenance job uses.
type QueueMaintainer interface {
	ResetStuck(ctx context.Context) (int64, error)
	CleanupFailed(ctx context.Context, retention time.Duration) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// Maintenance resets stuck delivery items, purges old failed ones and publishes queue depth.
type Maintenance struct {
	queue     QueueMaintainer
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	log       *logrus.Logger
}

// NewMaintenance creates the job. schedule is a cron spec such as "@every 1m".
func NewMaintenance(queue QueueMaintainer, schedule string, retention time.Duration) *Maintenance {
	if schedule == "" {
		schedule = "@every 1m"
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	log := logger.GetAppLogger()
	cronLog := cron.PrintfLogger(log)
	return &Maintenance{
		queue:     queue,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		log:       log,
	}
}

// Start schedules the job and blocks until ctx is done and any running pass has finished.
func (m *Maintenance) Start(ctx context.Context) error {
	if _, err := m.cron.AddFunc(m.schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("maintenance schedule %q: %w", m.schedule, err)
	}
	m.cron.Start()
	m.log.WithField("schedule", m.schedule).Info("Maintenance job scheduled")

	<-ctx.Done()
	<-m.cron.Stop().Done()
	m.log.Info("Maintenance job stopped")
	return nil
}

// RunOnce runs one maintenance pass.
func (m *Maintenance) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	reset, err := m.queue.ResetStuck(ctx)
	if err != nil {
		m.log.WithError(err).Error("Failed to reset stuck delivery items")
	} else if reset > 0 {
		m.log.WithField("count", reset).Warn("Reset stuck delivery items to pending")
	}

	purged, err := m.queue.CleanupFailed(ctx, m.retention)
	if err != nil {
		m.log.WithError(err).Error("Failed to purge failed delivery items")
	} else if purged > 0 {
		m.log.WithField("count", purged).Info("Purged failed delivery items")
	}

	counts, err := m.queue.CountByStatus(ctx)
	if err != nil {
		m.log.WithError(err).Error("Failed to count delivery items")
		return
	}
	for status, n := range counts {
		metrics.SetQueueDepth(status, n)
	}
}
