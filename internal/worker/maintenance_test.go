package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	resets    int
	retention time.Duration
	resetErr  error
}

func (f *fakeQueue) ResetStuck(context.Context) (int64, error) {
	f.resets++
	return 2, f.resetErr
}

func (f *fakeQueue) CleanupFailed(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 1, nil
}

func (f *fakeQueue) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{"pending": 3}, nil
}

func TestRunOnce(t *testing.T) {
	q := &fakeQueue{}
	m := NewMaintenance(q, "", 0)
	m.RunOnce(context.Background())

	assert.Equal(t, 1, q.resets)
	assert.Equal(t, 7*24*time.Hour, q.retention)
}

func TestRunOnce_ContinuesAfterError(t *testing.T) {
	q := &fakeQueue{resetErr: errors.New("mongo down")}
	m := NewMaintenance(q, "@every 1m", time.Hour)
	m.RunOnce(context.Background())
	assert.Equal(t, time.Hour, q.retention)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	m := NewMaintenance(&fakeQueue{}, "not a schedule", time.Hour)
	assert.Error(t, m.Start(context.Background()))
}

type blockingQueue struct {
	fakeQueue
	started chan struct{}
	release chan struct{}
}

func (b *blockingQueue) ResetStuck(ctx context.Context) (int64, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeQueue.ResetStuck(ctx)
}

func TestStart_WaitsForRunningPass(t *testing.T) {
	q := &blockingQueue{started: make(chan struct{}, 1), release: make(chan struct{})}
	m := NewMaintenance(q, "@every 1s", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	select {
	case <-q.started:
	case <-time.After(5 * time.Second):
		t.Fatal("maintenance pass never ran")
	}
	cancel()

	select {
	case <-done:
		t.Fatal("Start returned while a pass was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(q.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after the pass finished")
	}
	assert.Equal(t, 1, q.resets)
}
