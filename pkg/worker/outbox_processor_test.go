package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/memory"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
	"github.com/WinsonMARS/hospitalmanagement/pkg/messaging"
	"github.com/WinsonMARS/hospitalmanagement/pkg/metrics"
)

// Registered once: promauto panics on duplicate metric names.
var testMetrics = metrics.NewMetrics("hospital", "workertest")

type fakeBroker struct {
	published []messaging.Message
	err       error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func newTestProcessor(t *testing.T, broker messaging.Broker, attempts int) (*OutboxProcessor, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	p := NewOutboxProcessor(store.Outbox(), broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: attempts,
		RetryDelay:    time.Minute,
	}, logger.NewLogger(nil), testMetrics)
	return p, store
}

func seedEvent(t *testing.T, store *memory.Store, eventType string) *model.OutboxEvent {
	t.Helper()
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   json.RawMessage(`{"id":"1"}`),
	}
	require.NoError(t, store.Outbox().Create(context.Background(), event))
	return event
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	broker := &fakeBroker{}
	p, store := newTestProcessor(t, broker, 3)
	seedEvent(t, store, model.EventDoctorApproved)
	seedEvent(t, store, model.EventPatientDischarged)

	require.NoError(t, p.processEvents(context.Background()))

	require.Len(t, broker.published, 2)
	assert.Equal(t, model.EventDoctorApproved, broker.published[0].Type)
	assert.Equal(t, model.EventPatientDischarged, broker.published[1].Type)

	pending, err := store.Outbox().GetPendingWithLock(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessEventsReschedulesFailure(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker down")}
	p, store := newTestProcessor(t, broker, 3)
	seedEvent(t, store, model.EventPatientApproved)

	require.NoError(t, p.processEvents(context.Background()))

	// The retry is scheduled in the future, so the next poll skips it
	// instead of hammering the broker.
	pending, err := store.Outbox().GetPendingWithLock(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
}

func TestProcessEventsRetiresAfterRetryBudget(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker down")}
	p, store := newTestProcessor(t, broker, 1)
	event := seedEvent(t, store, model.EventAppointmentCreated)

	require.NoError(t, p.processEvents(context.Background()))

	// With a single attempt allowed the event is retired, not retried.
	pending, err := store.Outbox().GetPendingWithLock(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published, "retired event %s must not be republished", event.ID)
}

func TestCleanupDeletesOldProcessedEvents(t *testing.T) {
	broker := &fakeBroker{}
	p, store := newTestProcessor(t, broker, 3)
	seedEvent(t, store, model.EventDoctorRejected)

	require.NoError(t, p.processEvents(context.Background()))

	deleted, err := store.Outbox().DeleteProcessedBefore(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
