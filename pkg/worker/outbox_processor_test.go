package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type fakeOutbox struct {
	mu        sync.Mutex
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]*time.Time
	purgedAt  time.Time
	lease     time.Duration
}

func (f *fakeOutbox) Create(ctx context.Context, event *model.OutboxEvent) error { return nil }

func (f *fakeOutbox) ClaimPendingEvents(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lease = lease
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed == nil {
		f.failed = map[uuid.UUID]*time.Time{}
	}
	f.failed[id] = retryAt
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	f.purgedAt = before
	return 2, nil
}

type fakeBroker struct {
	published []string
	fail      map[string]bool
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	msg := message.(messaging.Message)
	if b.fail[msg.Type] {
		return errors.New("broker down")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func newProcessor(t *testing.T, repo *fakeOutbox, broker *fakeBroker) (*OutboxProcessor, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	p, err := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		MaxRetries:    3,
		Channel:       "clinic.events",
	}, logger.NewLogger(&logger.Config{Output: io.Discard}), m)
	require.NoError(t, err)
	return p, m
}

func event(eventType string, retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Payload:    json.RawMessage(`{}`),
		RetryCount: retries,
	}
}

func TestOutboxProcessor_PublishesAndMarksProcessed(t *testing.T) {
	created := event(model.EventAppointmentCreated, 0)
	repo := &fakeOutbox{pending: []*model.OutboxEvent{created}}
	broker := &fakeBroker{}
	p, m := newProcessor(t, repo, broker)

	require.NoError(t, p.ProcessBatch(context.Background()))

	assert.Equal(t, []string{"clinic.events.appointment.created"}, broker.published)
	assert.Equal(t, []uuid.UUID{created.ID}, repo.processed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsProcessed))
	assert.Equal(t, time.Minute, repo.lease, "batches are claimed under the default lease")
}

func TestOutboxProcessor_SchedulesRetryThenParks(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	fresh := event(model.EventMessageSent, 0)
	exhausted := event(model.EventMessageSent, 2)

	repo := &fakeOutbox{pending: []*model.OutboxEvent{fresh, exhausted}}
	broker := &fakeBroker{fail: map[string]bool{model.EventMessageSent: true}}
	p, m := newProcessor(t, repo, broker)
	p.now = func() time.Time { return now }

	require.NoError(t, p.ProcessBatch(context.Background()))

	require.Contains(t, repo.failed, fresh.ID)
	require.NotNil(t, repo.failed[fresh.ID])
	assert.Equal(t, now.Add(time.Millisecond), *repo.failed[fresh.ID])

	require.Contains(t, repo.failed, exhausted.ID)
	assert.Nil(t, repo.failed[exhausted.ID], "events past MaxRetries are parked")
	assert.Empty(t, repo.processed)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxEventsFailed))
}

func TestNewOutboxProcessor_RejectsBadConfig(t *testing.T) {
	_, err := NewOutboxProcessor(&fakeOutbox{}, &fakeBroker{}, OutboxProcessorConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, backoff(time.Second, 1))
	assert.Equal(t, 4*time.Second, backoff(time.Second, 3))
	assert.Equal(t, time.Hour, backoff(time.Minute, 20))
}

func TestOutboxCleanupWorker_Sweep(t *testing.T) {
	repo := &fakeOutbox{}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	w := NewOutboxCleanupWorker(repo, 24*time.Hour, time.Hour, logger.NewLogger(&logger.Config{Output: io.Discard}), m)

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	w.Sweep(context.Background(), now)

	assert.Equal(t, now.Add(-24*time.Hour), repo.purgedAt)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxEventsPurged))
}
