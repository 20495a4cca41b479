package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

func newTestBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	b := NewRedisBrokerWithClient(client, zerolog.Nop())
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	b, _ := newTestBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := b.Subscribe(ctx, "clinic.events")
	require.NoError(t, err)

	sent := messaging.Message{
		ID:         uuid.New(),
		Type:       "appointment.created",
		Payload:    json.RawMessage(`{"appointment_id":"a-1"}`),
		OccurredAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, b.Publish(ctx, "clinic.events", sent))

	select {
	case raw := <-msgs:
		var got messaging.Message
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, sent.Type, got.Type)
		assert.JSONEq(t, `{"appointment_id":"a-1"}`, string(got.Payload))
	case <-ctx.Done():
		t.Fatal("message not received")
	}
}

func TestRedisBroker_BreakerOpensAfterFailures(t *testing.T) {
	b, mr := newTestBroker(t)
	mr.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := b.Publish(ctx, "clinic.events", map[string]string{"n": "x"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrBrokerUnavailable)
	}

	err := b.Publish(ctx, "clinic.events", map[string]string{"n": "x"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
}

func TestRedisBroker_Ping(t *testing.T) {
	b, _ := newTestBroker(t)
	assert.NoError(t, b.Ping(context.Background()))
}
