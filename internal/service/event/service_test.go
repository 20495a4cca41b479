package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type recordingOutbox struct {
	created []*model.OutboxEvent
	err     error
}

func (r *recordingOutbox) Create(ctx context.Context, event *model.OutboxEvent) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, event)
	return nil
}

func (r *recordingOutbox) ClaimPendingEvents(context.Context, int, time.Duration) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (r *recordingOutbox) MarkProcessed(context.Context, uuid.UUID) error { return nil }
func (r *recordingOutbox) MarkFailed(context.Context, uuid.UUID, string, *time.Time) error {
	return nil
}
func (r *recordingOutbox) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func TestEventService_Emit(t *testing.T) {
	repo := &recordingOutbox{}
	svc := NewEventService(repo)

	id := uuid.New()
	require.NoError(t, svc.Emit(context.Background(), model.EventAppointmentCreated, map[string]interface{}{"appointment_id": id}))

	require.Len(t, repo.created, 1)
	assert.Equal(t, model.EventAppointmentCreated, repo.created[0].EventType)
	assert.JSONEq(t, `{"appointment_id":"`+id.String()+`"}`, string(repo.created[0].Payload))
}

func TestEventService_EmitErrors(t *testing.T) {
	svc := NewEventService(&recordingOutbox{err: errors.New("db down")})
	assert.ErrorContains(t, svc.Emit(context.Background(), "x", map[string]string{}), "db down")

	assert.Error(t, svc.Emit(context.Background(), "x", make(chan int)))
}
