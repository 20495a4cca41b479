package message

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	"github.com/jwalitptl/clinic-api/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// Service stores direct messages between users. Any authenticated user may
// message any other user.
type Service struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	events   event.Emitter
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(messages repository.MessageRepository, users repository.UserRepository, events event.Emitter, m *metrics.Metrics) *Service {
	if events == nil {
		events = event.Nop{}
	}
	return &Service{messages: messages, users: users, events: events, metrics: m, now: time.Now}
}

func (s *Service) Send(ctx context.Context, actor access.Actor, receiverID uuid.UUID, content string) (*model.Message, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidation("content is required", map[string]string{"content": "is required"})
	}
	if err := s.ensureUser(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:         uuid.New(),
		SenderID:   actor.UserID(),
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, service.RepoError(err, "message")
	}

	if s.metrics != nil {
		s.metrics.MessagesSent.Inc()
	}
	err := s.events.Emit(ctx, model.EventMessageSent, map[string]interface{}{
		"message_id":  msg.ID,
		"sender_id":   msg.SenderID,
		"receiver_id": msg.ReceiverID,
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to record event")
	}
	return msg, nil
}

// History returns the conversation with other, oldest first. Messages the
// caller received in it are marked read.
func (s *Service) History(ctx context.Context, actor access.Actor, otherID uuid.UUID) ([]*model.Message, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	if err := s.ensureUser(ctx, otherID); err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkRead(ctx, actor.UserID(), otherID); err != nil {
		return nil, service.RepoError(err, "message")
	}
	thread, err := s.messages.Thread(ctx, actor.UserID(), otherID)
	if err != nil {
		return nil, service.RepoError(err, "message")
	}
	return thread, nil
}

func (s *Service) ensureUser(ctx context.Context, id uuid.UUID) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !ok {
		return apperrors.NotFound("user", repository.ErrNotFound)
	}
	return nil
}
