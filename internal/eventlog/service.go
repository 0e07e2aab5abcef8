// Package eventlog journals every published game event so that a
// character's recent activity can be listed and old entries pruned.
package eventlog

import (
	"context"
	"time"

	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// Service handles event journaling
type Service interface {
	// Subscribe registers the journal to listen to all events
	Subscribe(bus event.Bus) error

	// Activity lists a character's most recent journal entries
	Activity(ctx context.Context, characterID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes entries older than retention
	CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a new journaling service
func NewService(repo Repository, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &service{repo: repo, clock: clk}
}

// Subscribe registers handleEvent for every event type
func (s *service) Subscribe(bus event.Bus) error {
	event.SubscribeAll(bus, s.handleEvent)
	return nil
}

// characterOf returns the first acting character id found in payload
func characterOf(payload map[string]interface{}) *string {
	for _, key := range characterKeys {
		if id, ok := payload[key].(string); ok && id != "" {
			return &id
		}
	}
	return nil
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil {
		log.Warn(LogMsgFailedToDecodePayload, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	entry := Entry{
		EventType:   string(evt.Type),
		CharacterID: characterOf(payload),
		Payload:     payload,
		Metadata:    evt.Metadata,
		OccurredAt:  evt.Timestamp,
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = s.clock.Now()
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldCharacterID, entry.CharacterID)
	return nil
}

func (s *service) Activity(ctx context.Context, characterID string, limit int) ([]Entry, error) {
	return s.repo.Entries(ctx, Filter{CharacterID: &characterID, Limit: limit})
}

func (s *service) CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteBefore(ctx, s.clock.Now().Add(-retention))
}
