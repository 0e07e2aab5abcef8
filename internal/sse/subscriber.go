package sse

import (
	"context"

	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// participantKeys are the payload fields that name a character
var participantKeys = []string{
	"character_id",
	"counterparty_id",
	"attacker_id",
	"defender_id",
	"placer_id",
	"target_id",
	"claimed_by",
}

// Subscriber bridges the event bus to the hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new Subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe forwards every game event type to the hub
func (s *Subscriber) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, s.handle)
	logger.Info(LogMsgSubscribed, "types", len(event.AllTypes))
}

func (s *Subscriber) handle(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(Event{
		Type:       string(evt.Type),
		Timestamp:  evt.Timestamp.Unix(),
		Payload:    payload,
		Characters: participants(payload),
	})
	return nil
}

func participants(payload map[string]interface{}) []string {
	var ids []string
	for _, key := range participantKeys {
		if id, ok := payload[key].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
