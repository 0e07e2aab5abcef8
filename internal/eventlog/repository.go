package eventlog

import (
	"context"
	"time"
)

// Entry is one journaled event
type Entry struct {
	ID          int64                  `json:"id"`
	EventType   string                 `json:"event_type"`
	CharacterID *string                `json:"character_id,omitempty"`
	Payload     map[string]interface{} `json:"payload"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// Filter narrows journal queries. Zero fields match everything.
type Filter struct {
	CharacterID *string
	EventType   *string
	Since       *time.Time
	Until       *time.Time
	Limit       int
}

// Repository defines the interface for journal storage
type Repository interface {
	// Append stores one entry
	Append(ctx context.Context, entry Entry) error

	// Entries returns entries matching filter, newest first
	Entries(ctx context.Context, filter Filter) ([]Entry, error)

	// DeleteBefore removes entries that occurred before cutoff
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
