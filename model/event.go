package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of activity emitted after a ledger write
type EventType string

const (
	EventCombinationDiscovered EventType = "combination_discovered"
	EventCombinationRepeated   EventType = "combination_repeated"
)

// ActivityEvent is a telemetry record about a produced label
type ActivityEvent struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Type      EventType `json:"type"`
	Label     string    `json:"label"`
	Ancestors []string  `json:"ancestors"`
	Count     int64     `json:"count"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActivityEvent derives the event type from the resulting count
func NewActivityEvent(label string, ancestors []string, count int64) *ActivityEvent {
	eventType := EventCombinationRepeated
	if count <= 1 {
		eventType = EventCombinationDiscovered
	}
	return &ActivityEvent{
		Type:      eventType,
		Label:     label,
		Ancestors: append([]string(nil), ancestors...),
		Count:     count,
		Metadata:  Metadata{},
	}
}
