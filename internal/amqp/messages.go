package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"billetera/internal/core"
)

// EventBatchMessage carries the events of one or more committed ledger
// operations from the API process to the journal worker.
type EventBatchMessage struct {
	Events      []core.Event `json:"events"`
	PublishedAt time.Time    `json:"published_at"`
}

var errEmptyBatch = errors.New("event batch has no events")

// NewEventBatchMessage wraps events in a message stamped with the current time.
func NewEventBatchMessage(events []core.Event) *EventBatchMessage {
	return &EventBatchMessage{
		Events:      events,
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventBatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventBatchMessageFromJSON decodes a message; batches without events or
// with events missing an id or kind are rejected.
func EventBatchMessageFromJSON(data []byte) (*EventBatchMessage, error) {
	var msg EventBatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if len(msg.Events) == 0 {
		return nil, errEmptyBatch
	}
	for _, e := range msg.Events {
		if e.ID == "" || e.Kind == "" {
			return nil, errors.New("event without id or kind")
		}
	}
	return &msg, nil
}
