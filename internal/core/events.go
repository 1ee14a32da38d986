package core

import (
	"slices"
	"time"
)

// EventKind names a committed ledger operation.
type EventKind string

const (
	EventLogin                EventKind = "session.login"
	EventLogout               EventKind = "session.logout"
	EventTransferSent         EventKind = "transfer.sent"
	EventTransferReceived     EventKind = "transfer.received"
	EventRechargeMade         EventKind = "recharge.made"
	EventContactUpserted      EventKind = "contact.upserted"
	EventContactUpdated       EventKind = "contact.updated"
	EventContactRemoved       EventKind = "contact.removed"
	EventEnvelopeCreated      EventKind = "envelope.created"
	EventEnvelopeUpdated      EventKind = "envelope.updated"
	EventEnvelopeRemoved      EventKind = "envelope.removed"
	EventEnvelopeAllocated    EventKind = "envelope.allocated"
	EventAutomationCreated    EventKind = "automation.created"
	EventAutomationUpdated    EventKind = "automation.updated"
	EventAutomationRemoved    EventKind = "automation.removed"
	EventAutomationTriggered  EventKind = "automation.triggered"
	EventNotificationAdded    EventKind = "notification.added"
	EventNotificationsRead    EventKind = "notifications.read"
	EventNotificationsCleared EventKind = "notifications.cleared"
	EventBiometricAttempt     EventKind = "biometric.attempt"
)

var eventKinds = []EventKind{
	EventLogin, EventLogout, EventTransferSent, EventTransferReceived, EventRechargeMade,
	EventContactUpserted, EventContactUpdated, EventContactRemoved,
	EventEnvelopeCreated, EventEnvelopeUpdated, EventEnvelopeRemoved, EventEnvelopeAllocated,
	EventAutomationCreated, EventAutomationUpdated, EventAutomationRemoved, EventAutomationTriggered,
	EventNotificationAdded, EventNotificationsRead, EventNotificationsCleared,
	EventBiometricAttempt,
}

func (k EventKind) IsValid() bool {
	return slices.Contains(eventKinds, k)
}

// Event is the audit record of one committed store operation. It is what the
// activity journal persists and publishes; the store never reads it back.
type Event struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	OccurredAt  time.Time `json:"occurred_at"`
	EntityID    string    `json:"entity_id,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}
