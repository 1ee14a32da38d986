// Package journal defines the activity journal ports. The journal is an
// append-only audit trail of committed ledger events; it is never replayed
// into the ledger.
package journal

import (
	"context"

	"billetera/internal/core"
)

// Ports for outbound adapters.
type (
	// Sink persists or forwards a batch of events.
	Sink interface {
		RecordEvents(ctx context.Context, events []core.Event) error
	}

	// Reader lists journaled events, newest first.
	Reader interface {
		ListEvents(ctx context.Context, limit int) ([]core.Event, error)
		ListEventsByKind(ctx context.Context, kind core.EventKind, limit int) ([]core.Event, error)
		CountEvents(ctx context.Context) (int, error)
	}

	// Journal is a sink that can also be read back.
	Journal interface {
		Sink
		Reader
	}
)

// DefaultListLimit applies when callers pass a non-positive limit.
const DefaultListLimit = 50

// MaxListLimit bounds a single read.
const MaxListLimit = 500

// ClampLimit normalizes a requested page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
