package backend

import (
	"context"

	"billetera/internal/journal"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// JournalResult is what the API process wires into the dispatcher and the
// activity endpoint. Sink is nil when the journal is disabled; Reader is nil
// when the selected backend cannot be read back from this process.
type JournalResult struct {
	Sink    journal.Sink
	Reader  journal.Reader
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *JournalResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates journal backends based on configuration
type Factory interface {
	CreateJournal(ctx context.Context, config Config) (*JournalResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	MemoryLimit int
}

// BackendType represents the type of journal backend
type BackendType string

const (
	NoneBackend   BackendType = "none"
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	AMQPBackend   BackendType = "amqp"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case NoneBackend, MemoryBackend, SQLiteBackend, AMQPBackend:
		return true
	default:
		return false
	}
}
