package backend

import (
	"context"
	"fmt"

	"billetera/internal/amqp"
	"billetera/internal/journal/memory"
	"billetera/internal/log"
	"billetera/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateJournal implements Factory.CreateJournal
func (f *DefaultFactory) CreateJournal(ctx context.Context, config Config) (*JournalResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case NoneBackend:
		f.logger.InfoContext(ctx, "Activity journal disabled")
		return &JournalResult{}, nil
	case MemoryBackend:
		return f.createMemoryJournal(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteJournal(ctx, config)
	case AMQPBackend:
		return f.createAMQPJournal(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryJournal(ctx context.Context, config Config) (*JournalResult, error) {
	store := memory.New(config.MemoryLimit)
	f.logger.InfoContext(ctx, "Initialized memory journal", "limit", config.MemoryLimit)
	return &JournalResult{Sink: store, Reader: store}, nil
}

func (f *DefaultFactory) createSQLiteJournal(ctx context.Context, config Config) (*JournalResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite journal", "db_path", config.SQLiteDBPath)
	return &JournalResult{Sink: repo, Reader: repo, Cleanup: repo.Close}, nil
}

// createAMQPJournal publishes to the broker. The worker writes the SQLite
// file; when a path is configured the API reads it back for the activity feed.
func (f *DefaultFactory) createAMQPJournal(ctx context.Context, config Config) (*JournalResult, error) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}

	result := &JournalResult{Sink: client, Cleanup: client.Close}
	if config.SQLiteDBPath != "" {
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Activity feed unavailable, journal reader not opened",
				log.FieldError, err)
		} else {
			result.Reader = repo
			result.Cleanup = func() error {
				repo.Close()
				return client.Close()
			}
		}
	}

	f.logger.InfoContext(ctx, "Initialized AMQP journal",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue,
		"reader", result.Reader != nil)
	return result, nil
}
