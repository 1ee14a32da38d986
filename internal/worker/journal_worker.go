package worker

import (
	"context"
	"fmt"

	"billetera/internal/amqp"
	"billetera/internal/journal"
	"billetera/internal/log"
)

// JournalWorker stores event batches received over AMQP in the journal.
type JournalWorker struct {
	journal journal.Journal
	logger  *log.Logger
}

func NewJournalWorker(j journal.Journal, logger *log.Logger) *JournalWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &JournalWorker{journal: j, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleBatch processes a single message from AMQP. An error makes the
// consumer requeue the message; storage ignores ids it already holds.
func (w *JournalWorker) HandleBatch(ctx context.Context, msg *amqp.EventBatchMessage) error {
	if err := w.journal.RecordEvents(ctx, msg.Events); err != nil {
		return fmt.Errorf("record events: %w", err)
	}
	w.logger.InfoContext(ctx, "Journaled event batch",
		log.FieldOperation, log.OpConsume,
		log.FieldEventCount, len(msg.Events),
		"published_at", msg.PublishedAt)
	return nil
}

// StartupCheck reports the journal size so an empty or unreachable store is
// visible before consumption begins.
func (w *JournalWorker) StartupCheck(ctx context.Context) error {
	n, err := w.journal.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("count journaled events: %w", err)
	}
	latest, err := w.journal.ListEvents(ctx, 1)
	if err != nil {
		return fmt.Errorf("read latest event: %w", err)
	}
	if len(latest) == 0 {
		w.logger.InfoContext(ctx, "Journal is empty", log.FieldOperation, log.OpStartup)
		return nil
	}
	w.logger.InfoContext(ctx, "Journal ready",
		log.FieldOperation, log.OpStartup,
		log.FieldEventCount, n,
		"latest_kind", string(latest[0].Kind),
		"latest_at", latest[0].OccurredAt)
	return nil
}
