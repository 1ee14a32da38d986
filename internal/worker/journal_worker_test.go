package worker

import (
	"context"
	"testing"
	"time"

	"billetera/internal/amqp"
	"billetera/internal/journal/memory"
)

func TestJournalWorkerHandleBatch(t *testing.T) {
	ctx := context.Background()
	j := memory.New(0)
	w := NewJournalWorker(j, nil)

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("startup check on empty journal: %v", err)
	}

	msg := &amqp.EventBatchMessage{Events: makeEvents(3), PublishedAt: time.Now()}
	if err := w.HandleBatch(ctx, msg); err != nil {
		t.Fatalf("HandleBatch: %v", err)
	}
	// Redelivery is idempotent.
	if err := w.HandleBatch(ctx, msg); err != nil {
		t.Fatalf("HandleBatch redelivery: %v", err)
	}
	if n, _ := j.CountEvents(ctx); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("startup check: %v", err)
	}
}

func TestJournalWorkerPropagatesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewJournalWorker(memory.New(0), nil)
	msg := &amqp.EventBatchMessage{Events: makeEvents(1)}
	if err := w.HandleBatch(ctx, msg); err == nil {
		t.Fatalf("expected error so the message is requeued")
	}
}
