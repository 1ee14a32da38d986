// Package worker moves committed ledger events to the activity journal.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"billetera/internal/core"
	"billetera/internal/journal"
	"billetera/internal/log"
)

const (
	DefaultBufferSize    = 256
	DefaultBatchSize     = 50
	DefaultFlushInterval = time.Second
	shutdownFlushTimeout = 5 * time.Second
)

// Dispatcher buffers events from the ledger store and writes them to a
// journal sink in batches. Enqueue never blocks: when the buffer is full the
// event is dropped and counted, and Run logs one summary of the drops per
// flush interval.
type Dispatcher struct {
	events        chan core.Event
	sink          journal.Sink
	batchSize     int
	flushInterval time.Duration
	logger        *log.Logger

	dropped    atomic.Int64
	unreported atomic.Int64
	written    atomic.Int64
	failures   atomic.Int64
}

// DispatcherConfig holds the tuning knobs; zero values use the defaults.
type DispatcherConfig struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

// Stats is a point-in-time view of the dispatcher counters.
type Stats struct {
	Pending  int   `json:"pending"`
	Written  int64 `json:"written"`
	Dropped  int64 `json:"dropped"`
	Failures int64 `json:"failures"`
}

func NewDispatcher(sink journal.Sink, cfg DispatcherConfig, logger *log.Logger) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{
		events:        make(chan core.Event, cfg.BufferSize),
		sink:          sink,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		logger:        logger.WithComponent(log.ComponentWorker),
	}
}

// Enqueue implements ledger.EventSink.
func (d *Dispatcher) Enqueue(events ...core.Event) {
	for _, e := range events {
		select {
		case d.events <- e:
		default:
			d.dropped.Add(1)
			d.unreported.Add(1)
		}
	}
}

// Run drains the buffer until ctx is cancelled, then flushes whatever is
// still buffered with a short grace timeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.flushInterval)
	defer ticker.Stop()

	d.logger.Info("Journal dispatcher started", "batch_size", d.batchSize, "buffer", cap(d.events))

	batch := make([]core.Event, 0, d.batchSize)
	for {
		select {
		case <-ctx.Done():
			batch = d.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			d.flush(flushCtx, batch)
			cancel()
			d.reportDrops()
			d.logger.Info("Journal dispatcher stopped", log.FieldOperation, log.OpShutdown)
			return nil
		case e := <-d.events:
			batch = append(batch, e)
			if len(batch) >= d.batchSize {
				d.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.flush(ctx, batch)
				batch = batch[:0]
			}
			d.reportDrops()
		}
	}
}

func (d *Dispatcher) drain(batch []core.Event) []core.Event {
	for {
		select {
		case e := <-d.events:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

// flush writes batch in chunks of batchSize. Failed chunks are logged and
// discarded; the journal is an audit trail, not the ledger of record.
func (d *Dispatcher) flush(ctx context.Context, batch []core.Event) {
	for start := 0; start < len(batch); start += d.batchSize {
		end := min(start+d.batchSize, len(batch))
		chunk := append([]core.Event(nil), batch[start:end]...)
		if err := d.sink.RecordEvents(ctx, chunk); err != nil {
			d.failures.Add(1)
			d.logger.ErrorContext(ctx, "Failed to journal events",
				log.FieldError, err, log.FieldEventCount, len(chunk))
			continue
		}
		d.written.Add(int64(len(chunk)))
	}
}

// reportDrops logs the events dropped since the previous report, if any.
func (d *Dispatcher) reportDrops() {
	n := d.unreported.Swap(0)
	if n == 0 {
		return
	}
	d.logger.Warn("Journal buffer full, events dropped",
		"dropped", n, "dropped_total", d.dropped.Load(), "buffer", cap(d.events))
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Pending:  len(d.events),
		Written:  d.written.Load(),
		Dropped:  d.dropped.Load(),
		Failures: d.failures.Load(),
	}
}
