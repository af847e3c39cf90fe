package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder writes ledger occurrences in the background. Record never
// blocks and failures are logged only.
type Recorder struct {
	ledger  *Ledger
	timeout time.Duration

	mu      sync.Mutex
	idle    *sync.Cond // Signaled when pending drops to zero
	pending int
	closed  bool

	log *slog.Logger
}

// NewRecorder creates a background recorder bounding each write by timeout
func NewRecorder(ledger *Ledger, timeout time.Duration, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		ledger:  ledger,
		timeout: timeout,
		log:     logger,
	}
	r.idle = sync.NewCond(&r.mu)
	return r
}

// Record schedules an occurrence of word produced from ancestors.
// Records after Close are dropped.
func (r *Recorder) Record(word string, ancestors []string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("Recorder closed, dropping combination", slog.String("word", word))
		return
	}
	r.pending++
	r.mu.Unlock()

	ancestors = append([]string(nil), ancestors...)
	go func() {
		defer r.done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Ledger write panicked", slog.String("word", word), slog.Any("panic", rec))
			}
		}()

		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		record, err := r.ledger.Record(ctx, word, ancestors)
		if err != nil {
			r.log.Warn("Failed to record combination", slog.String("word", word), slog.String("error", err.Error()))
			return
		}
		r.log.Debug("Recorded combination", slog.String("word", record.Label), slog.Int64("count", record.Count))
	}()
}

func (r *Recorder) done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending--
	if r.pending == 0 {
		r.idle.Broadcast()
	}
}

// Wait blocks until every write scheduled so far has finished.
// It may run concurrently with Record.
func (r *Recorder) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pending > 0 {
		r.idle.Wait()
	}
}

// Close stops accepting records and waits for the pending writes
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.Wait()
}
