package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
)

// Store is the persistence the ledger needs. Implementations only have to
// guarantee single-row atomicity.
type Store interface {
	// SelectCombinationByLabel returns nil and no error if the label has no record
	SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error)
	// InsertCombination creates a record with count 1. It returns
	// model.ErrDuplicateCombination if the label already has a record.
	InsertCombination(ctx context.Context, label string) (*model.CombinationRecord, error)
	IncrementCombinationCount(ctx context.Context, id int64) (*model.CombinationRecord, error)
	SelectTopCombinations(ctx context.Context, limit int) ([]*model.CombinationRecord, error)
}

// ActivitySink receives combination events. Delivery is best effort.
type ActivitySink interface {
	InsertActivityEvent(ctx context.Context, event *model.ActivityEvent) error
}

const defaultMaxAttempts = 3

// Ledger counts how often each label has been produced.
type Ledger struct {
	store       Store
	sink        ActivitySink
	maxAttempts int
	log         *slog.Logger
}

// NewLedger creates a ledger on store. sink may be nil.
func NewLedger(store Store, sink ActivitySink, logger *slog.Logger) (*Ledger, error) {
	if store == nil {
		return nil, helper.NewError("ledger store validation", fmt.Errorf("store is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		store:       store,
		sink:        sink,
		maxAttempts: defaultMaxAttempts,
		log:         logger,
	}, nil
}

// RecordOccurrence creates the record for label with count 1 or increments
// its count. A concurrent first insert is resolved by reading again.
func (l *Ledger) RecordOccurrence(ctx context.Context, label string) (*model.CombinationRecord, error) {
	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		record, err := l.store.SelectCombinationByLabel(ctx, label)
		if err != nil {
			return nil, helper.NewError("select combination", err)
		}

		if record != nil {
			record, err = l.store.IncrementCombinationCount(ctx, record.ID)
			if err != nil {
				return nil, helper.NewError("increment combination", err)
			}
			return record, nil
		}

		record, err = l.store.InsertCombination(ctx, label)
		if errors.Is(err, model.ErrDuplicateCombination) {
			l.log.Debug("Combination created concurrently, reading again", slog.String("label", label), slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, helper.NewError("insert combination", err)
		}
		return record, nil
	}

	return nil, helper.NewError("record occurrence", fmt.Errorf("gave up on %q after %d conflicting attempts", label, l.maxAttempts))
}

// Record records an occurrence of label and emits the matching activity
// event. Sink failures are logged, not returned.
func (l *Ledger) Record(ctx context.Context, label string, ancestors []string) (*model.CombinationRecord, error) {
	record, err := l.RecordOccurrence(ctx, label)
	if err != nil {
		return nil, err
	}

	if l.sink != nil {
		event := model.NewActivityEvent(record.Label, ancestors, record.Count)
		if err := l.sink.InsertActivityEvent(ctx, event); err != nil {
			l.log.Warn("Failed to emit activity event", slog.String("label", label), slog.String("error", err.Error()))
		}
	}

	return record, nil
}

// Count returns how often label was produced, 0 if never
func (l *Ledger) Count(ctx context.Context, label string) (int64, error) {
	record, err := l.store.SelectCombinationByLabel(ctx, label)
	if err != nil {
		return 0, helper.NewError("select combination", err)
	}
	if record == nil {
		return 0, nil
	}
	return record.Count, nil
}

// Top returns the most produced labels
func (l *Ledger) Top(ctx context.Context, limit int) ([]*model.CombinationRecord, error) {
	records, err := l.store.SelectTopCombinations(ctx, limit)
	if err != nil {
		return nil, helper.NewError("select top combinations", err)
	}
	return records, nil
}
