package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/combiner/model"
)

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	byLabel map[string]*model.CombinationRecord
	byID    map[int64]*model.CombinationRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byLabel: make(map[string]*model.CombinationRecord),
		byID:    make(map[int64]*model.CombinationRecord),
	}
}

// SelectCombinationByLabel returns a copy of the record for label
func (s *MemoryStore) SelectCombinationByLabel(_ context.Context, label string) (*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byLabel[label]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// InsertCombination creates the record for label with count 1
func (s *MemoryStore) InsertCombination(_ context.Context, label string) (*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byLabel[label]; ok {
		return nil, model.ErrDuplicateCombination
	}

	s.nextID++
	now := time.Now().UTC()
	record := &model.CombinationRecord{
		ID:        s.nextID,
		RID:       uuid.New(),
		Label:     label,
		Count:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byLabel[label] = record
	s.byID[record.ID] = record

	copied := *record
	return &copied, nil
}

// IncrementCombinationCount adds one to the count of record id
func (s *MemoryStore) IncrementCombinationCount(_ context.Context, id int64) (*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	record.Count++
	record.UpdatedAt = time.Now().UTC()

	copied := *record
	return &copied, nil
}

// SelectTopCombinations returns up to limit records by descending count
func (s *MemoryStore) SelectTopCombinations(_ context.Context, limit int) ([]*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*model.CombinationRecord, 0, len(s.byID))
	for _, record := range s.byID {
		copied := *record
		records = append(records, &copied)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Label < records[j].Label
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
