package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.Mutex
	tables map[string]map[string]Item
}

// NewMemory creates a concurrency-safe in-memory store. It backs unit tests
// and the dev-mode server; data does not survive the process.
func NewMemory() Store {
	return &memoryStore{tables: make(map[string]map[string]Item)}
}

func (s *memoryStore) Get(_ context.Context, table, key string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.tables[table][key]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (s *memoryStore) AtomicCommit(_ context.Context, writes []Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]Outcome, len(writes))
	failed := false
	for i, w := range writes {
		if s.holds(w) {
			outcomes[i] = OutcomeOK
		} else {
			outcomes[i] = OutcomeConditionFailed
			failed = true
		}
	}
	if failed {
		return &CommitError{Outcomes: outcomes}
	}

	for _, w := range writes {
		tbl, ok := s.tables[w.Table]
		if !ok {
			tbl = make(map[string]Item)
			s.tables[w.Table] = tbl
		}
		tbl[w.Key] = cloneItem(w.Item)
	}
	return nil
}

// holds evaluates a write's precondition against current state. Caller must
// hold the mutex.
func (s *memoryStore) holds(w Write) bool {
	item, exists := s.tables[w.Table][w.Key]
	switch w.Cond.Kind {
	case CondKeyAbsent:
		return !exists
	case CondNumericGTE:
		if !exists {
			return true
		}
		v, ok := item.Int64(w.Cond.Attr)
		if !ok {
			// attribute absent: the permissive branch of the condition
			_, present := item[w.Cond.Attr]
			return !present
		}
		return v >= w.Cond.Value
	default:
		return true
	}
}

func cloneItem(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
