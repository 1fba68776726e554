package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrItemNotFound occurs when a point read targets a key with no stored item.
var ErrItemNotFound = errors.New("item not found")

// Item is a flat attribute map persisted as a JSON document. Numeric
// attributes survive a JSON round trip as float64; use Int64 to read them.
type Item map[string]any

// Int64 reads a numeric attribute regardless of how the backend decoded it.
func (it Item) Int64(attr string) (int64, bool) {
	switch v := it[attr].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// CondKind enumerates the preconditions a Write may carry.
type CondKind int

const (
	// CondNone applies the write unconditionally. The write still fails if
	// another write in the same commit fails its precondition.
	CondNone CondKind = iota
	// CondKeyAbsent requires that no item is stored under the write's key.
	CondKeyAbsent
	// CondNumericGTE requires the stored item's Attr to be >= Value, or the
	// attribute (or the whole item) to be absent.
	CondNumericGTE
)

// Precondition gates a write on the latest stored state at commit time.
type Precondition struct {
	Kind  CondKind
	Attr  string
	Value int64
}

// Write describes one conditional put inside an atomic commit.
type Write struct {
	Table string
	Key   string
	Item  Item
	Cond  Precondition
}

// Outcome reports how a single write inside a failed commit fared.
type Outcome int

const (
	// OutcomeOK means the write's precondition held.
	OutcomeOK Outcome = iota
	// OutcomeConditionFailed means the write's precondition did not hold.
	OutcomeConditionFailed
	// OutcomeSkipped means the write was never evaluated because an earlier
	// write in the commit had already failed.
	OutcomeSkipped
)

// CommitError is returned by AtomicCommit when one or more preconditions
// failed. Outcomes is positional: Outcomes[i] reports the i-th write.
type CommitError struct {
	Outcomes []Outcome
}

func (e *CommitError) Error() string {
	parts := make([]string, len(e.Outcomes))
	for i, o := range e.Outcomes {
		switch o {
		case OutcomeOK:
			parts[i] = "ok"
		case OutcomeConditionFailed:
			parts[i] = "condition-failed"
		default:
			parts[i] = "skipped"
		}
	}
	return fmt.Sprintf("atomic commit canceled: [%s]", strings.Join(parts, ", "))
}

// Store is a key-value store with conditional writes. Get performs a point
// read. AtomicCommit applies every write or none: each precondition is
// evaluated against the latest stored state, and a failed precondition
// cancels the whole commit and surfaces as a *CommitError. Any other error
// means the commit may not have been attempted and nothing was applied.
type Store interface {
	Get(ctx context.Context, table, key string) (Item, error)
	AtomicCommit(ctx context.Context, writes []Write) error
}
