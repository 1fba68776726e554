package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemory()
	if _, err := s.Get(context.Background(), "balances", "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMemoryStore_CommitAppliesAllWrites(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	writes := []Write{
		{Table: "transactions", Key: "k1", Item: Item{"amount": int64(50)}, Cond: Precondition{Kind: CondKeyAbsent}},
		{Table: "balances", Key: "acct-1", Item: Item{"balance": int64(150)}, Cond: Precondition{Kind: CondNone}},
	}
	if err := s.AtomicCommit(ctx, writes); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	item, err := s.Get(ctx, "balances", "acct-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if v, ok := item.Int64("balance"); !ok || v != 150 {
		t.Fatalf("expected balance 150, got %v", item["balance"])
	}
	if _, err := s.Get(ctx, "transactions", "k1"); err != nil {
		t.Fatalf("get record: %v", err)
	}
}

func TestMemoryStore_KeyAbsentConditionCancelsCommit(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	first := []Write{
		{Table: "transactions", Key: "dup", Item: Item{"amount": int64(10)}, Cond: Precondition{Kind: CondKeyAbsent}},
		{Table: "balances", Key: "acct-1", Item: Item{"balance": int64(90)}, Cond: Precondition{Kind: CondNone}},
	}
	if err := s.AtomicCommit(ctx, first); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}

	second := []Write{
		{Table: "transactions", Key: "dup", Item: Item{"amount": int64(10)}, Cond: Precondition{Kind: CondKeyAbsent}},
		{Table: "balances", Key: "acct-1", Item: Item{"balance": int64(80)}, Cond: Precondition{Kind: CondNone}},
	}
	err := s.AtomicCommit(ctx, second)
	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("expected CommitError, got %v", err)
	}
	if commitErr.Outcomes[0] != OutcomeConditionFailed {
		t.Fatalf("expected first outcome condition-failed, got %v", commitErr.Outcomes)
	}

	// The unconditioned balance write must not have been applied either.
	item, err := s.Get(ctx, "balances", "acct-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if v, _ := item.Int64("balance"); v != 90 {
		t.Fatalf("expected balance untouched at 90, got %d", v)
	}
}

func TestMemoryStore_NumericGTECondition(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	// Absent item passes the condition.
	ok := []Write{{Table: "balances", Key: "fresh", Item: Item{"balance": int64(70)},
		Cond: Precondition{Kind: CondNumericGTE, Attr: "balance", Value: 30}}}
	if err := s.AtomicCommit(ctx, ok); err != nil {
		t.Fatalf("commit against absent item failed: %v", err)
	}

	// Stored value below the threshold fails.
	low := []Write{{Table: "balances", Key: "fresh", Item: Item{"balance": int64(0)},
		Cond: Precondition{Kind: CondNumericGTE, Attr: "balance", Value: 100}}}
	err := s.AtomicCommit(ctx, low)
	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("expected CommitError, got %v", err)
	}
	if commitErr.Outcomes[0] != OutcomeConditionFailed {
		t.Fatalf("expected condition-failed, got %v", commitErr.Outcomes)
	}
}

func TestMemoryStore_ConcurrentKeyAbsentCommits(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.AtomicCommit(ctx, []Write{{
				Table: "transactions", Key: "contested",
				Item: Item{"amount": int64(1)},
				Cond: Precondition{Kind: CondKeyAbsent},
			}})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var commitErr *CommitError
		if !errors.As(err, &commitErr) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one commit to win, got %d", succeeded)
	}
}
