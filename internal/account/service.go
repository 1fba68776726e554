package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jovejob/txledger/internal/notification"
	"github.com/jovejob/txledger/internal/store"
)

const (
	balancesTable     = "balances"
	transactionsTable = "transactions"
	balanceAttr       = "balance"
)

// Service applies credit/debit transactions against account balances. All
// coordination is delegated to the store's conditional-commit semantics:
// there is no in-process lock, and concurrent attempts against the same
// account or key are resolved by the store at commit time.
type Service struct {
	store    store.Store
	notifier notification.Notifier
}

// NewService builds a transaction service instance.
func NewService(st store.Store, notifier notification.Notifier) *Service {
	return &Service{store: st, notifier: notifier}
}

// GetBalance resolves the current balance for an account. An account that
// was never written reads as DefaultBalance without creating a record.
func (s *Service) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("%w: account id must be a non-empty string", ErrInvalidInput)
	}

	item, err := s.store.Get(ctx, balancesTable, accountID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return DefaultBalance, nil
		}
		return 0, fmt.Errorf("%w: read balance: %v", ErrStorageUnavailable, err)
	}

	balance, ok := item.Int64(balanceAttr)
	if !ok {
		return DefaultBalance, nil
	}
	return balance, nil
}

// Apply attempts one transaction. On success exactly one transaction record
// exists for the idempotency key and the balance reflects it; on failure
// nothing was written and the error identifies the outcome.
//
// The initial read is racy by design: the guarantee comes from the commit's
// preconditions, which the store re-validates against the latest stored
// state. A losing attempt under a race is reported to its caller, never
// retried here.
func (s *Service) Apply(ctx context.Context, input TransactInput) error {
	if err := ValidateInput(input); err != nil {
		return err
	}

	currentBalance, err := s.GetBalance(ctx, input.AccountID)
	if err != nil {
		return err
	}

	newBalance := currentBalance + input.Amount
	if input.Type == TypeDebit {
		newBalance = currentBalance - input.Amount
	}

	// Fast-fail on an obviously doomed request. The commit precondition
	// below is the authority; this only saves a round trip.
	if newBalance < 0 {
		return ErrInsufficientFunds
	}

	record := store.Item{
		"record_id":  uuid.NewString(),
		"account_id": input.AccountID,
		"amount":     input.Amount,
		"type":       string(input.Type),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	balanceCond := store.Precondition{Kind: store.CondNone}
	if input.Type == TypeDebit {
		// balance >= amount, or balance never initialized.
		balanceCond = store.Precondition{Kind: store.CondNumericGTE, Attr: balanceAttr, Value: input.Amount}
	}

	writes := []store.Write{
		{
			Table: transactionsTable,
			Key:   input.IdempotencyKey,
			Item:  record,
			Cond:  store.Precondition{Kind: store.CondKeyAbsent},
		},
		{
			Table: balancesTable,
			Key:   input.AccountID,
			Item:  store.Item{balanceAttr: newBalance},
			Cond:  balanceCond,
		},
	}

	if err := s.store.AtomicCommit(ctx, writes); err != nil {
		return classifyCommitFailure(err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransactionApplied,
			Destination: input.AccountID,
			Body:        fmt.Sprintf("%s %d applied to account %s", input.Type, input.Amount, input.AccountID),
		})
	}

	return nil
}
