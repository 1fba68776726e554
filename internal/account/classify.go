package account

import (
	"errors"
	"fmt"

	"github.com/jovejob/txledger/internal/store"
)

// classifyCommitFailure maps a failed atomic commit to a domain outcome. The
// mapping is positional: writes[0] is the record insert, writes[1] the
// balance update, so the failed precondition identifies the violated
// invariant without inspecting error text. Anything that is not a structured
// commit cancellation is an infrastructure fault.
func classifyCommitFailure(err error) error {
	var commitErr *store.CommitError
	if !errors.As(err, &commitErr) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	outcomes := commitErr.Outcomes
	if len(outcomes) != 2 {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if outcomes[0] == store.OutcomeConditionFailed {
		return ErrDuplicateTransaction
	}
	if outcomes[1] == store.OutcomeConditionFailed {
		return ErrInsufficientFunds
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
