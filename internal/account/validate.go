package account

import "fmt"

// ValidateInput checks a transaction attempt for well-formedness before any
// storage access. Pure function, no side effects.
func ValidateInput(input TransactInput) error {
	if input.AccountID == "" {
		return fmt.Errorf("%w: account id must be a non-empty string", ErrInvalidInput)
	}
	if input.IdempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key must be a non-empty string", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.Type != TypeCredit && input.Type != TypeDebit {
		return fmt.Errorf("%w: type must be CREDIT or DEBIT", ErrInvalidInput)
	}
	return nil
}
