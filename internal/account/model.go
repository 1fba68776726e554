package account

// Type distinguishes the two transaction directions.
type Type string

const (
	// TypeCredit increases the account balance.
	TypeCredit Type = "CREDIT"
	// TypeDebit decreases the account balance.
	TypeDebit Type = "DEBIT"
)

// DefaultBalance is the balance reported for an account that has never been
// written. The account row itself is only created by a committed transaction.
const DefaultBalance int64 = 100

// TransactInput captures one transaction attempt.
type TransactInput struct {
	AccountID      string
	IdempotencyKey string
	Amount         int64
	Type           Type
}
