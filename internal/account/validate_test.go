package account

import (
	"errors"
	"testing"
)

func TestValidateInput(t *testing.T) {
	valid := TransactInput{AccountID: "acct-1", IdempotencyKey: "k1", Amount: 50, Type: TypeCredit}
	if err := ValidateInput(valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name  string
		input TransactInput
	}{
		{"empty account id", TransactInput{IdempotencyKey: "k1", Amount: 50, Type: TypeCredit}},
		{"empty idempotency key", TransactInput{AccountID: "acct-1", Amount: 50, Type: TypeCredit}},
		{"zero amount", TransactInput{AccountID: "acct-1", IdempotencyKey: "k1", Amount: 0, Type: TypeCredit}},
		{"negative amount", TransactInput{AccountID: "acct-1", IdempotencyKey: "k1", Amount: -5, Type: TypeDebit}},
		{"unknown type", TransactInput{AccountID: "acct-1", IdempotencyKey: "k1", Amount: 50, Type: "TRANSFER"}},
		{"lowercase type", TransactInput{AccountID: "acct-1", IdempotencyKey: "k1", Amount: 50, Type: "credit"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateInput(tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
