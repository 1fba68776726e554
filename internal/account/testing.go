package account

import (
	"context"

	"github.com/jovejob/txledger/internal/store"
)

// SeedBalance is a test helper that writes an account balance directly,
// bypassing the transaction protocol.
func SeedBalance(ctx context.Context, st store.Store, accountID string, amount int64) error {
	return st.AtomicCommit(ctx, []store.Write{{
		Table: balancesTable,
		Key:   accountID,
		Item:  store.Item{balanceAttr: amount},
		Cond:  store.Precondition{Kind: store.CondNone},
	}})
}
