package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists items in a single relation keyed by (tbl, key), with
// the attribute map held as jsonb. Conditional writes are expressed as
// conditional upserts; an atomic commit is one SQL transaction that rolls
// back entirely when any statement affects zero rows.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the items relation when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS items (
        tbl text NOT NULL,
        key text NOT NULL,
        doc jsonb NOT NULL,
        PRIMARY KEY (tbl, key))`)
	if err != nil {
		return fmt.Errorf("ensure items relation: %w", err)
	}
	return nil
}

// Get performs a point read.
func (s *PostgresStore) Get(ctx context.Context, table, key string) (Item, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT doc FROM items WHERE tbl = $1 AND key = $2`, table, key).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	var item Item
	if err := json.Unmarshal(doc, &item); err != nil {
		return nil, fmt.Errorf("decode item %s/%s: %w", table, key, err)
	}
	return item, nil
}

// AtomicCommit applies every write inside one transaction. Each write runs as
// a conditional upsert; a statement that affects zero rows means its
// precondition did not hold, and the whole transaction is rolled back with a
// positional *CommitError.
func (s *PostgresStore) AtomicCommit(ctx context.Context, writes []Write) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for i, w := range writes {
		doc, err := json.Marshal(w.Item)
		if err != nil {
			return fmt.Errorf("encode item %s/%s: %w", w.Table, w.Key, err)
		}

		var stmt string
		var args []any
		switch w.Cond.Kind {
		case CondKeyAbsent:
			stmt = `INSERT INTO items (tbl, key, doc) VALUES ($1, $2, $3)
                ON CONFLICT (tbl, key) DO NOTHING`
			args = []any{w.Table, w.Key, doc}
		case CondNumericGTE:
			stmt = `INSERT INTO items (tbl, key, doc) VALUES ($1, $2, $3)
                ON CONFLICT (tbl, key) DO UPDATE SET doc = EXCLUDED.doc
                WHERE items.doc ->> $4::text IS NULL OR (items.doc ->> $4::text)::bigint >= $5`
			args = []any{w.Table, w.Key, doc, w.Cond.Attr, w.Cond.Value}
		default:
			stmt = `INSERT INTO items (tbl, key, doc) VALUES ($1, $2, $3)
                ON CONFLICT (tbl, key) DO UPDATE SET doc = EXCLUDED.doc`
			args = []any{w.Table, w.Key, doc}
		}

		ct, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			outcomes := make([]Outcome, len(writes))
			for j := range outcomes {
				switch {
				case j < i:
					outcomes[j] = OutcomeOK
				case j == i:
					outcomes[j] = OutcomeConditionFailed
				default:
					outcomes[j] = OutcomeSkipped
				}
			}
			return &CommitError{Outcomes: outcomes}
		}
	}

	return tx.Commit(ctx)
}
