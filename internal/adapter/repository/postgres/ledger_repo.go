package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

const entryColumns = `id, account_id, sequence, amount, direction, reason, actor, actor_is_admin, balance_after, created_at`

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db dbConn
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: pool}
}

func newLedgerRepositoryWithDB(db dbConn) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create appends a ledger entry inside the given transaction. The
// database assigns the sequence number in commit order; it is written
// back onto the entry.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (id, account_id, amount, direction, reason, actor, actor_is_admin, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING sequence
	`

	return pgxTx.QueryRow(ctx, query,
		entry.ID,
		entry.AccountID,
		decimalToNumeric(entry.Amount),
		entry.Direction,
		entry.Reason,
		entry.Actor,
		entry.ActorIsAdmin,
		decimalToNumeric(entry.BalanceAfter),
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.Sequence)
}

// ListByAccount retrieves an account's entries newest-first by
// sequence.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY sequence DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByAccount returns the total credits and debits for an account.
func (r *LedgerRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'credit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'debit'), 0)
		FROM ledger_entries
		WHERE account_id = $1
	`

	var credits, debits pgtype.Numeric

	err := r.db.QueryRow(ctx, query, accountID).Scan(&credits, &debits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(credits), numericToDecimal(debits), nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry        domain.LedgerEntry
		amount       pgtype.Numeric
		balanceAfter pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Sequence,
		&amount,
		&entry.Direction,
		&entry.Reason,
		&entry.Actor,
		&entry.ActorIsAdmin,
		&balanceAfter,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
