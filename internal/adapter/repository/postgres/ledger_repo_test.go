package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaypoint/relaypoint/internal/domain"
)

func TestLedgerRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newLedgerRepositoryWithDB(mock)
	txManager := newTxManagerWithPool(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ledger_entries`).
		WithArgs("entry-1", "acc-1",
			decimalToNumeric(decimal.NewFromInt(50)),
			domain.DirectionCredit, "top-up", "acc-1", false,
			decimalToNumeric(decimal.NewFromInt(150)),
			pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"sequence"}).AddRow(int64(7)))
	mock.ExpectCommit()

	ctx := context.Background()

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)

	entry := &domain.LedgerEntry{
		ID:           "entry-1",
		AccountID:    "acc-1",
		Amount:       decimal.NewFromInt(50),
		Direction:    domain.DirectionCredit,
		Reason:       "top-up",
		Actor:        "acc-1",
		BalanceAfter: decimal.NewFromInt(150),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, tx, entry))
	require.NoError(t, tx.Commit(ctx))

	// The database assigns the sequence and it is written back.
	assert.Equal(t, int64(7), entry.Sequence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_SumByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newLedgerRepositoryWithDB(mock)

	mock.ExpectQuery(`SELECT .+ FROM ledger_entries\s+WHERE account_id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"credits", "debits"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("200.50")), decimalToNumeric(decimal.NewFromInt(75))))

	credits, debits, err := repo.SumByAccount(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.True(t, credits.Equal(decimal.RequireFromString("200.50")))
	assert.True(t, debits.Equal(decimal.NewFromInt(75)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ListByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newLedgerRepositoryWithDB(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "account_id", "sequence", "amount", "direction", "reason", "actor", "actor_is_admin", "balance_after", "created_at",
	}).AddRow(
		"entry-2", "acc-1", int64(2),
		decimalToNumeric(decimal.NewFromInt(30)), domain.DirectionDebit, "purchase", "acc-1", false,
		decimalToNumeric(decimal.NewFromInt(120)), timeToPgTimestamptz(now),
	).AddRow(
		"entry-1", "acc-1", int64(1),
		decimalToNumeric(decimal.NewFromInt(150)), domain.DirectionCredit, "top-up", "acc-1", false,
		decimalToNumeric(decimal.NewFromInt(150)), timeToPgTimestamptz(now),
	)

	mock.ExpectQuery(`SELECT .+ FROM ledger_entries\s+WHERE account_id = \$1\s+ORDER BY sequence DESC`).
		WithArgs("acc-1", 50, 0).
		WillReturnRows(rows)

	entries, err := repo.ListByAccount(context.Background(), "acc-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(2), entries[0].Sequence)
	assert.Equal(t, domain.DirectionDebit, entries[0].Direction)
	assert.True(t, entries[1].BalanceAfter.Equal(decimal.NewFromInt(150)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
