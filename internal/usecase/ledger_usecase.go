package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// LedgerUseCase is the single authorized path for changing an account's
// balance. Every change commits the balance update and exactly one
// ledger entry in the same database transaction.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// BalanceChangeInput describes one balance-affecting event.
type BalanceChangeInput struct {
	AccountID    string
	Amount       decimal.Decimal
	Direction    domain.Direction
	Reason       string
	Actor        string
	ActorIsAdmin bool
}

// ApplyBalanceChange applies a credit or debit to an account.
//
// The account row is locked for the duration of the transaction, so
// concurrent changes to the same account serialize and cannot jointly
// overdraw it. A debit that would take the balance below zero aborts
// with domain.ErrInsufficientFunds and writes nothing.
func (uc *LedgerUseCase) ApplyBalanceChange(ctx context.Context, input BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
	if !input.Direction.IsValid() {
		return nil, nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	var (
		account *domain.Account
		entry   *domain.LedgerEntry
	)

	operation := func() error {
		var err error
		account, entry, err = uc.applyOnce(ctx, input)
		return err
	}

	if uc.retrier != nil {
		if err := uc.retrier.Retry(ctx, operation); err != nil {
			return nil, nil, err
		}
	} else if err := operation(); err != nil {
		return nil, nil, err
	}

	return account, entry, nil
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, input BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, nil, err
	}

	var newBalance decimal.Decimal
	if input.Direction == domain.DirectionDebit {
		if err := account.ValidateDebit(input.Amount); err != nil {
			return nil, nil, err
		}
		newBalance = account.ApplyDebit(input.Amount)
	} else {
		newBalance = account.ApplyCredit(input.Amount)
	}

	now := time.Now().UTC()

	entry := &domain.LedgerEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Amount:       input.Amount,
		Direction:    input.Direction,
		Reason:       input.Reason,
		Actor:        input.Actor,
		ActorIsAdmin: input.ActorIsAdmin,
		BalanceAfter: newBalance,
		CreatedAt:    now,
	}

	if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return account, entry, nil
}

// StatementInput selects a page of an account's ledger history.
type StatementInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// Statement returns an account's ledger entries newest-first. Each
// entry carries the balance immediately after it was applied, so the
// history reads as a bank statement without replaying anything at
// query time.
func (uc *LedgerUseCase) Statement(ctx context.Context, input StatementInput) ([]*domain.LedgerEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// ReconciliationResult reports whether an account's stored balance
// matches the net of its ledger entries.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	CheckedAt         time.Time
}

// Reconcile verifies the ledger invariant for one account:
// balance == sum(credits) - sum(debits).
func (uc *LedgerUseCase) Reconcile(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	credits, debits, err := uc.ledgerRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated := credits.Sub(debits)
	diff := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		CheckedAt:         time.Now().UTC(),
	}, nil
}

// ReconciliationReport summarizes a full reconciliation sweep.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// ReconcileAll checks the ledger invariant for every account.
func (uc *LedgerUseCase) ReconcileAll(ctx context.Context) (*ReconciliationReport, error) {
	limit, offset := domain.ValidatePagination(10000, 0)

	accounts, err := uc.accountRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		result, err := uc.Reconcile(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
