package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// AccountCounts summarizes an account's activity: packages it owns or
// is assigned, and ledger entries written against it.
type AccountCounts struct {
	Packages int64
	Entries  int64
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.Account, error)
	CountsByAccount(ctx context.Context, accountIDs []string) (map[string]AccountCounts, error)
}

// LedgerRepository defines data access for ledger entries. Create runs
// inside the caller's transaction and fills the entry's Sequence from
// the database.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByAccount(ctx context.Context, accountID string) (credits, debits decimal.Decimal, err error)
}

// PackageRepository defines data access for packages.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
	UpdateStatus(ctx context.Context, id string, status domain.PackageStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.PackageFilter, limit, offset int) ([]*domain.Package, int64, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Package, error)
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*domain.Package, error)
}

// ShopWindowStats is a per-shop rollup over an aggregation window.
type ShopWindowStats struct {
	ShopID    string
	ShopName  string
	Total     int64
	Delivered int64
}

// StatsRepository defines the read-only aggregation queries behind the
// admin dashboard. All windows are inclusive UTC ranges.
type StatsRepository interface {
	CountInWindow(ctx context.Context, start, end time.Time) (int64, error)
	StatusCounts(ctx context.Context, start, end time.Time) (map[domain.PackageStatus]int64, error)
	DailyCounts(ctx context.Context, start, end time.Time) (map[int]int64, error)
	MonthlyCounts(ctx context.Context, start, end time.Time) (map[time.Month]int64, error)
	ShopStats(ctx context.Context, start, end time.Time) ([]ShopWindowStats, error)
}

// BlogRepository defines data access for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	GetByID(ctx context.Context, id string) (*domain.BlogPost, error)
	Update(ctx context.Context, post *domain.BlogPost) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations for read-only report data.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore deduplicates externally delivered events.
// MarkProcessed returns false when the key has already been seen.
// Clear releases a claimed key so a redelivery can be processed
// after the original attempt failed.
type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Clear(ctx context.Context, key string) error
}
