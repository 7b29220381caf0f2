// Package mocks provides hand-written mocks for the usecase
// interfaces. Each method delegates to an optional func field; when
// the field is nil, a simple in-memory default applies.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateFunc           func(ctx context.Context, account *domain.Account) error
	DeleteFunc           func(ctx context.Context, id string) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByRoleFunc       func(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.Account, error)
	CountsByAccountFunc  func(ctx context.Context, accountIDs []string) (map[string]usecase.AccountCounts, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account in the in-memory default store.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.Account, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, account := range m.accounts {
		if account.Role == role {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) CountsByAccount(ctx context.Context, accountIDs []string) (map[string]usecase.AccountCounts, error) {
	if m.CountsByAccountFunc != nil {
		return m.CountsByAccountFunc(ctx, accountIDs)
	}
	return map[string]usecase.AccountCounts{}, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	nextSeq int64

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByAccountFunc  func(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	entry.Sequence = m.nextSeq
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns all recorded entries in creation order.
func (m *MockLedgerRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.LedgerEntry(nil), m.entries...)
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].AccountID == accountID {
			entries = append(entries, m.entries[i])
		}
	}
	return entries, nil
}

func (m *MockLedgerRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	credits, debits := decimal.Zero, decimal.Zero
	for _, entry := range m.entries {
		if entry.AccountID != accountID {
			continue
		}
		if entry.Direction == domain.DirectionCredit {
			credits = credits.Add(entry.Amount)
		} else {
			debits = debits.Add(entry.Amount)
		}
	}
	return credits, debits, nil
}

// MockPackageRepository is a mock implementation of PackageRepository.
type MockPackageRepository struct {
	mu       sync.RWMutex
	packages map[string]*domain.Package

	CreateFunc              func(ctx context.Context, pkg *domain.Package) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Package, error)
	GetByTrackingNumberFunc func(ctx context.Context, trackingNumber string) (*domain.Package, error)
	UpdateFunc              func(ctx context.Context, pkg *domain.Package) error
	UpdateStatusFunc        func(ctx context.Context, id string, status domain.PackageStatus, updatedAt time.Time) error
	DeleteFunc              func(ctx context.Context, id string) error
	ListFunc                func(ctx context.Context, filter domain.PackageFilter, limit, offset int) ([]*domain.Package, int64, error)
	ListByOwnerFunc         func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Package, error)
	ListByShopFunc          func(ctx context.Context, shopID string, limit, offset int) ([]*domain.Package, error)
}

func NewMockPackageRepository() *MockPackageRepository {
	return &MockPackageRepository{packages: make(map[string]*domain.Package)}
}

// Seed stores a package in the in-memory default store.
func (m *MockPackageRepository) Seed(pkg *domain.Package) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[pkg.ID] = pkg
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pkg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[pkg.ID] = pkg
	return nil
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	pkg, ok := m.packages[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	copied := *pkg
	return &copied, nil
}

func (m *MockPackageRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Package, error) {
	if m.GetByTrackingNumberFunc != nil {
		return m.GetByTrackingNumberFunc(ctx, trackingNumber)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pkg := range m.packages {
		if pkg.TrackingNumber == trackingNumber {
			copied := *pkg
			return &copied, nil
		}
	}
	return nil, domain.ErrPackageNotFound
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, pkg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[pkg.ID] = pkg
	return nil
}

func (m *MockPackageRepository) UpdateStatus(ctx context.Context, id string, status domain.PackageStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pkg, ok := m.packages[id]
	if !ok {
		return domain.ErrPackageNotFound
	}
	pkg.Status = status
	pkg.UpdatedAt = updatedAt
	return nil
}

func (m *MockPackageRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.packages, id)
	return nil
}

func (m *MockPackageRepository) List(ctx context.Context, filter domain.PackageFilter, limit, offset int) ([]*domain.Package, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	packages := make([]*domain.Package, 0, len(m.packages))
	for _, pkg := range m.packages {
		copied := *pkg
		packages = append(packages, &copied)
	}
	return packages, int64(len(packages)), nil
}

func (m *MockPackageRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Package, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var packages []*domain.Package
	for _, pkg := range m.packages {
		if pkg.OwnerID == ownerID {
			copied := *pkg
			packages = append(packages, &copied)
		}
	}
	return packages, nil
}

func (m *MockPackageRepository) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*domain.Package, error) {
	if m.ListByShopFunc != nil {
		return m.ListByShopFunc(ctx, shopID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var packages []*domain.Package
	for _, pkg := range m.packages {
		if pkg.ShopID == shopID {
			copied := *pkg
			packages = append(packages, &copied)
		}
	}
	return packages, nil
}

// MockStatsRepository is a mock implementation of StatsRepository.
type MockStatsRepository struct {
	CountInWindowFunc func(ctx context.Context, start, end time.Time) (int64, error)
	StatusCountsFunc  func(ctx context.Context, start, end time.Time) (map[domain.PackageStatus]int64, error)
	DailyCountsFunc   func(ctx context.Context, start, end time.Time) (map[int]int64, error)
	MonthlyCountsFunc func(ctx context.Context, start, end time.Time) (map[time.Month]int64, error)
	ShopStatsFunc     func(ctx context.Context, start, end time.Time) ([]usecase.ShopWindowStats, error)
}

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{}
}

func (m *MockStatsRepository) CountInWindow(ctx context.Context, start, end time.Time) (int64, error) {
	if m.CountInWindowFunc != nil {
		return m.CountInWindowFunc(ctx, start, end)
	}
	return 0, nil
}

func (m *MockStatsRepository) StatusCounts(ctx context.Context, start, end time.Time) (map[domain.PackageStatus]int64, error) {
	if m.StatusCountsFunc != nil {
		return m.StatusCountsFunc(ctx, start, end)
	}
	return map[domain.PackageStatus]int64{}, nil
}

func (m *MockStatsRepository) DailyCounts(ctx context.Context, start, end time.Time) (map[int]int64, error) {
	if m.DailyCountsFunc != nil {
		return m.DailyCountsFunc(ctx, start, end)
	}
	return map[int]int64{}, nil
}

func (m *MockStatsRepository) MonthlyCounts(ctx context.Context, start, end time.Time) (map[time.Month]int64, error) {
	if m.MonthlyCountsFunc != nil {
		return m.MonthlyCountsFunc(ctx, start, end)
	}
	return map[time.Month]int64{}, nil
}

func (m *MockStatsRepository) ShopStats(ctx context.Context, start, end time.Time) ([]usecase.ShopWindowStats, error) {
	if m.ShopStatsFunc != nil {
		return m.ShopStatsFunc(ctx, start, end)
	}
	return nil, nil
}

// MockBlogRepository is a mock implementation of BlogRepository.
type MockBlogRepository struct {
	mu    sync.RWMutex
	posts map[string]*domain.BlogPost

	CreateFunc  func(ctx context.Context, post *domain.BlogPost) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.BlogPost, error)
	UpdateFunc  func(ctx context.Context, post *domain.BlogPost) error
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error)
}

func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{posts: make(map[string]*domain.BlogPost)}
}

func (m *MockBlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *MockBlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *MockBlogRepository) List(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	posts := make([]*domain.BlogPost, 0, len(m.posts))
	for _, post := range m.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	return posts, nil
}

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	mu         sync.Mutex
	commits    int
	rollbacks  int
	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	t.commits++
	t.mu.Unlock()
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	t.rollbacks++
	t.mu.Unlock()
	return nil
}

// Commits returns the number of Commit calls.
func (t *MockTransaction) Commits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commits
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	last  *MockTransaction
	began int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.began++
	m.last = &MockTransaction{}
	return m.last, nil
}

// LastTransaction returns the most recently begun transaction.
func (m *MockTransactionManager) LastTransaction() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + time.Now().UTC().Format("20060102150405") + "-" + string(rune('a'+m.counter%26))
}

// MockRetrier runs the operation once with no retries.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockIdempotencyStore remembers processed keys in memory.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool

	MarkProcessedFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ClearFunc         func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{seen: make(map[string]bool)}
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *MockIdempotencyStore) Clear(ctx context.Context, key string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key)
	return nil
}

// MockTokenIssuer issues fixed tokens.
type MockTokenIssuer struct {
	GenerateFunc func(account *domain.Account) (string, error)
}

func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{}
}

func (m *MockTokenIssuer) Generate(account *domain.Account) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(account)
	}
	return "token-" + account.ID, nil
}
