package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Role      domain.Role     `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Phone:     a.Phone,
		Address:   a.Address,
		Role:      a.Role,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AccountSummaryResponse is an account with activity counts, for the
// admin listing.
type AccountSummaryResponse struct {
	*AccountResponse
	PackageCount int64 `json:"package_count"`
	EntryCount   int64 `json:"entry_count"`
}

// AccountSummariesFromUseCase converts account summaries to responses.
func AccountSummariesFromUseCase(summaries []*usecase.AccountSummary) []*AccountSummaryResponse {
	result := make([]*AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = &AccountSummaryResponse{
			AccountResponse: AccountFromDomain(s.Account),
			PackageCount:    s.Packages,
			EntryCount:      s.Entries,
		}
	}
	return result
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string           `json:"id"`
	AccountID    string           `json:"account_id"`
	Sequence     int64            `json:"sequence"`
	Amount       decimal.Decimal  `json:"amount"`
	Direction    domain.Direction `json:"direction"`
	Reason       string           `json:"reason,omitempty"`
	Actor        string           `json:"actor"`
	ActorIsAdmin bool             `json:"actor_is_admin"`
	BalanceAfter decimal.Decimal  `json:"balance_after"`
	CreatedAt    time.Time        `json:"created_at"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Sequence:     e.Sequence,
		Amount:       e.Amount,
		Direction:    e.Direction,
		Reason:       e.Reason,
		Actor:        e.Actor,
		ActorIsAdmin: e.ActorIsAdmin,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain ledger entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalanceChangeResponse reports a committed balance change.
type BalanceChangeResponse struct {
	Account *AccountResponse `json:"account"`
	Entry   *EntryResponse   `json:"entry"`
}

// StatementResponse is a page of an account's ledger history.
type StatementResponse struct {
	AccountID string           `json:"account_id"`
	Entries   []*EntryResponse `json:"entries"`
}

// PackageResponse represents a package in API responses.
type PackageResponse struct {
	ID             string               `json:"id"`
	TrackingNumber string               `json:"tracking_number"`
	Description    string               `json:"description,omitempty"`
	Status         domain.PackageStatus `json:"status"`
	OwnerID        string               `json:"owner_id"`
	ShopID         string               `json:"shop_id"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// PackageFromDomain converts a domain package to a response.
func PackageFromDomain(p *domain.Package) *PackageResponse {
	return &PackageResponse{
		ID:             p.ID,
		TrackingNumber: p.TrackingNumber,
		Description:    p.Description,
		Status:         p.Status,
		OwnerID:        p.OwnerID,
		ShopID:         p.ShopID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PackagesFromDomain converts domain packages to responses.
func PackagesFromDomain(packages []*domain.Package) []*PackageResponse {
	result := make([]*PackageResponse, len(packages))
	for i, p := range packages {
		result[i] = PackageFromDomain(p)
	}
	return result
}

// PackagePageResponse is one page of the admin package listing.
type PackagePageResponse struct {
	Packages   []*PackageResponse `json:"packages"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	TotalItems int64              `json:"total_items"`
	PageSize   int                `json:"page_size"`
}

// PackagePageFromUseCase converts a use case page to a response.
func PackagePageFromUseCase(page *usecase.PackagePage) *PackagePageResponse {
	return &PackagePageResponse{
		Packages:   PackagesFromDomain(page.Packages),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
		PageSize:   page.PageSize,
	}
}

// ReconciliationResponse reports one account's ledger invariant check.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation result.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		CheckedAt:         r.CheckedAt,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation sweep.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// BlogPostResponse represents a blog post in API responses.
type BlogPostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogPostFromDomain converts a domain post to a response.
func BlogPostFromDomain(p *domain.BlogPost) *BlogPostResponse {
	return &BlogPostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// BlogPostsFromDomain converts domain posts to responses.
func BlogPostsFromDomain(posts []*domain.BlogPost) []*BlogPostResponse {
	result := make([]*BlogPostResponse, len(posts))
	for i, p := range posts {
		result[i] = BlogPostFromDomain(p)
	}
	return result
}
