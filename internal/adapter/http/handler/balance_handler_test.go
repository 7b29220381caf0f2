package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

type stubLedgerService struct {
	applyFunc        func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error)
	reconcileFunc    func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	reconcileAllFunc func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *stubLedgerService) ApplyBalanceChange(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
	return s.applyFunc(ctx, input)
}

func (s *stubLedgerService) Reconcile(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFunc(ctx, accountID)
}

func (s *stubLedgerService) ReconcileAll(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reconcileAllFunc(ctx)
}

func withAccount(r *http.Request, account *domain.Account) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.AccountContextKey, account)
	return r.WithContext(ctx)
}

func TestBalanceHandler_TopUp(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			assert.Equal(t, "acc-1", input.AccountID)
			assert.Equal(t, domain.DirectionCredit, input.Direction)
			assert.False(t, input.ActorIsAdmin)

			return &domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(150)},
				&domain.LedgerEntry{ID: "entry-1", AccountID: "acc-1", Amount: input.Amount, BalanceAfter: decimal.NewFromInt(150)},
				nil
		},
	}

	h := NewBalanceHandler(ledger, nil)

	body := bytes.NewBufferString(`{"amount": "50"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/balance", body)
	req = withAccount(req, &domain.Account{ID: "acc-1", Role: domain.RoleUser})

	rec := httptest.NewRecorder()
	h.TopUp(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BalanceChangeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "acc-1", resp.Account.ID)
	assert.Equal(t, "entry-1", resp.Entry.ID)
}

func TestBalanceHandler_TopUpUnauthenticated(t *testing.T) {
	h := NewBalanceHandler(&stubLedgerService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/balance", bytes.NewBufferString(`{"amount": "50"}`))
	rec := httptest.NewRecorder()
	h.TopUp(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Shops and admins do not hold customer balances, so they cannot
// credit themselves through the self-service endpoint.
func TestBalanceHandler_TopUpForbiddenRoles(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			t.Fatalf("balance change applied for %s", input.AccountID)
			return nil, nil, nil
		},
	}

	h := NewBalanceHandler(ledger, nil)

	for _, role := range []domain.Role{domain.RoleShop, domain.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/account/balance", bytes.NewBufferString(`{"amount": "50"}`))
			req = withAccount(req, &domain.Account{ID: "acc-2", Role: role})

			rec := httptest.NewRecorder()
			h.TopUp(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestBalanceHandler_TopUpInsufficientFunds(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			return nil, nil, domain.ErrInsufficientFunds
		},
	}

	h := NewBalanceHandler(ledger, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/balance", bytes.NewBufferString(`{"amount": "50"}`))
	req = withAccount(req, &domain.Account{ID: "acc-1", Role: domain.RoleUser})

	rec := httptest.NewRecorder()
	h.TopUp(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBalanceHandler_Adjust(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			assert.Equal(t, "acc-7", input.AccountID)
			assert.Equal(t, domain.DirectionDebit, input.Direction)
			assert.Equal(t, "chargeback", input.Reason)
			assert.Equal(t, "admin-1", input.Actor)
			assert.True(t, input.ActorIsAdmin)

			return &domain.Account{ID: "acc-7"}, &domain.LedgerEntry{ID: "entry-2"}, nil
		},
	}

	h := NewBalanceHandler(ledger, nil)

	r := chi.NewRouter()
	r.Post("/accounts/{id}/balance", h.Adjust)

	body := bytes.NewBufferString(`{"amount": "25", "direction": "debit", "reason": "chargeback"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-7/balance", body)
	req = withAccount(req, &domain.Account{ID: "admin-1", Role: domain.RoleAdmin})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBalanceHandler_AdjustRequiresReason(t *testing.T) {
	h := NewBalanceHandler(&stubLedgerService{}, nil)

	r := chi.NewRouter()
	r.Post("/accounts/{id}/balance", h.Adjust)

	body := bytes.NewBufferString(`{"amount": "25", "direction": "debit"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-7/balance", body)
	req = withAccount(req, &domain.Account{ID: "admin-1", Role: domain.RoleAdmin})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceHandler_Reconciliation(t *testing.T) {
	ledger := &stubLedgerService{
		reconcileFunc: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			assert.Equal(t, "acc-1", accountID)
			return &usecase.ReconciliationResult{AccountID: accountID, IsReconciled: true}, nil
		},
		reconcileAllFunc: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
			return &usecase.ReconciliationReport{TotalAccounts: 3, ReconciledAccounts: 3}, nil
		},
	}

	h := NewBalanceHandler(ledger, nil)

	req := httptest.NewRequest(http.MethodGet, "/reconciliation?account_id=acc-1", nil)
	rec := httptest.NewRecorder()
	h.Reconciliation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var single dto.ReconciliationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&single))
	assert.True(t, single.IsReconciled)

	req = httptest.NewRequest(http.MethodGet, "/reconciliation", nil)
	rec = httptest.NewRecorder()
	h.Reconciliation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report dto.ReconciliationReportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, 3, report.TotalAccounts)
}
