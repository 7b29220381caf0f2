package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/infrastructure/metrics"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// LedgerService defines the behavior needed by BalanceHandler.
type LedgerService interface {
	ApplyBalanceChange(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error)
	Reconcile(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// BalanceHandler handles balance changes and reconciliation.
type BalanceHandler struct {
	ledger  LedgerService
	metrics *metrics.Metrics
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(ledger LedgerService, m *metrics.Metrics) *BalanceHandler {
	return &BalanceHandler{ledger: ledger, metrics: m}
}

// TopUp credits the authenticated account's own balance.
func (h *BalanceHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if !actor.Role.CanTopUp() {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrForbidden.Error())
		return
	}

	var req dto.TopUpRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.apply(w, r, usecase.BalanceChangeInput{
		AccountID:    actor.ID,
		Amount:       req.Amount,
		Direction:    domain.DirectionCredit,
		Reason:       "top-up",
		Actor:        actor.ID,
		ActorIsAdmin: false,
	})
}

// Adjust credits or debits any account. Admin only; a reason is
// required.
func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.BalanceAdjustmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.apply(w, r, usecase.BalanceChangeInput{
		AccountID:    id,
		Amount:       req.Amount,
		Direction:    req.Direction,
		Reason:       req.Reason,
		Actor:        actor.ID,
		ActorIsAdmin: true,
	})
}

func (h *BalanceHandler) apply(w http.ResponseWriter, r *http.Request, input usecase.BalanceChangeInput) {
	start := time.Now()

	account, entry, err := h.ledger.ApplyBalanceChange(r.Context(), input)
	if err != nil {
		if h.metrics != nil {
			h.metrics.BalanceChangesRejected.WithLabelValues(rejectionReason(err)).Inc()
		}

		writeError(w, mapDomainError(err), "balance change failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.BalanceChangesApplied.WithLabelValues(string(input.Direction)).Inc()
		h.metrics.BalanceChangeDuration.Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, dto.BalanceChangeResponse{
		Account: dto.AccountFromDomain(account),
		Entry:   dto.EntryFromDomain(entry),
	})
}

// Reconciliation checks the ledger invariant, for one account when
// account_id is given, otherwise for all. Admin only.
func (h *BalanceHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		result, err := h.ledger.Reconcile(r.Context(), accountID)
		if err != nil {
			writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
		return
	}

	report, err := h.ledger.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

func rejectionReason(err error) string {
	switch mapDomainError(err) {
	case http.StatusUnprocessableEntity:
		return "insufficient_funds"
	case http.StatusNotFound:
		return "account_not_found"
	case http.StatusBadRequest:
		return "invalid_amount"
	default:
		return "internal"
	}
}
