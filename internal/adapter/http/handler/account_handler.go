package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	ListWithCounts(ctx context.Context, input usecase.ListInput, actor *domain.Account) ([]*usecase.AccountSummary, error)
	CreateShop(ctx context.Context, input usecase.RegisterInput, actor *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id string, input usecase.UpdateInput, actor *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, id string, actor *domain.Account) error
}

// StatementService provides read access to ledger history.
type StatementService interface {
	Statement(ctx context.Context, input usecase.StatementInput) ([]*domain.LedgerEntry, error)
}

// AccountHandler handles account profile and admin account management.
type AccountHandler struct {
	accounts AccountService
	ledger   StatementService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, ledger StatementService) *AccountHandler {
	return &AccountHandler{accounts: accounts, ledger: ledger}
}

// profileResponse is an account with its recent ledger history.
type profileResponse struct {
	Account *dto.AccountResponse `json:"account"`
	Entries []*dto.EntryResponse `json:"entries"`
}

// Profile returns the authenticated account with its recent statement.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	account, err := h.accounts.Get(r.Context(), actor.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load profile", err.Error())
		return
	}

	entries, err := h.ledger.Statement(r.Context(), usecase.StatementInput{
		AccountID: actor.ID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Account: dto.AccountFromDomain(account),
		Entries: dto.EntriesFromDomain(entries),
	})
}

// List lists accounts, optionally filtered by role. Admin only.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	summaries, err := h.accounts.ListWithCounts(r.Context(), usecase.ListInput{
		Role:   domain.Role(r.URL.Query().Get("role")),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": dto.AccountSummariesFromUseCase(summaries),
		"total":    len(summaries),
	})
}

// Get retrieves an account by ID. Admin only.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// CreateShop creates a partner shop account. Admin only.
func (h *AccountHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accounts.CreateShop(r.Context(), req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create shop", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Update edits an account's profile fields. Admin only.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.UpdateAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accounts.Update(r.Context(), id, req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an account. Admin only; admin accounts are protected.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.accounts.Delete(r.Context(), id, actor); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Statement returns any account's ledger history. Admin only.
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	entries, err := h.ledger.Statement(r.Context(), usecase.StatementInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementResponse{
		AccountID: id,
		Entries:   dto.EntriesFromDomain(entries),
	})
}
