package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/infrastructure/metrics"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// PackageService defines the behavior needed by PackageHandler.
type PackageService interface {
	Create(ctx context.Context, input usecase.CreatePackageInput, actor *domain.Account) (*domain.Package, error)
	Get(ctx context.Context, id string) (*domain.Package, error)
	UpdateStatus(ctx context.Context, packageID string, newStatus domain.PackageStatus, actor *domain.Account) (*domain.Package, error)
	AdminUpdate(ctx context.Context, packageID string, input usecase.AdminUpdateInput, actor *domain.Account) (*domain.Package, error)
	Delete(ctx context.Context, packageID string, actor *domain.Account) error
	List(ctx context.Context, filter domain.PackageFilter, page int, actor *domain.Account) (*usecase.PackagePage, error)
	ListForAccount(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Package, error)
}

// PackageHandler handles package registry HTTP requests.
type PackageHandler struct {
	packages PackageService
	metrics  *metrics.Metrics
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(packages PackageService, m *metrics.Metrics) *PackageHandler {
	return &PackageHandler{packages: packages, metrics: m}
}

// ListMine lists the authenticated account's packages. Shops see the
// packages assigned to them, users their own.
func (h *PackageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	packages, err := h.packages.ListForAccount(r.Context(), actor,
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list packages", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"packages": dto.PackagesFromDomain(packages),
	})
}

// UpdateStatus changes a package's status. Allowed for the assigned
// shop or the owning user.
func (h *PackageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.UpdatePackageStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pkg, err := h.packages.UpdateStatus(r.Context(), id, domain.PackageStatus(req.Status), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update status", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PackageStatusUpdates.WithLabelValues(string(pkg.Status)).Inc()
	}

	writeJSON(w, http.StatusOK, dto.PackageFromDomain(pkg))
}

// List returns a filtered page of all packages. Admin only.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	q := r.URL.Query()
	filter := domain.PackageFilter{
		TrackingNumber: q.Get("tracking_number"),
		Description:    q.Get("description"),
		OwnerID:        q.Get("owner_id"),
		ShopID:         q.Get("shop_id"),
		Status:         domain.PackageStatus(q.Get("status")),
	}

	page, err := h.packages.List(r.Context(), filter, parseIntQuery(r, "page", 1), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list packages", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PackagePageFromUseCase(page))
}

// Create registers a new package. Admin only.
func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreatePackageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pkg, err := h.packages.Create(r.Context(), req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create package", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PackagesCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.PackageFromDomain(pkg))
}

// Get retrieves a package by ID. Admin only.
func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing package ID", "")
		return
	}

	pkg, err := h.packages.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get package", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PackageFromDomain(pkg))
}

// Update edits package fields. Admin only.
func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.AdminUpdatePackageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pkg, err := h.packages.AdminUpdate(r.Context(), id, req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update package", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PackageFromDomain(pkg))
}

// Delete removes a package. Admin only.
func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.packages.Delete(r.Context(), id, actor); err != nil {
		writeError(w, mapDomainError(err), "failed to delete package", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PackagesDeleted.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
