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

// BlogService defines the behavior needed by BlogHandler.
type BlogService interface {
	Create(ctx context.Context, input usecase.PostInput, actor *domain.Account) (*domain.BlogPost, error)
	Update(ctx context.Context, id string, input usecase.PostInput, actor *domain.Account) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string, actor *domain.Account) error
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error)
}

// BlogHandler handles blog post HTTP requests.
type BlogHandler struct {
	blog BlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blog BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

// List returns published posts newest-first.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context(),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list posts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": dto.BlogPostsFromDomain(posts),
	})
}

// Get retrieves a post by ID.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing post ID", "")
		return
	}

	post, err := h.blog.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get post", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BlogPostFromDomain(post))
}

// Create publishes a new post. Admin only.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.BlogPostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	post, err := h.blog.Create(r.Context(), req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create post", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BlogPostFromDomain(post))
}

// Update edits a post. Admin only.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.BlogPostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	post, err := h.blog.Update(r.Context(), id, req.ToUseCaseInput(), actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update post", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BlogPostFromDomain(post))
}

// Delete removes a post. Admin only.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.blog.Delete(r.Context(), id, actor); err != nil {
		writeError(w, mapDomainError(err), "failed to delete post", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
