package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// ErrEmptyPost is returned when a blog post has no title or content.
var ErrEmptyPost = errors.New("blog post needs a title and content")

// BlogUseCase handles announcement posts. Mutations are admin only;
// reads are public.
type BlogUseCase struct {
	blogRepo BlogRepository
	idGen    IDGenerator
}

// NewBlogUseCase creates a new BlogUseCase.
func NewBlogUseCase(blogRepo BlogRepository, idGen IDGenerator) *BlogUseCase {
	return &BlogUseCase{
		blogRepo: blogRepo,
		idGen:    idGen,
	}
}

// PostInput carries a post's editable fields.
type PostInput struct {
	Title   string
	Content string
}

// Create publishes a new post.
func (uc *BlogUseCase) Create(ctx context.Context, input PostInput, actor *domain.Account) (*domain.BlogPost, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrEmptyPost
	}

	now := time.Now().UTC()

	post := &domain.BlogPost{
		ID:        uc.idGen.Generate(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.blogRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Update edits an existing post.
func (uc *BlogUseCase) Update(ctx context.Context, id string, input PostInput, actor *domain.Account) (*domain.BlogPost, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	post, err := uc.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrEmptyPost
	}

	post.Title = input.Title
	post.Content = input.Content
	post.UpdatedAt = time.Now().UTC()

	if err := uc.blogRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes a post.
func (uc *BlogUseCase) Delete(ctx context.Context, id string, actor *domain.Account) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if _, err := uc.blogRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.blogRepo.Delete(ctx, id)
}

// Get retrieves a post by ID.
func (uc *BlogUseCase) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	return uc.blogRepo.GetByID(ctx, id)
}

// List returns posts newest-first.
func (uc *BlogUseCase) List(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.blogRepo.List(ctx, limit, offset)
}
