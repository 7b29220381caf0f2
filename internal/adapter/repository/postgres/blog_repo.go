package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relaypoint/relaypoint/internal/domain"
)

const blogColumns = `id, title, content, author_id, created_at, updated_at`

// BlogRepository implements usecase.BlogRepository.
type BlogRepository struct {
	db dbConn
}

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: pool}
}

func newBlogRepositoryWithDB(db dbConn) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a new blog post.
func (r *BlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, title, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		timeToPgTimestamptz(post.CreatedAt),
		timeToPgTimestamptz(post.UpdatedAt),
	)

	return err
}

// GetByID retrieves a blog post by ID.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE id = $1`

	var (
		post      domain.BlogPost
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}

		return nil, err
	}

	post.CreatedAt = createdAt.Time
	post.UpdatedAt = updatedAt.Time

	return &post, nil
}

// Update rewrites a post's title and content.
func (r *BlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	query := `UPDATE blog_posts SET title = $2, content = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		timeToPgTimestamptz(post.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// Delete removes a blog post.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// List returns posts newest-first.
func (r *BlogRepository) List(ctx context.Context, limit, offset int) ([]*domain.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.BlogPost

	for rows.Next() {
		var (
			post      domain.BlogPost
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.AuthorID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		post.CreatedAt = createdAt.Time
		post.UpdatedAt = updatedAt.Time

		posts = append(posts, &post)
	}

	return posts, rows.Err()
}
