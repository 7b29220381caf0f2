package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relaypoint/relaypoint/internal/domain"
)

const packageColumns = `id, tracking_number, description, status, owner_id, shop_id, created_at, updated_at`

// PackageRepository implements usecase.PackageRepository.
type PackageRepository struct {
	db dbConn
}

// NewPackageRepository creates a new PackageRepository.
func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{db: pool}
}

func newPackageRepositoryWithDB(db dbConn) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create inserts a new package.
func (r *PackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	query := `
		INSERT INTO packages (id, tracking_number, description, status, owner_id, shop_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.TrackingNumber,
		pkg.Description,
		pkg.Status,
		pkg.OwnerID,
		pkg.ShopID,
		timeToPgTimestamptz(pkg.CreatedAt),
		timeToPgTimestamptz(pkg.UpdatedAt),
	)

	if isUniqueViolation(err) {
		return domain.ErrDuplicateTracking
	}

	return err
}

// GetByID retrieves a package by ID.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	return scanPackage(r.db.QueryRow(ctx, query, id))
}

// GetByTrackingNumber retrieves a package by its tracking number.
func (r *PackageRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE tracking_number = $1`

	return scanPackage(r.db.QueryRow(ctx, query, trackingNumber))
}

// Update rewrites a package's mutable fields.
func (r *PackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	query := `
		UPDATE packages
		SET tracking_number = $2, description = $3, status = $4, owner_id = $5, shop_id = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.TrackingNumber,
		pkg.Description,
		pkg.Status,
		pkg.OwnerID,
		pkg.ShopID,
		timeToPgTimestamptz(pkg.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateTracking
	}
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}

	return nil
}

// UpdateStatus changes only a package's status.
func (r *PackageRepository) UpdateStatus(ctx context.Context, id string, status domain.PackageStatus, updatedAt time.Time) error {
	query := `UPDATE packages SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}

	return nil
}

// Delete removes a package.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}

	return nil
}

// List returns a filtered page of packages newest-first, plus the
// total row count across all pages of the same filter.
func (r *PackageRepository) List(ctx context.Context, filter domain.PackageFilter, limit, offset int) ([]*domain.Package, int64, error) {
	where, args := buildPackageFilter(filter)

	countQuery := `SELECT COUNT(*) FROM packages` + where

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT `+packageColumns+` FROM packages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	packages, err := scanPackages(rows)
	if err != nil {
		return nil, 0, err
	}

	return packages, total, nil
}

// ListByOwner retrieves a user's own packages newest-first.
func (r *PackageRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPackages(rows)
}

// ListByShop retrieves the packages assigned to a shop newest-first.
func (r *PackageRepository) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE shop_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPackages(rows)
}

// buildPackageFilter translates the filter struct into a WHERE clause
// with positional arguments.
func buildPackageFilter(filter domain.PackageFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	arg := func(value any) int {
		args = append(args, value)
		return len(args)
	}

	if filter.TrackingNumber != "" {
		conditions = append(conditions, fmt.Sprintf("tracking_number ILIKE $%d", arg("%"+filter.TrackingNumber+"%")))
	}

	if filter.Description != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", arg("%"+filter.Description+"%")))
	}

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", arg(filter.OwnerID)))
	}

	if filter.ShopID != "" {
		conditions = append(conditions, fmt.Sprintf("shop_id = $%d", arg(filter.ShopID)))
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", arg(string(filter.Status))))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var (
		pkg       domain.Package
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&pkg.ID,
		&pkg.TrackingNumber,
		&pkg.Description,
		&pkg.Status,
		&pkg.OwnerID,
		&pkg.ShopID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}

		return nil, err
	}

	pkg.CreatedAt = createdAt.Time
	pkg.UpdatedAt = updatedAt.Time

	return &pkg, nil
}

func scanPackages(rows pgx.Rows) ([]*domain.Package, error) {
	var packages []*domain.Package

	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}

		packages = append(packages, pkg)
	}

	return packages, rows.Err()
}
