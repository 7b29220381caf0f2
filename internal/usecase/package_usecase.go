package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// PackageListPageSize is the fixed page size for admin package listings.
const PackageListPageSize = 20

// PackageUseCase handles package registration, listing, and authorized
// status transitions.
type PackageUseCase struct {
	packageRepo PackageRepository
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewPackageUseCase creates a new PackageUseCase.
func NewPackageUseCase(packageRepo PackageRepository, accountRepo AccountRepository, idGen IDGenerator) *PackageUseCase {
	return &PackageUseCase{
		packageRepo: packageRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreatePackageInput describes a new package registration.
type CreatePackageInput struct {
	TrackingNumber string
	Description    string
	OwnerID        string
	ShopID         string
	Status         domain.PackageStatus
}

// Create registers a new package. Admin only: the owner must be a
// regular user, the shop a shop account, and the tracking number
// globally unique.
func (uc *PackageUseCase) Create(ctx context.Context, input CreatePackageInput, actor *domain.Account) (*domain.Package, error) {
	if !actor.Role.CanManagePackages() {
		return nil, domain.ErrForbidden
	}

	if err := domain.ValidateTrackingNumber(input.TrackingNumber); err != nil {
		return nil, err
	}

	if !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := uc.validateOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	if err := uc.validateShop(ctx, input.ShopID); err != nil {
		return nil, err
	}

	if existing, err := uc.packageRepo.GetByTrackingNumber(ctx, input.TrackingNumber); err == nil && existing != nil {
		return nil, domain.ErrDuplicateTracking
	} else if err != nil && !errors.Is(err, domain.ErrPackageNotFound) {
		return nil, err
	}

	now := time.Now().UTC()

	pkg := &domain.Package{
		ID:             uc.idGen.Generate(),
		TrackingNumber: input.TrackingNumber,
		Description:    input.Description,
		Status:         input.Status,
		OwnerID:        input.OwnerID,
		ShopID:         input.ShopID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	return pkg, nil
}

// UpdateStatus moves a package to a new status. Allowed for the shop
// the package is assigned to, or the user who owns it.
func (uc *PackageUseCase) UpdateStatus(ctx context.Context, packageID string, newStatus domain.PackageStatus, actor *domain.Account) (*domain.Package, error) {
	if !newStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	pkg, err := uc.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if !pkg.StatusUpdatableBy(actor) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if err := uc.packageRepo.UpdateStatus(ctx, pkg.ID, newStatus, now); err != nil {
		return nil, err
	}

	pkg.Status = newStatus
	pkg.UpdatedAt = now

	return pkg, nil
}

// AdminUpdateInput describes an admin edit. Nil fields are unchanged.
type AdminUpdateInput struct {
	TrackingNumber *string
	Description    *string
	OwnerID        *string
	Status         *domain.PackageStatus
}

// AdminUpdate edits package fields. A changed tracking number is
// re-checked for uniqueness and a changed owner re-validated.
func (uc *PackageUseCase) AdminUpdate(ctx context.Context, packageID string, input AdminUpdateInput, actor *domain.Account) (*domain.Package, error) {
	if !actor.Role.CanManagePackages() {
		return nil, domain.ErrForbidden
	}

	pkg, err := uc.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if input.TrackingNumber != nil && *input.TrackingNumber != pkg.TrackingNumber {
		if err := domain.ValidateTrackingNumber(*input.TrackingNumber); err != nil {
			return nil, err
		}

		existing, err := uc.packageRepo.GetByTrackingNumber(ctx, *input.TrackingNumber)
		if err == nil && existing != nil && existing.ID != pkg.ID {
			return nil, domain.ErrDuplicateTracking
		} else if err != nil && !errors.Is(err, domain.ErrPackageNotFound) {
			return nil, err
		}

		pkg.TrackingNumber = *input.TrackingNumber
	}

	if input.Description != nil {
		pkg.Description = *input.Description
	}

	if input.OwnerID != nil && *input.OwnerID != pkg.OwnerID {
		if err := uc.validateOwner(ctx, *input.OwnerID); err != nil {
			return nil, err
		}

		pkg.OwnerID = *input.OwnerID
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}

		pkg.Status = *input.Status
	}

	pkg.UpdatedAt = time.Now().UTC()

	if err := uc.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}

	return pkg, nil
}

// Delete removes a package. Admin only, unconditional.
func (uc *PackageUseCase) Delete(ctx context.Context, packageID string, actor *domain.Account) error {
	if !actor.Role.CanManagePackages() {
		return domain.ErrForbidden
	}

	if _, err := uc.packageRepo.GetByID(ctx, packageID); err != nil {
		return err
	}

	return uc.packageRepo.Delete(ctx, packageID)
}

// PackagePage is one page of a filtered package listing.
type PackagePage struct {
	Packages   []*domain.Package
	Page       int
	TotalPages int
	TotalItems int64
	PageSize   int
}

// List returns a filtered, paginated package listing. Admin only.
func (uc *PackageUseCase) List(ctx context.Context, filter domain.PackageFilter, page int, actor *domain.Account) (*PackagePage, error) {
	if !actor.Role.CanManagePackages() {
		return nil, domain.ErrForbidden
	}

	if page < 1 {
		page = 1
	}

	offset := (page - 1) * PackageListPageSize

	packages, total, err := uc.packageRepo.List(ctx, filter, PackageListPageSize, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(PackageListPageSize)))

	return &PackagePage{
		Packages:   packages,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
		PageSize:   PackageListPageSize,
	}, nil
}

// ListForAccount returns the packages visible to a non-admin account:
// a shop sees packages assigned to it, a user sees their own.
func (uc *PackageUseCase) ListForAccount(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Package, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	if actor.Role == domain.RoleShop {
		return uc.packageRepo.ListByShop(ctx, actor.ID, limit, offset)
	}

	return uc.packageRepo.ListByOwner(ctx, actor.ID, limit, offset)
}

// Track looks a package up by tracking number. Public: used by the
// tracking page and QR codes.
func (uc *PackageUseCase) Track(ctx context.Context, trackingNumber string) (*domain.Package, error) {
	return uc.packageRepo.GetByTrackingNumber(ctx, trackingNumber)
}

// Get retrieves a package by ID.
func (uc *PackageUseCase) Get(ctx context.Context, id string) (*domain.Package, error) {
	return uc.packageRepo.GetByID(ctx, id)
}

func (uc *PackageUseCase) validateOwner(ctx context.Context, ownerID string) error {
	owner, err := uc.accountRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidOwner
		}
		return err
	}

	if owner.Role != domain.RoleUser {
		return domain.ErrInvalidOwner
	}

	return nil
}

func (uc *PackageUseCase) validateShop(ctx context.Context, shopID string) error {
	shop, err := uc.accountRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidShop
		}
		return err
	}

	if shop.Role != domain.RoleShop {
		return domain.ErrInvalidShop
	}

	return nil
}
