package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
	"github.com/relaypoint/relaypoint/internal/usecase/mocks"
)

var (
	adminActor = &domain.Account{ID: "admin-1", Role: domain.RoleAdmin}
	userActor  = &domain.Account{ID: "user-1", Role: domain.RoleUser}
	shopActor  = &domain.Account{ID: "shop-1", Role: domain.RoleShop}
)

func newPackageFixture() (*usecase.PackageUseCase, *mocks.MockPackageRepository, *mocks.MockAccountRepository) {
	packageRepo := mocks.NewMockPackageRepository()
	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(&domain.Account{ID: "user-1", Role: domain.RoleUser})
	accountRepo.Seed(&domain.Account{ID: "shop-1", Role: domain.RoleShop})
	uc := usecase.NewPackageUseCase(packageRepo, accountRepo, mocks.NewMockIDGenerator())
	return uc, packageRepo, accountRepo
}

func TestPackageUseCase_Create(t *testing.T) {
	uc, _, _ := newPackageFixture()

	pkg, err := uc.Create(context.Background(), usecase.CreatePackageInput{
		TrackingNumber: "TRK-001",
		Description:    "headphones",
		OwnerID:        "user-1",
		ShopID:         "shop-1",
		Status:         domain.StatusPending,
	}, adminActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pkg.ID == "" {
		t.Error("expected generated package ID")
	}

	if pkg.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %s", pkg.Status)
	}
}

func TestPackageUseCase_CreateRejections(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreatePackageInput
		actor     *domain.Account
		errorType error
	}{
		{
			name: "non-admin actor",
			input: usecase.CreatePackageInput{
				TrackingNumber: "TRK-001", OwnerID: "user-1", ShopID: "shop-1", Status: domain.StatusPending,
			},
			actor:     userActor,
			errorType: domain.ErrForbidden,
		},
		{
			name: "empty tracking number",
			input: usecase.CreatePackageInput{
				TrackingNumber: "", OwnerID: "user-1", ShopID: "shop-1", Status: domain.StatusPending,
			},
			actor:     adminActor,
			errorType: domain.ErrInvalidTracking,
		},
		{
			name: "unknown status",
			input: usecase.CreatePackageInput{
				TrackingNumber: "TRK-001", OwnerID: "user-1", ShopID: "shop-1", Status: domain.PackageStatus("lost"),
			},
			actor:     adminActor,
			errorType: domain.ErrInvalidStatus,
		},
		{
			name: "owner does not exist",
			input: usecase.CreatePackageInput{
				TrackingNumber: "TRK-001", OwnerID: "ghost", ShopID: "shop-1", Status: domain.StatusPending,
			},
			actor:     adminActor,
			errorType: domain.ErrInvalidOwner,
		},
		{
			name: "owner is a shop account",
			input: usecase.CreatePackageInput{
				TrackingNumber: "TRK-001", OwnerID: "shop-1", ShopID: "shop-1", Status: domain.StatusPending,
			},
			actor:     adminActor,
			errorType: domain.ErrInvalidOwner,
		},
		{
			name: "shop is a user account",
			input: usecase.CreatePackageInput{
				TrackingNumber: "TRK-001", OwnerID: "user-1", ShopID: "user-1", Status: domain.StatusPending,
			},
			actor:     adminActor,
			errorType: domain.ErrInvalidShop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newPackageFixture()
			_, err := uc.Create(context.Background(), tt.input, tt.actor)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestPackageUseCase_CreateDuplicateTracking(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()

	packageRepo.Seed(&domain.Package{ID: "pkg-1", TrackingNumber: "TRK-001"})

	_, err := uc.Create(context.Background(), usecase.CreatePackageInput{
		TrackingNumber: "TRK-001",
		OwnerID:        "user-1",
		ShopID:         "shop-1",
		Status:         domain.StatusPending,
	}, adminActor)
	if !errors.Is(err, domain.ErrDuplicateTracking) {
		t.Fatalf("expected ErrDuplicateTracking, got %v", err)
	}
}

func TestPackageUseCase_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		actor     *domain.Account
		errorType error
	}{
		{"assigned shop", shopActor, nil},
		{"owning user", userActor, nil},
		{"unrelated shop", &domain.Account{ID: "shop-2", Role: domain.RoleShop}, domain.ErrForbidden},
		{"unrelated user", &domain.Account{ID: "user-2", Role: domain.RoleUser}, domain.ErrForbidden},
		{"admin", adminActor, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, packageRepo, _ := newPackageFixture()
			packageRepo.Seed(&domain.Package{
				ID:      "pkg-1",
				OwnerID: "user-1",
				ShopID:  "shop-1",
				Status:  domain.StatusPending,
			})

			pkg, err := uc.UpdateStatus(context.Background(), "pkg-1", domain.StatusDelivered, tt.actor)
			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if pkg.Status != domain.StatusDelivered {
				t.Errorf("expected delivered, got %s", pkg.Status)
			}
		})
	}
}

func TestPackageUseCase_UpdateStatusInvalid(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()
	packageRepo.Seed(&domain.Package{ID: "pkg-1", OwnerID: "user-1", ShopID: "shop-1"})

	if _, err := uc.UpdateStatus(context.Background(), "pkg-1", domain.PackageStatus("teleported"), userActor); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := uc.UpdateStatus(context.Background(), "missing", domain.StatusDelivered, userActor); !errors.Is(err, domain.ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestPackageUseCase_AdminUpdate(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()

	packageRepo.Seed(&domain.Package{
		ID:             "pkg-1",
		TrackingNumber: "TRK-001",
		Description:    "old",
		OwnerID:        "user-1",
		ShopID:         "shop-1",
		Status:         domain.StatusPending,
	})
	packageRepo.Seed(&domain.Package{ID: "pkg-2", TrackingNumber: "TRK-002"})

	newDesc := "new description"
	newStatus := domain.StatusInTransit
	pkg, err := uc.AdminUpdate(context.Background(), "pkg-1", usecase.AdminUpdateInput{
		Description: &newDesc,
		Status:      &newStatus,
	}, adminActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pkg.Description != newDesc || pkg.Status != newStatus {
		t.Errorf("update not applied: %+v", pkg)
	}

	// Tracking number collisions with another package are rejected.
	taken := "TRK-002"
	if _, err := uc.AdminUpdate(context.Background(), "pkg-1", usecase.AdminUpdateInput{TrackingNumber: &taken}, adminActor); !errors.Is(err, domain.ErrDuplicateTracking) {
		t.Errorf("expected ErrDuplicateTracking, got %v", err)
	}

	if _, err := uc.AdminUpdate(context.Background(), "pkg-1", usecase.AdminUpdateInput{}, userActor); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestPackageUseCase_Delete(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()
	packageRepo.Seed(&domain.Package{ID: "pkg-1"})

	if err := uc.Delete(context.Background(), "pkg-1", userActor); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if err := uc.Delete(context.Background(), "pkg-1", adminActor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Delete(context.Background(), "pkg-1", adminActor); !errors.Is(err, domain.ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound after delete, got %v", err)
	}
}

func TestPackageUseCase_ListPagination(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()

	var gotLimit, gotOffset int
	packageRepo.ListFunc = func(ctx context.Context, filter domain.PackageFilter, limit, offset int) ([]*domain.Package, int64, error) {
		gotLimit, gotOffset = limit, offset
		return make([]*domain.Package, 20), 45, nil
	}

	page, err := uc.List(context.Background(), domain.PackageFilter{}, 2, adminActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLimit != usecase.PackageListPageSize || gotOffset != usecase.PackageListPageSize {
		t.Errorf("expected limit %d offset %d, got %d %d", usecase.PackageListPageSize, usecase.PackageListPageSize, gotLimit, gotOffset)
	}

	if page.TotalPages != 3 {
		t.Errorf("45 items at 20 per page is 3 pages, got %d", page.TotalPages)
	}

	if page.TotalItems != 45 || page.Page != 2 {
		t.Errorf("unexpected page metadata: %+v", page)
	}

	// Page numbers below 1 clamp to the first page.
	if _, err := uc.List(context.Background(), domain.PackageFilter{}, 0, adminActor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOffset != 0 {
		t.Errorf("page 0 should clamp to offset 0, got %d", gotOffset)
	}

	if _, err := uc.List(context.Background(), domain.PackageFilter{}, 1, shopActor); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for shop, got %v", err)
	}
}

func TestPackageUseCase_ListForAccount(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()

	packageRepo.Seed(&domain.Package{ID: "pkg-1", OwnerID: "user-1", ShopID: "shop-1"})
	packageRepo.Seed(&domain.Package{ID: "pkg-2", OwnerID: "user-2", ShopID: "shop-1"})
	packageRepo.Seed(&domain.Package{ID: "pkg-3", OwnerID: "user-1", ShopID: "shop-2"})

	mine, err := uc.ListForAccount(context.Background(), userActor, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("user-1 owns 2 packages, got %d", len(mine))
	}

	assigned, err := uc.ListForAccount(context.Background(), shopActor, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assigned) != 2 {
		t.Errorf("shop-1 is assigned 2 packages, got %d", len(assigned))
	}
}

func TestPackageUseCase_Track(t *testing.T) {
	uc, packageRepo, _ := newPackageFixture()
	packageRepo.Seed(&domain.Package{ID: "pkg-1", TrackingNumber: "TRK-001", Status: domain.StatusInTransit})

	pkg, err := uc.Track(context.Background(), "TRK-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.Status != domain.StatusInTransit {
		t.Errorf("expected in_transit, got %s", pkg.Status)
	}

	if _, err := uc.Track(context.Background(), "TRK-404"); !errors.Is(err, domain.ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
}
