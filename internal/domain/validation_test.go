package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"user@example.com", "a.b+c@sub.domain.org", "UPPER@EXAMPLE.COM"}
	for _, email := range valid {
		if err := domain.ValidateEmail(email); err != nil {
			t.Errorf("%q should be valid, got %v", email, err)
		}
	}

	invalid := []string{"", "plain", "missing@tld", "@example.com", "two@@example.com"}
	for _, email := range invalid {
		if err := domain.ValidateEmail(email); !errors.Is(err, domain.ErrInvalidEmail) {
			t.Errorf("%q should be invalid, got %v", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := domain.ValidatePassword("longenough"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := domain.ValidatePassword("short"); !errors.Is(err, domain.ErrPasswordTooWeak) {
		t.Errorf("expected ErrPasswordTooWeak, got %v", err)
	}

	if err := domain.ValidatePassword(strings.Repeat("x", 129)); !errors.Is(err, domain.ErrPasswordTooWeak) {
		t.Errorf("expected ErrPasswordTooWeak for oversized password, got %v", err)
	}
}

func TestValidateTrackingNumber(t *testing.T) {
	t.Parallel()

	valid := []string{"RP-2024-0001", "ABCD", "1234567890"}
	for _, tn := range valid {
		if err := domain.ValidateTrackingNumber(tn); err != nil {
			t.Errorf("%q should be valid, got %v", tn, err)
		}
	}

	invalid := []string{"", "abc", "has space", "under_score", strings.Repeat("A", 65)}
	for _, tn := range invalid {
		if err := domain.ValidateTrackingNumber(tn); !errors.Is(err, domain.ErrInvalidTracking) {
			t.Errorf("%q should be invalid, got %v", tn, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateAmount(decimal.NewFromFloat(0.01)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := domain.ValidateAmount(decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("zero should be invalid, got %v", err)
	}

	if err := domain.ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative should be invalid, got %v", err)
	}

	if err := domain.ValidateAmount(decimal.NewFromInt(1000001)); !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 50, 0},
		{-1, -5, 50, 0},
		{2000, 10, 1000, 10},
		{25, 100, 25, 100},
	}

	for _, tt := range tests {
		limit, offset := domain.ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
