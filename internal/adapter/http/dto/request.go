package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

var validate = validator.New()

// Validate runs struct-tag validation on a request.
func Validate(req any) error {
	return validate.Struct(req)
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=128"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
	Address  string `json:"address"  validate:"omitempty,max=256"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	return usecase.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UpdateAccountRequest represents an admin profile edit. Absent fields
// are left unchanged.
type UpdateAccountRequest struct {
	Email   *string `json:"email,omitempty"   validate:"omitempty,email"`
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=1,max=128"`
	Phone   *string `json:"phone,omitempty"   validate:"omitempty,max=32"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=256"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateInput {
	return usecase.UpdateInput{
		Email:   r.Email,
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// TopUpRequest represents a self-service balance top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// BalanceAdjustmentRequest represents an admin credit or debit.
type BalanceAdjustmentRequest struct {
	Amount    decimal.Decimal  `json:"amount"    validate:"required"`
	Direction domain.Direction `json:"direction" validate:"required,oneof=credit debit"`
	Reason    string           `json:"reason"    validate:"required,min=1,max=256"`
}

// PaymentWebhookRequest represents a verified gateway confirmation.
type PaymentWebhookRequest struct {
	EventID   string          `json:"event_id"   validate:"required,min=1,max=128"`
	AccountID string          `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"     validate:"required"`
	Reason    string          `json:"reason"     validate:"omitempty,max=256"`
}

// CreatePackageRequest represents an admin package registration.
type CreatePackageRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,min=4,max=64"`
	Description    string `json:"description"     validate:"omitempty,max=512"`
	OwnerID        string `json:"owner_id"        validate:"required"`
	ShopID         string `json:"shop_id"         validate:"required"`
	Status         string `json:"status"          validate:"omitempty,oneof=pending received in_transit delivered"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePackageRequest) ToUseCaseInput() usecase.CreatePackageInput {
	return usecase.CreatePackageInput{
		TrackingNumber: r.TrackingNumber,
		Description:    r.Description,
		OwnerID:        r.OwnerID,
		ShopID:         r.ShopID,
		Status:         domain.PackageStatus(r.Status),
	}
}

// UpdatePackageStatusRequest changes a package's status.
type UpdatePackageStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending received in_transit delivered"`
}

// AdminUpdatePackageRequest edits package fields. Absent fields are
// left unchanged.
type AdminUpdatePackageRequest struct {
	TrackingNumber *string `json:"tracking_number,omitempty" validate:"omitempty,min=4,max=64"`
	Description    *string `json:"description,omitempty"     validate:"omitempty,max=512"`
	OwnerID        *string `json:"owner_id,omitempty"`
	Status         *string `json:"status,omitempty"          validate:"omitempty,oneof=pending received in_transit delivered"`
}

// ToUseCaseInput converts to use case input.
func (r *AdminUpdatePackageRequest) ToUseCaseInput() usecase.AdminUpdateInput {
	input := usecase.AdminUpdateInput{
		TrackingNumber: r.TrackingNumber,
		Description:    r.Description,
		OwnerID:        r.OwnerID,
	}

	if r.Status != nil {
		status := domain.PackageStatus(*r.Status)
		input.Status = &status
	}

	return input
}

// BlogPostRequest represents a post create or update.
type BlogPostRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=256"`
	Content string `json:"content" validate:"required,min=1"`
}

// ToUseCaseInput converts to use case input.
func (r *BlogPostRequest) ToUseCaseInput() usecase.PostInput {
	return usecase.PostInput{
		Title:   r.Title,
		Content: r.Content,
	}
}
