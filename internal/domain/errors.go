package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")

	// Account errors
	ErrDuplicateEmail   = errors.New("email is already registered")
	ErrAccountProtected = errors.New("admin accounts cannot be deleted")

	// Package errors
	ErrPackageNotFound   = errors.New("package not found")
	ErrDuplicateTracking = errors.New("tracking number already exists")
	ErrInvalidOwner      = errors.New("owner must be a regular user account")
	ErrInvalidShop       = errors.New("shop must be a shop account")
	ErrInvalidStatus     = errors.New("unknown package status")

	// Authorization errors
	ErrForbidden    = errors.New("operation not permitted for this account")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Blog errors
	ErrPostNotFound = errors.New("blog post not found")
)
