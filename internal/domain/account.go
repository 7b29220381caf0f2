package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is any principal known to the system: a regular customer, a
// partner shop that packages pass through, or an administrator. Every
// account carries a balance, though only customer balances ever move.
type Account struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	Address        string
	HashedPassword string
	Role           Role
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks if the account can be debited by amount without
// going below zero.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Deletable reports whether the account may be deleted. Admin accounts
// are never deleted.
func (a *Account) Deletable() bool {
	return a.Role != RoleAdmin
}

// Role represents an account's access level.
type Role string

const (
	// RoleUser is a regular customer who owns packages and a balance.
	RoleUser Role = "user"

	// RoleShop is a partner merchant; packages are assigned to shops.
	RoleShop Role = "shop"

	// RoleAdmin has full access to all operations.
	RoleAdmin Role = "admin"
)

var validRoles = map[Role]bool{
	RoleUser:  true,
	RoleShop:  true,
	RoleAdmin: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageAccounts checks if the role can create, edit, and delete accounts.
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// CanManagePackages checks if the role can create and delete packages.
func (r Role) CanManagePackages() bool {
	return r == RoleAdmin
}

// CanAdjustBalances checks if the role can credit or debit other accounts.
func (r Role) CanAdjustBalances() bool {
	return r == RoleAdmin
}

// CanTopUp checks if the role can add funds to its own balance.
// Shops do not hold customer balances.
func (r Role) CanTopUp() bool {
	return r == RoleUser
}
