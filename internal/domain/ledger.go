package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the sign of a balance change.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// IsValid checks if the direction is known.
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// LedgerEntry is a single append-only record of a balance change.
// Entries are never mutated or deleted; a correction is a new entry in
// the opposite direction.
//
// Sequence is assigned by the database in commit order, so replaying
// entries for an account in sequence order reproduces every historical
// balance. BalanceAfter is written in the same transaction as the
// balance update, which keeps statements consistent even while other
// writes are committing.
type LedgerEntry struct {
	ID           string
	AccountID    string
	Sequence     int64
	Amount       decimal.Decimal
	Direction    Direction
	Reason       string
	Actor        string
	ActorIsAdmin bool
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Delta returns the signed effect of the entry on the account balance.
func (e *LedgerEntry) Delta() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
