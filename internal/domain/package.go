package domain

import "time"

// PackageStatus is the position of a package in the forwarding pipeline.
type PackageStatus string

const (
	StatusPending   PackageStatus = "pending"
	StatusReceived  PackageStatus = "received"
	StatusInTransit PackageStatus = "in_transit"
	StatusDelivered PackageStatus = "delivered"
)

var validStatuses = map[PackageStatus]bool{
	StatusPending:   true,
	StatusReceived:  true,
	StatusInTransit: true,
	StatusDelivered: true,
}

// IsValid checks if the status is one of the four known values.
// Transition order is deliberately unconstrained: shops move packages
// back a step when a scan was wrong, so any known value is accepted.
func (s PackageStatus) IsValid() bool {
	return validStatuses[s]
}

// Package is a trackable shipment owned by a regular user and assigned
// to a partner shop. TrackingNumber is globally unique and immutable
// outside of admin edits.
type Package struct {
	ID             string
	TrackingNumber string
	Description    string
	Status         PackageStatus
	OwnerID        string
	ShopID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StatusUpdatableBy reports whether the acting account may change this
// package's status: the assigned shop, or the owning user.
func (p *Package) StatusUpdatableBy(actor *Account) bool {
	switch actor.Role {
	case RoleShop:
		return p.ShopID == actor.ID
	case RoleUser:
		return p.OwnerID == actor.ID
	default:
		return false
	}
}

// PackageFilter enumerates the optional listing filters. Zero values
// mean "no constraint"; TrackingNumber and Description are substring
// matches.
type PackageFilter struct {
	TrackingNumber string
	Description    string
	OwnerID        string
	ShopID         string
	Status         PackageStatus
}
