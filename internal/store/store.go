// Package store is the persistence facade over the listing, shipment,
// carrier and profile collections. Implementations live in the memory,
// postgres and mongo drivers; services depend only on the interfaces here.
package store

import (
	"context"
	"errors"

	"carga-platform/internal/domain"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a unique key.
	ErrConflict = errors.New("record already exists")
)

// ListingFilter narrows listing reads. A zero Category matches all.
type ListingFilter struct {
	Category domain.Category
}

// Match reports whether l passes the filter.
func (f ListingFilter) Match(l domain.Listing) bool {
	return f.Category == "" || l.Category == f.Category
}

// ShipmentFilter narrows shipment reads. Status is an exact match,
// ExcludeStatus a not-equal; zero values are ignored.
type ShipmentFilter struct {
	Status        domain.ShipmentStatus
	ExcludeStatus domain.ShipmentStatus
}

// Match reports whether s passes the filter.
func (f ShipmentFilter) Match(s domain.Shipment) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.ExcludeStatus != "" && s.Status == f.ExcludeStatus {
		return false
	}
	return true
}

// CarrierFilter narrows carrier reads.
type CarrierFilter struct {
	ExcludeAvailability domain.Availability
}

// Match reports whether c passes the filter.
func (f CarrierFilter) Match(c domain.Carrier) bool {
	return f.ExcludeAvailability == "" || c.Availability != f.ExcludeAvailability
}

type ListingStore interface {
	CountListings(ctx context.Context, f ListingFilter) (int64, error)
	FindListings(ctx context.Context, f ListingFilter, skip, limit int) ([]domain.Listing, error)
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	InsertListings(ctx context.Context, listings ...domain.Listing) error
	// DeleteListing removes the listing with the given id and reports whether
	// this call was the one that removed it.
	DeleteListing(ctx context.Context, id string) (bool, error)
}

type ShipmentStore interface {
	CountShipments(ctx context.Context, f ShipmentFilter) (int64, error)
	FindShipments(ctx context.Context, f ShipmentFilter, limit int) ([]domain.Shipment, error)
	InsertShipments(ctx context.Context, shipments ...domain.Shipment) error
	DeleteShipment(ctx context.Context, id string) error
}

type CarrierStore interface {
	CountCarriers(ctx context.Context, f CarrierFilter) (int64, error)
	FindCarriers(ctx context.Context, f CarrierFilter, limit int) ([]domain.Carrier, error)
	InsertCarriers(ctx context.Context, carriers ...domain.Carrier) error
}

type ProfileStore interface {
	GetProfileByExternalID(ctx context.Context, externalID string) (*domain.Profile, error)
	InsertProfile(ctx context.Context, p *domain.Profile) error
	// UpdateProfile overwrites the editable fields of the profile keyed by
	// p.ExternalID. Id, email and creation time are never changed.
	UpdateProfile(ctx context.Context, p *domain.Profile) error
}

// Store is the full record store a process opens at startup and closes at
// shutdown.
type Store interface {
	ListingStore
	ShipmentStore
	CarrierStore
	ProfileStore
	Close(ctx context.Context) error
}
