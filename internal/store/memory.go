package store

import (
	"context"
	"slices"
	"sync"

	"carga-platform/internal/domain"
)

// Memory is an in-process Store. Records keep insertion order, which is the
// order reads return them in.
type Memory struct {
	mu        sync.RWMutex
	listings  []domain.Listing
	shipments []domain.Shipment
	carriers  []domain.Carrier
	profiles  []domain.Profile
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Store = (*Memory)(nil)

func (m *Memory) CountListings(_ context.Context, f ListingFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, l := range m.listings {
		if f.Match(l) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) FindListings(_ context.Context, f ListingFilter, skip, limit int) ([]domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Listing{}
	seen := 0
	for _, l := range m.listings {
		if !f.Match(l) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, cloneListing(l))
	}
	return out, nil
}

func (m *Memory) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.listings {
		if l.ID == id {
			c := cloneListing(l)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) InsertListings(_ context.Context, listings ...domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range listings {
		m.listings = append(m.listings, cloneListing(l))
	}
	return nil
}

func (m *Memory) DeleteListing(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.listings, func(l domain.Listing) bool { return l.ID == id })
	if i < 0 {
		return false, nil
	}
	m.listings = slices.Delete(m.listings, i, i+1)
	return true, nil
}

func (m *Memory) CountShipments(_ context.Context, f ShipmentFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, s := range m.shipments {
		if f.Match(s) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) FindShipments(_ context.Context, f ShipmentFilter, limit int) ([]domain.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Shipment{}
	for _, s := range m.shipments {
		if limit > 0 && len(out) >= limit {
			break
		}
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) InsertShipments(_ context.Context, shipments ...domain.Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments = append(m.shipments, shipments...)
	return nil
}

func (m *Memory) DeleteShipment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments = slices.DeleteFunc(m.shipments, func(s domain.Shipment) bool { return s.ID == id })
	return nil
}

func (m *Memory) CountCarriers(_ context.Context, f CarrierFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, c := range m.carriers {
		if f.Match(c) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) FindCarriers(_ context.Context, f CarrierFilter, limit int) ([]domain.Carrier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Carrier{}
	for _, c := range m.carriers {
		if limit > 0 && len(out) >= limit {
			break
		}
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) InsertCarriers(_ context.Context, carriers ...domain.Carrier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carriers = append(m.carriers, carriers...)
	return nil
}

func (m *Memory) GetProfileByExternalID(_ context.Context, externalID string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.ExternalID == externalID {
			c := p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) InsertProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.ExternalID == p.ExternalID {
			return ErrConflict
		}
	}
	m.profiles = append(m.profiles, *p)
	return nil
}

func (m *Memory) UpdateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.profiles {
		if existing.ExternalID == p.ExternalID {
			m.profiles[i].FullName = p.FullName
			m.profiles[i].Company = p.Company
			m.profiles[i].AccountType = p.AccountType
			m.profiles[i].Phone = p.Phone
			m.profiles[i].TaxID = p.TaxID
			m.profiles[i].AvatarURL = p.AvatarURL
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Close(context.Context) error { return nil }

func cloneListing(l domain.Listing) domain.Listing {
	l.OriginCoords = slices.Clone(l.OriginCoords)
	l.DestCoords = slices.Clone(l.DestCoords)
	return l
}
