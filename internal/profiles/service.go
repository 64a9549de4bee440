package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
	"carga-platform/pkg/identity"
	"carga-platform/pkg/validation"
)

// Service contains profile business logic.
type Service struct {
	store  store.ProfileStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a profile service.
func NewService(s store.ProfileStore, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger, now: time.Now}
}

// Me returns the caller with their stored profile, if any.
func (s *Service) Me(ctx context.Context, caller *identity.Identity) (*MeResponse, error) {
	p, err := s.store.GetProfileByExternalID(ctx, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return &MeResponse{User: caller}, nil
	}
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: caller, Profile: p}, nil
}

// Upsert merges in over the caller's profile, creating it on first use.
// created reports which of the two happened.
func (s *Service) Upsert(ctx context.Context, caller *identity.Identity, in ProfileInput) (p *domain.Profile, created bool, err error) {
	if err := validation.Struct(in); err != nil {
		return nil, false, err
	}

	p, err = s.update(ctx, caller.ID, in)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	p = &domain.Profile{
		ID:          uuid.NewString(),
		ExternalID:  caller.ID,
		Email:       caller.Email,
		AccountType: domain.AccountShipper,
		CreatedAt:   s.now().UTC(),
	}
	in.applyTo(p)

	err = s.store.InsertProfile(ctx, p)
	if errors.Is(err, store.ErrConflict) {
		// A concurrent first save for the same identity won; merge into it.
		s.logger.Info("profile created concurrently, updating instead", "supabase_id", caller.ID)
		p, err = s.update(ctx, caller.ID, in)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert profile: %w", err)
	}
	return p, true, nil
}

func (s *Service) update(ctx context.Context, externalID string, in ProfileInput) (*domain.Profile, error) {
	p, err := s.store.GetProfileByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	in.applyTo(p)
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
