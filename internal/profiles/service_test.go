package profiles

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
	"carga-platform/pkg/identity"
	"carga-platform/pkg/validation"
)

var caller = &identity.Identity{ID: "user-1", Email: "ana@logistica.com", Role: identity.DefaultRole}

func ptr(s string) *string { return &s }

func newTestService(s store.ProfileStore) *Service {
	return NewService(s, slog.New(slog.DiscardHandler))
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	mem := store.NewMemory()
	svc := newTestService(mem)
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, caller, ProfileInput{
		FullName: ptr("Ana García"),
		Company:  ptr("Logística Ana"),
		Phone:    ptr("+34600000000"),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "user-1", first.ExternalID)
	assert.Equal(t, "ana@logistica.com", first.Email)
	assert.Equal(t, domain.AccountShipper, first.AccountType)
	assert.False(t, first.CreatedAt.IsZero())

	second, created, err := svc.Upsert(ctx, caller, ProfileInput{
		FullName:    ptr("Ana G."),
		AccountType: ptr("carrier"),
		TaxID:       ptr("B12345678"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	stored, err := mem.GetProfileByExternalID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana G.", stored.FullName)
	assert.Equal(t, domain.AccountCarrier, stored.AccountType)
	assert.Equal(t, "B12345678", stored.TaxID)
	// Fields absent from the second call keep their value.
	assert.Equal(t, "Logística Ana", stored.Company)
	assert.Equal(t, "+34600000000", stored.Phone)
	assert.Equal(t, first.CreatedAt, stored.CreatedAt)
}

func TestUpsert_OneProfilePerIdentity(t *testing.T) {
	mem := store.NewMemory()
	svc := newTestService(mem)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.Upsert(ctx, caller, ProfileInput{Company: ptr("Acme")})
		require.NoError(t, err)
	}
	_, _, err := svc.Upsert(ctx, &identity.Identity{ID: "user-2", Email: "b@example.com"}, ProfileInput{})
	require.NoError(t, err)

	p1, err := mem.GetProfileByExternalID(ctx, "user-1")
	require.NoError(t, err)
	p2, err := mem.GetProfileByExternalID(ctx, "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.Equal(t, domain.AccountShipper, p2.AccountType)
}

func TestUpsert_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(store.NewMemory())

	_, _, err := svc.Upsert(context.Background(), caller, ProfileInput{AccountType: ptr("pirate")})
	assert.True(t, validation.Is(err))
}

// lateStore hides the existing profile from the first lookup, as if another
// request created it between our read and our insert.
type lateStore struct {
	*store.Memory
	lookups atomic.Int32
}

func (s *lateStore) GetProfileByExternalID(ctx context.Context, id string) (*domain.Profile, error) {
	if s.lookups.Add(1) == 1 {
		return nil, store.ErrNotFound
	}
	return s.Memory.GetProfileByExternalID(ctx, id)
}

func TestUpsert_ConflictFallsBackToUpdate(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.InsertProfile(ctx, &domain.Profile{
		ID: "p-1", ExternalID: "user-1", Email: caller.Email, Company: "Old", AccountType: domain.AccountBoth,
	}))

	p, created, err := newTestService(&lateStore{Memory: mem}).Upsert(ctx, caller, ProfileInput{Company: ptr("New")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "New", p.Company)
	assert.Equal(t, domain.AccountBoth, p.AccountType)
}

func TestMe(t *testing.T) {
	mem := store.NewMemory()
	svc := newTestService(mem)
	ctx := context.Background()

	resp, err := svc.Me(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, caller, resp.User)
	assert.Nil(t, resp.Profile)

	_, _, err = svc.Upsert(ctx, caller, ProfileInput{FullName: ptr("Ana")})
	require.NoError(t, err)

	resp, err = svc.Me(ctx, caller)
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Ana", resp.Profile.FullName)
}
