package memory

import (
	"context"
	"testing"

	"userhub/internal/domain/profile"
	"userhub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	u := user.New("Kobe Bryant", "kobe24@example.com", "+11234567890", user.TierPro, "hash")
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	got, err = repo.FindByEmail(ctx, "KOBE24@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.FindByPhone(ctx, "+11234567890")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), user.ErrNotFound)
}

func TestUserRepository_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, email := range emails {
		u := user.New("User", email, "+1123456789"+string(rune('0'+i)), user.TierFree, "hash")
		require.NoError(t, repo.Save(ctx, u))
	}

	users, err := repo.List(ctx, user.Filter{})
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, emails[i], u.Email)
	}
}

func TestUserRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	require.NoError(t, repo.Save(ctx, user.New("Kobe", "kobe@example.com", "+11111111111", user.TierPro, "h")))
	require.NoError(t, repo.Save(ctx, user.New("LeBron", "lebron@example.com", "+12222222222", user.TierProMax, "h")))

	users, err := repo.List(ctx, user.Filter{MembershipTier: user.TierProMax})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "LeBron", users[0].Name)

	users, err = repo.List(ctx, user.Filter{Email: "KOBE@example.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Kobe", users[0].Name)
}

func TestUserRepository_SaveReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	u := user.New("Kobe", "kobe@example.com", "+11111111111", user.TierPro, "h")
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kobe", again.Name)
}

func TestDeleteUser_CascadesToProfile(t *testing.T) {
	ctx := context.Background()
	store := New()

	u := user.New("Kobe", "kobe@example.com", "+11111111111", user.TierPro, "h")
	require.NoError(t, store.Users().Save(ctx, u))

	p := profile.New(u.ID, "mamba_24", "Black Mamba", "", "", []string{"street"})
	require.NoError(t, store.Profiles().Save(ctx, p))

	require.NoError(t, store.Users().Delete(ctx, u.ID))

	_, err := store.Profiles().FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, profile.ErrNotFound)
	_, err = store.Profiles().FindByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestProfileRepository_OneProfilePerUserLookup(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := store.Profiles()

	userID := uuid.New()
	p := profile.New(userID, "mamba_24", "", "", "", nil)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = repo.FindByUsername(ctx, "MAMBA_24")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProfileRepository_DeleteClearsUserMapping(t *testing.T) {
	ctx := context.Background()
	repo := New().Profiles()

	userID := uuid.New()
	p := profile.New(userID, "mamba_24", "", "", "", nil)
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByUserID(ctx, userID)
	assert.ErrorIs(t, err, profile.ErrNotFound)

	// The user is free to create a new profile afterwards.
	require.NoError(t, repo.Save(ctx, profile.New(userID, "new_handle", "", "", "", nil)))
}

func TestProfileRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := New().Profiles()

	u1, u2 := uuid.New(), uuid.New()
	require.NoError(t, repo.Save(ctx, profile.New(u1, "mamba_24", "", "", "", nil)))
	require.NoError(t, repo.Save(ctx, profile.New(u2, "king_james", "", "", "", nil)))

	profiles, err := repo.List(ctx, profile.Filter{UserID: u2})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "king_james", profiles[0].Username)

	profiles, err = repo.List(ctx, profile.Filter{Username: "Mamba_24"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, u1, profiles[0].UserID)
}
