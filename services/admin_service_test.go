package services

import (
	"context"
	"testing"

	"litfund-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (*AdminService, *fakeIdentityProvider) {
	t.Helper()
	db := newTestDB(t)
	provider := newFakeIdentityProvider()
	return NewAdminService(db, provider), provider
}

func TestIsAdminReflectsAllowList(t *testing.T) {
	svc, provider := newAdminFixture(t)
	ctx := context.Background()
	provider.addUser("uid-1", "boss@example.com", "secret-pw")

	ok, err := svc.IsAdmin("uid-1")
	require.NoError(t, err)
	assert.False(t, ok)

	admin, err := svc.Grant(ctx, "boss@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", admin.UserID)

	ok, err = svc.IsAdmin("uid-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// No caching: revocation takes effect on the very next check.
	require.NoError(t, svc.Revoke(ctx, admin.ID, false))
	ok, err = svc.IsAdmin("uid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAdminEmptyPrincipal(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ok, err := svc.IsAdmin("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantCreatesIdentityAccountWhenMissing(t *testing.T) {
	svc, provider := newAdminFixture(t)
	ctx := context.Background()

	// Without an initial password there is nothing to provision with.
	_, err := svc.Grant(ctx, "new@example.com", "")
	assert.ErrorIs(t, err, ErrNoIdentityAccount)

	admin, err := svc.Grant(ctx, "New@Example.com ", "initial-pw-123")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", admin.Email, "email stored normalized")

	user, err := provider.FindUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, user.ID, admin.UserID)
}

func TestGrantDuplicate(t *testing.T) {
	svc, provider := newAdminFixture(t)
	ctx := context.Background()
	provider.addUser("uid-1", "boss@example.com", "pw")

	_, err := svc.Grant(ctx, "boss@example.com", "")
	require.NoError(t, err)
	_, err = svc.Grant(ctx, "boss@example.com", "")
	assert.ErrorIs(t, err, ErrAlreadyAdmin)
}

func TestRevokeOptionallyDeletesAccount(t *testing.T) {
	svc, provider := newAdminFixture(t)
	ctx := context.Background()
	provider.addUser("uid-1", "boss@example.com", "pw")

	admin, err := svc.Grant(ctx, "boss@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, admin.ID, true))

	user, err := provider.FindUserByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Nil(t, user, "identity account removed alongside the entry")

	var n int64
	require.NoError(t, svc.DB.Model(&models.AdminUser{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	assert.ErrorIs(t, svc.Revoke(ctx, admin.ID, false), ErrNotFound)
}
