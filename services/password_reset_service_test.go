package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"litfund-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminEmail  = "admin@example.com"
	adminUserID = "uid-admin-1"
)

func newResetFixture(t *testing.T) (*PasswordResetService, *gorm.DB, *fakeIdentityProvider, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	provider := newFakeIdentityProvider()
	provider.addUser(adminUserID, adminEmail, "original-pass")
	require.NoError(t, db.Create(&models.AdminUser{UserID: adminUserID, Email: adminEmail}).Error)

	mailer := &fakeMailer{}
	svc := NewPasswordResetService(db, provider, mailer)
	return svc, db, provider, mailer
}

func issueToken(t *testing.T, svc *PasswordResetService, db *gorm.DB) models.PasswordReset {
	t.Helper()
	require.NoError(t, svc.RequestReset(context.Background(), adminEmail, "https://litfund.example"))
	var reset models.PasswordReset
	require.NoError(t, db.Order("id DESC").First(&reset).Error)
	return reset
}

func TestRequestResetIssuesTokenForAdmin(t *testing.T) {
	svc, db, _, mailer := newResetFixture(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	require.NoError(t, svc.RequestReset(context.Background(), adminEmail, "https://litfund.example/"))

	var reset models.PasswordReset
	require.NoError(t, db.First(&reset).Error)
	assert.Equal(t, adminEmail, reset.Email)
	assert.Len(t, reset.Token, 64, "32 random bytes hex-encoded")
	assert.False(t, reset.Used)
	assert.True(t, reset.ExpiresAt.Equal(now.Add(time.Hour)))

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, adminEmail, mailer.Sent[0].To)
	assert.Equal(t, "https://litfund.example/admin/reset-password?token="+reset.Token, mailer.Sent[0].Link)
}

func TestRequestResetNormalizesEmail(t *testing.T) {
	svc, db, _, mailer := newResetFixture(t)

	require.NoError(t, svc.RequestReset(context.Background(), "  Admin@Example.COM  ", "https://litfund.example"))

	var reset models.PasswordReset
	require.NoError(t, db.First(&reset).Error)
	assert.Equal(t, adminEmail, reset.Email)
	assert.Len(t, mailer.Sent, 1)
}

func TestRequestResetNonAdminIsSilentlyIgnored(t *testing.T) {
	svc, db, _, mailer := newResetFixture(t)

	// Same nil result as the admin case: the caller cannot tell whether
	// the address is on the allow-list.
	require.NoError(t, svc.RequestReset(context.Background(), "notanadmin@example.com", "https://litfund.example"))

	var n int64
	require.NoError(t, db.Model(&models.PasswordReset{}).Count(&n).Error)
	assert.EqualValues(t, 0, n, "no token row for a non-admin email")
	assert.Empty(t, mailer.Sent, "no email for a non-admin email")
}

func TestRequestResetEmptyEmail(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	assert.ErrorIs(t, svc.RequestReset(context.Background(), "   ", "https://litfund.example"), ErrEmailRequired)
}

func TestRequestResetMailFailureKeepsTokenValid(t *testing.T) {
	svc, db, _, mailer := newResetFixture(t)
	mailer.Fail = true

	err := svc.RequestReset(context.Background(), adminEmail, "https://litfund.example")
	assert.ErrorIs(t, err, ErrMailSend)

	// The caller learns delivery failed, but the token stays redeemable.
	var reset models.PasswordReset
	require.NoError(t, db.First(&reset).Error)
	require.NoError(t, svc.VerifyReset(context.Background(), reset.Token, "brand-new-password"))
}

func TestVerifyResetSingleUse(t *testing.T) {
	svc, db, provider, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	require.NoError(t, svc.VerifyReset(context.Background(), reset.Token, "pass1234"))
	assert.Equal(t, "pass1234", provider.passwords[adminUserID])

	var after models.PasswordReset
	require.NoError(t, db.First(&after, reset.ID).Error)
	assert.True(t, after.Used)

	// Second redemption fails with the generic error; the already-used and
	// never-existed cases are indistinguishable.
	err := svc.VerifyReset(context.Background(), reset.Token, "different-pass")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "pass1234", provider.passwords[adminUserID])
}

func TestVerifyResetUnknownToken(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	err := svc.VerifyReset(context.Background(), strings.Repeat("ab", 32), "pass1234")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyResetExpiredToken(t *testing.T) {
	svc, db, provider, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	// 1 hour and 1 second past issuance.
	svc.Now = func() time.Time { return reset.ExpiresAt.Add(time.Second) }

	err := svc.VerifyReset(context.Background(), reset.Token, "pass1234")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "original-pass", provider.passwords[adminUserID], "credential unchanged")

	var after models.PasswordReset
	require.NoError(t, db.First(&after, reset.ID).Error)
	assert.False(t, after.Used)
}

func TestVerifyResetExactlyAtExpiry(t *testing.T) {
	svc, db, _, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	svc.Now = func() time.Time { return reset.ExpiresAt }
	assert.ErrorIs(t, svc.VerifyReset(context.Background(), reset.Token, "pass1234"), ErrTokenExpired)
}

func TestVerifyResetShortPassword(t *testing.T) {
	svc, db, provider, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	err := svc.VerifyReset(context.Background(), reset.Token, "short7c")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Equal(t, "original-pass", provider.passwords[adminUserID])

	// Validation failures happen before any mutation: token still fresh.
	var after models.PasswordReset
	require.NoError(t, db.First(&after, reset.ID).Error)
	assert.False(t, after.Used)
}

func TestVerifyResetAccountDeletedAfterIssuance(t *testing.T) {
	svc, db, provider, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	// The email is resolved to an account at redemption time, not issuance.
	require.NoError(t, provider.DeleteUser(context.Background(), adminUserID))

	err := svc.VerifyReset(context.Background(), reset.Token, "pass1234")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyResetProviderFailureLeavesTokenRedeemable(t *testing.T) {
	svc, db, provider, _ := newResetFixture(t)
	reset := issueToken(t, svc, db)

	provider.FailUpdate = true
	err := svc.VerifyReset(context.Background(), reset.Token, "pass1234")
	require.Error(t, err)

	var after models.PasswordReset
	require.NoError(t, db.First(&after, reset.ID).Error)
	assert.False(t, after.Used, "token must survive a failed credential update")

	// Safe to retry once the provider recovers.
	provider.FailUpdate = false
	require.NoError(t, svc.VerifyReset(context.Background(), reset.Token, "pass1234"))
	assert.Equal(t, "pass1234", provider.passwords[adminUserID])
}

func TestMultipleOutstandingTokensCoexist(t *testing.T) {
	svc, db, _, _ := newResetFixture(t)

	first := issueToken(t, svc, db)
	second := issueToken(t, svc, db)
	require.NotEqual(t, first.Token, second.Token)

	// Issuing a new token does not invalidate the earlier one; each is
	// still single-use on its own.
	require.NoError(t, svc.VerifyReset(context.Background(), second.Token, "pass1234"))
	require.NoError(t, svc.VerifyReset(context.Background(), first.Token, "pass5678"))
	assert.ErrorIs(t, svc.VerifyReset(context.Background(), first.Token, "pass9999"), ErrInvalidToken)
}

func TestCleanupStale(t *testing.T) {
	svc, db, _, _ := newResetFixture(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	rows := []models.PasswordReset{
		{Email: adminEmail, Token: "used-token", ExpiresAt: now.Add(time.Hour), Used: true},
		{Email: adminEmail, Token: "long-expired", ExpiresAt: now.Add(-48 * time.Hour)},
		{Email: adminEmail, Token: "fresh-token", ExpiresAt: now.Add(time.Hour)},
		{Email: adminEmail, Token: "just-expired", ExpiresAt: now.Add(-time.Minute)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	removed, err := svc.CleanupStale(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var remaining []models.PasswordReset
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	tokens := []string{remaining[0].Token, remaining[1].Token}
	assert.ElementsMatch(t, []string{"fresh-token", "just-expired"}, tokens)
}
