package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"litfund-backend/models"
	"litfund-backend/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// ResetTokenTTL is fixed at issuance; expiry never moves.
	ResetTokenTTL = time.Hour

	// MinPasswordLength applies to the new credential at redemption.
	MinPasswordLength = 8

	resetTokenBytes = 32
)

var (
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidToken covers both an unknown token and an already-used one.
	// Callers must not be able to tell those apart.
	ErrInvalidToken = errors.New("invalid or expired reset token")

	// ErrTokenExpired is intentionally distinct: possession of the token
	// already proves knowledge, so "request a new one" leaks nothing.
	ErrTokenExpired = errors.New("reset token has expired, request a new one")

	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrMailSend means the token was issued but the email could not be
	// delivered. The token stays valid until it expires or is used.
	ErrMailSend = errors.New("could not send reset email")
)

// PasswordResetService issues and redeems single-use expiring reset tokens.
// The identity provider is authoritative for the credential itself; this
// service only brokers the out-of-band authorization to change it.
type PasswordResetService struct {
	DB       *gorm.DB
	Provider IdentityProvider
	Mailer   Mailer
	Now      func() time.Time
}

func NewPasswordResetService(db *gorm.DB, provider IdentityProvider, mailer Mailer) *PasswordResetService {
	return &PasswordResetService{DB: db, Provider: provider, Mailer: mailer, Now: time.Now}
}

// NormalizeEmail trims and lower-cases an address; tokens are bound to the
// normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestReset issues a token and emails a reset link. For an email that is
// not on the admin allow-list it returns nil without issuing anything, so
// the response never reveals which addresses are admin accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email, siteURL string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	var admin models.AdminUser
	if err := s.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("email", email).Info("reset requested for non-admin email, ignoring")
			return nil
		}
		return err
	}

	token, err := utils.GenerateTokenHex(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("cannot generate reset token: %w", err)
	}

	reset := models.PasswordReset{
		Email:     email,
		Token:     token,
		ExpiresAt: s.Now().Add(ResetTokenTTL),
	}
	if err := s.DB.Create(&reset).Error; err != nil {
		return err
	}

	link := strings.TrimRight(siteURL, "/") + "/admin/reset-password?token=" + token
	if err := s.Mailer.SendPasswordReset(email, link); err != nil {
		// Token row stays valid; the caller is told delivery failed.
		logrus.WithError(err).WithField("email", email).Error("reset email send failed")
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}

	logrus.WithField("email", email).Info("password reset token issued")
	return nil
}

// VerifyReset redeems a token and sets the new credential at the identity
// provider. The credential update happens first; the token is only marked
// used once the provider confirms, so a failed update leaves it redeemable.
func (s *PasswordResetService) VerifyReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if token == "" {
		return ErrInvalidToken
	}

	var reset models.PasswordReset
	err := s.DB.Where("token = ? AND used = ?", token, false).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if !s.Now().Before(reset.ExpiresAt) {
		return ErrTokenExpired
	}

	// The email binding is resolved to an account now, not at issuance:
	// the account may have changed or disappeared in between.
	user, err := s.Provider.FindUserByEmail(ctx, reset.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	if err := s.Provider.UpdateUserPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	// Conditional flip enforces single use even under concurrent redeems.
	res := s.DB.Model(&models.PasswordReset{}).
		Where("id = ? AND used = ?", reset.ID, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}

	logrus.WithField("email", reset.Email).Info("password reset completed")
	return nil
}

// CleanupStale opportunistically removes token rows that can never be
// redeemed again: used ones, and expired ones past a day of grace.
func (s *PasswordResetService) CleanupStale(ctx context.Context) (int64, error) {
	cutoff := s.Now().Add(-24 * time.Hour)
	res := s.DB.WithContext(ctx).
		Where("used = ? OR expires_at < ?", true, cutoff).
		Delete(&models.PasswordReset{})
	return res.RowsAffected, res.Error
}
