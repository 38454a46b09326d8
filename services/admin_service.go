package services

import (
	"context"
	"errors"

	"litfund-backend/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyAdmin      = errors.New("email is already on the admin list")
	ErrNoIdentityAccount = errors.New("no identity account for this email; supply a password to create one")
)

// AdminService manages the admin allow-list. Membership is binary: an entry
// means admin, absence means not.
type AdminService struct {
	DB       *gorm.DB
	Provider IdentityProvider
}

func NewAdminService(db *gorm.DB, provider IdentityProvider) *AdminService {
	return &AdminService{DB: db, Provider: provider}
}

// IsAdmin checks the allow-list fresh on every call. Admin status is never
// cached across requests, so a revocation takes effect immediately.
func (s *AdminService) IsAdmin(userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var n int64
	if err := s.DB.Model(&models.AdminUser{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *AdminService) List() ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := s.DB.Order("created_at ASC").Find(&admins).Error
	return admins, err
}

// Grant adds an email to the allow-list. If the identity provider has no
// account for it yet, one is created with the supplied initial password.
func (s *AdminService) Grant(ctx context.Context, email, initialPassword string) (*models.AdminUser, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	var n int64
	if err := s.DB.Model(&models.AdminUser{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyAdmin
	}

	user, err := s.Provider.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if len(initialPassword) < MinPasswordLength {
			return nil, ErrNoIdentityAccount
		}
		user, err = s.Provider.CreateUser(ctx, email, initialPassword)
		if err != nil {
			return nil, err
		}
	}

	admin := models.AdminUser{UserID: user.ID, Email: email}
	if err := s.DB.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// Revoke removes an allow-list entry. The identity account itself survives
// unless deleteAccount is set.
func (s *AdminService) Revoke(ctx context.Context, id uint, deleteAccount bool) error {
	var admin models.AdminUser
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.DB.Delete(&admin).Error; err != nil {
		return err
	}
	if deleteAccount {
		return s.Provider.DeleteUser(ctx, admin.UserID)
	}
	return nil
}
