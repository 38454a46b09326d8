package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"litfund-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.AdminUser{},
		&models.PasswordReset{},
		&models.FormSubmission{},
		&models.Testimonial{},
		&models.BlogPost{},
		&models.SiteContent{},
		&models.PageView{},
	))
	return db
}

// setTrashedAt backdates a row's deletion timestamp for retention tests.
func setTrashedAt(t *testing.T, db *gorm.DB, model any, id uint, at time.Time) {
	t.Helper()
	err := db.Unscoped().Model(model).Where("id = ?", id).Update("deleted_at", at).Error
	require.NoError(t, err)
}

type sentMail struct {
	To   string
	Link string
}

type fakeMailer struct {
	Sent []sentMail
	Fail bool
}

func (m *fakeMailer) SendPasswordReset(to, link string) error {
	if m.Fail {
		return errors.New("smtp unavailable")
	}
	m.Sent = append(m.Sent, sentMail{To: to, Link: link})
	return nil
}

type fakeIdentityProvider struct {
	usersByEmail map[string]*IdentityUser
	passwords    map[string]string
	FailUpdate   bool
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{
		usersByEmail: map[string]*IdentityUser{},
		passwords:    map[string]string{},
	}
}

func (p *fakeIdentityProvider) addUser(id, email, password string) {
	p.usersByEmail[email] = &IdentityUser{ID: id, Email: email}
	p.passwords[id] = password
}

func (p *fakeIdentityProvider) SignIn(_ context.Context, email, password string) (string, *IdentityUser, error) {
	u, ok := p.usersByEmail[email]
	if !ok || p.passwords[u.ID] != password {
		return "", nil, errors.New("invalid credentials")
	}
	return "access-token-" + u.ID, u, nil
}

func (p *fakeIdentityProvider) FindUserByEmail(_ context.Context, email string) (*IdentityUser, error) {
	return p.usersByEmail[email], nil
}

func (p *fakeIdentityProvider) CreateUser(_ context.Context, email, password string) (*IdentityUser, error) {
	u := &IdentityUser{ID: "user-" + email, Email: email}
	p.usersByEmail[email] = u
	p.passwords[u.ID] = password
	return u, nil
}

func (p *fakeIdentityProvider) UpdateUserPassword(_ context.Context, userID, newPassword string) error {
	if p.FailUpdate {
		return errors.New("identity provider HTTP error 500")
	}
	if _, ok := p.passwords[userID]; !ok {
		return errors.New("identity provider HTTP error 404")
	}
	p.passwords[userID] = newPassword
	return nil
}

func (p *fakeIdentityProvider) DeleteUser(_ context.Context, userID string) error {
	for email, u := range p.usersByEmail {
		if u.ID == userID {
			delete(p.usersByEmail, email)
		}
	}
	delete(p.passwords, userID)
	return nil
}
