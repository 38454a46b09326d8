package models

import "time"

// PasswordReset is a single-use reset token bound to an admin email.
// A row is redeemable iff used = false and expires_at is in the future.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Token     string    `gorm:"size:128;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
