package models

import "time"

// AdminUser is an allow-list entry mapping an identity-provider user id to
// admin status. Membership is binary: presence means admin.
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;uniqueIndex" json:"user_id"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
