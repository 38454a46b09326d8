package models

import "time"

type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Path      string    `gorm:"size:512;index" json:"path"`
	Referrer  string    `gorm:"size:512" json:"referrer"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	VisitorID string    `gorm:"size:64;index" json:"visitor_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
