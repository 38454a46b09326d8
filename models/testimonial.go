package models

import (
	"time"

	"gorm.io/gorm"
)

type Testimonial struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CustomerName    string         `gorm:"size:255" json:"customer_name"`
	CustomerRole    string         `gorm:"size:255" json:"customer_role"`
	CustomerCompany string         `gorm:"size:255" json:"customer_company"`
	TestimonialText string         `gorm:"type:text" json:"testimonial_text"`
	Rating          int            `gorm:"default:5" json:"rating"`
	CustomerImage   string         `gorm:"size:512" json:"customer_image"`
	Published       bool           `gorm:"default:false;index" json:"published"`
	Featured        bool           `gorm:"default:false" json:"featured"`
	DisplayOrder    int            `gorm:"default:0" json:"display_order"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	DaysRemaining int `gorm:"-" json:"days_remaining,omitempty"`
}

func (t *Testimonial) TrashedAt() *time.Time {
	if !t.DeletedAt.Valid {
		return nil
	}
	at := t.DeletedAt.Time
	return &at
}
