package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormSubmission is a lead captured by one of the public site forms.
// Data holds the raw form answers as an open key/value mapping since the
// plaintiff and attorney forms share this table without a rigid schema.
type FormSubmission struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FormType   string         `gorm:"size:64;index" json:"form_type"`
	Data       datatypes.JSON `gorm:"column:data" json:"data"`
	ReadStatus bool           `gorm:"default:false" json:"read_status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Derived for trash views, never persisted.
	DaysRemaining int `gorm:"-" json:"days_remaining,omitempty"`
}

func (s *FormSubmission) TrashedAt() *time.Time {
	if !s.DeletedAt.Valid {
		return nil
	}
	t := s.DeletedAt.Time
	return &t
}
