package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteContent is one editable marketing copy section (hero, about, footer...),
// keyed by a section slug. Updates are last-write-wins.
type SiteContent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Section   string         `gorm:"size:128;uniqueIndex" json:"section"`
	Content   datatypes.JSON `gorm:"column:content" json:"content"`
	UpdatedAt time.Time      `json:"updated_at"`
}
