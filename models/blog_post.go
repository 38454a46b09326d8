package models

import "time"

type BlogPost struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255" json:"title"`
	Slug            string     `gorm:"size:255;uniqueIndex" json:"slug"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	Content         string     `gorm:"type:text" json:"content"`
	CoverImage      string     `gorm:"size:512" json:"cover_image"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:512" json:"meta_description"`
	Published       bool       `gorm:"default:false;index" json:"published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
