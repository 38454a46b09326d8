package services

import (
	"encoding/json"
	"errors"

	"litfund-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentService struct {
	DB *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{DB: db}
}

func (s *ContentService) GetSection(section string) (*models.SiteContent, error) {
	var content models.SiteContent
	if err := s.DB.Where("section = ?", section).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (s *ContentService) ListSections() ([]models.SiteContent, error) {
	var sections []models.SiteContent
	err := s.DB.Order("section ASC").Find(&sections).Error
	return sections, err
}

// Upsert writes a section's content, last write wins.
func (s *ContentService) Upsert(section string, content json.RawMessage) (*models.SiteContent, error) {
	row := models.SiteContent{
		Section: section,
		Content: datatypes.JSON(content),
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.GetSection(section)
}
