package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"litfund-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrEmptySubmission = errors.New("submission has no data")

// SubmissionCounts backs the admin dashboard badges. Trashed rows never
// count toward Total or Unread.
type SubmissionCounts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Trash  int64 `json:"trash"`
}

type SubmissionService struct {
	DB    *gorm.DB
	Trash *TrashService
	CRM   *CRMService
}

func NewSubmissionService(db *gorm.DB, trash *TrashService, crm *CRMService) *SubmissionService {
	return &SubmissionService{DB: db, Trash: trash, CRM: crm}
}

// Create stores a lead and forwards it to the CRM webhook. The store is the
// source of truth: a webhook failure is logged and the lead is kept.
func (s *SubmissionService) Create(ctx context.Context, formType string, data map[string]any) (*models.FormSubmission, error) {
	if len(data) == 0 {
		return nil, ErrEmptySubmission
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("cannot encode form data: %w", err)
	}

	sub := models.FormSubmission{
		FormType: formType,
		Data:     datatypes.JSON(raw),
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		return nil, err
	}

	if s.CRM.Enabled() {
		if err := s.CRM.ForwardSubmission(ctx, &sub); err != nil {
			logrus.WithError(err).WithField("submission_id", sub.ID).
				Warn("CRM webhook forward failed")
		}
	}
	return &sub, nil
}

// GetAll lists active submissions, newest first.
func (s *SubmissionService) GetAll(formType string, unreadOnly bool) ([]models.FormSubmission, error) {
	q := s.DB.Model(&models.FormSubmission{})
	if formType != "" {
		q = q.Where("form_type = ?", formType)
	}
	if unreadOnly {
		q = q.Where("read_status = ?", false)
	}
	var subs []models.FormSubmission
	err := q.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (s *SubmissionService) GetByID(id uint) (*models.FormSubmission, error) {
	var sub models.FormSubmission
	if err := s.DB.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *SubmissionService) MarkRead(id uint, read bool) error {
	res := s.DB.Model(&models.FormSubmission{}).Where("id = ?", id).Update("read_status", read)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SubmissionService) Counts() (SubmissionCounts, error) {
	var counts SubmissionCounts
	if err := s.DB.Model(&models.FormSubmission{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := s.DB.Model(&models.FormSubmission{}).
		Where("read_status = ?", false).Count(&counts.Unread).Error; err != nil {
		return counts, err
	}
	if err := s.Trash.TrashScope(&models.FormSubmission{}, TrashFilterAll).
		Count(&counts.Trash).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// ListTrash returns trashed submissions with days_remaining filled in.
func (s *SubmissionService) ListTrash(filter TrashFilter) ([]models.FormSubmission, error) {
	var subs []models.FormSubmission
	if err := s.Trash.TrashScope(&models.FormSubmission{}, filter).Find(&subs).Error; err != nil {
		return nil, err
	}
	now := s.Trash.Now()
	for i := range subs {
		if at := subs[i].TrashedAt(); at != nil {
			subs[i].DaysRemaining = DaysRemaining(*at, now)
		}
	}
	return subs, nil
}

func (s *SubmissionService) SoftDelete(id uint) error {
	return s.Trash.SoftDelete(&models.FormSubmission{}, id)
}

func (s *SubmissionService) Restore(id uint) error {
	return s.Trash.Restore(&models.FormSubmission{}, id)
}

func (s *SubmissionService) PermanentlyDelete(id uint) error {
	return s.Trash.PermanentlyDelete(&models.FormSubmission{}, id)
}
