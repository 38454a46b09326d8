package services

import (
	"errors"

	"litfund-backend/models"

	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type TestimonialService struct {
	DB    *gorm.DB
	Trash *TrashService
}

func NewTestimonialService(db *gorm.DB, trash *TrashService) *TestimonialService {
	return &TestimonialService{DB: db, Trash: trash}
}

func (s *TestimonialService) Create(t *models.Testimonial) error {
	if t.Rating < 1 || t.Rating > 5 {
		return ErrInvalidRating
	}
	return s.DB.Create(t).Error
}

// GetAll lists active testimonials for the admin console.
func (s *TestimonialService) GetAll() ([]models.Testimonial, error) {
	var items []models.Testimonial
	err := s.DB.
		Order("display_order ASC, created_at DESC").
		Find(&items).Error
	return items, err
}

// GetPublished lists testimonials for the public site: featured entries
// first, then by display order.
func (s *TestimonialService) GetPublished() ([]models.Testimonial, error) {
	var items []models.Testimonial
	err := s.DB.
		Where("published = ?", true).
		Order("featured DESC, display_order ASC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *TestimonialService) GetByID(id uint) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := s.DB.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TestimonialService) Update(t *models.Testimonial) error {
	if t.Rating < 1 || t.Rating > 5 {
		return ErrInvalidRating
	}
	res := s.DB.Model(&models.Testimonial{}).Where("id = ?", t.ID).
		Select("customer_name", "customer_role", "customer_company",
			"testimonial_text", "rating", "customer_image",
			"published", "featured", "display_order").
		Updates(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TestimonialService) SetPublished(id uint, published bool) error {
	return s.setFlag(id, "published", published)
}

func (s *TestimonialService) SetFeatured(id uint, featured bool) error {
	return s.setFlag(id, "featured", featured)
}

func (s *TestimonialService) setFlag(id uint, column string, value bool) error {
	res := s.DB.Model(&models.Testimonial{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TestimonialService) SetDisplayOrder(id uint, order int) error {
	res := s.DB.Model(&models.Testimonial{}).Where("id = ?", id).Update("display_order", order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TestimonialService) ListTrash(filter TrashFilter) ([]models.Testimonial, error) {
	var items []models.Testimonial
	if err := s.Trash.TrashScope(&models.Testimonial{}, filter).Find(&items).Error; err != nil {
		return nil, err
	}
	now := s.Trash.Now()
	for i := range items {
		if at := items[i].TrashedAt(); at != nil {
			items[i].DaysRemaining = DaysRemaining(*at, now)
		}
	}
	return items, nil
}

func (s *TestimonialService) SoftDelete(id uint) error {
	return s.Trash.SoftDelete(&models.Testimonial{}, id)
}

func (s *TestimonialService) Restore(id uint) error {
	return s.Trash.Restore(&models.Testimonial{}, id)
}

func (s *TestimonialService) PermanentlyDelete(id uint) error {
	return s.Trash.PermanentlyDelete(&models.Testimonial{}, id)
}
