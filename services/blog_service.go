package services

import (
	"errors"
	"regexp"
	"strings"

	"litfund-backend/models"

	"gorm.io/gorm"
)

var (
	ErrSlugTaken     = errors.New("a post with this slug already exists")
	ErrTitleRequired = errors.New("title is required")
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a post title.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

type BlogService struct {
	DB *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{DB: db}
}

func (s *BlogService) Create(post *models.BlogPost) error {
	if strings.TrimSpace(post.Title) == "" {
		return ErrTitleRequired
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}

	var n int64
	if err := s.DB.Model(&models.BlogPost{}).Where("slug = ?", post.Slug).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrSlugTaken
	}

	if post.Published && post.PublishedAt == nil {
		now := s.DB.NowFunc()
		post.PublishedAt = &now
	}
	return s.DB.Create(post).Error
}

func (s *BlogService) GetAll() ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := s.DB.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (s *BlogService) GetPublished() ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := s.DB.Where("published = ?", true).
		Order("published_at DESC").Find(&posts).Error
	return posts, err
}

func (s *BlogService) GetByID(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug serves the public site and only sees published posts.
func (s *BlogService) GetBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.DB.Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *BlogService) Update(post *models.BlogPost) error {
	existing, err := s.GetByID(post.ID)
	if err != nil {
		return err
	}

	// An omitted slug keeps the stored one so published URLs stay stable.
	if post.Slug == "" {
		post.Slug = existing.Slug
	}
	if post.Slug != existing.Slug {
		var n int64
		if err := s.DB.Model(&models.BlogPost{}).
			Where("slug = ? AND id <> ?", post.Slug, post.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSlugTaken
		}
	}

	// published_at is set the first time a post goes live and then sticks.
	if post.Published && existing.PublishedAt == nil {
		now := s.DB.NowFunc()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = existing.PublishedAt
	}

	return s.DB.Model(&models.BlogPost{}).Where("id = ?", post.ID).
		Select("title", "slug", "excerpt", "content", "cover_image",
			"meta_title", "meta_description", "published", "published_at").
		Updates(post).Error
}

func (s *BlogService) Delete(id uint) error {
	res := s.DB.Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
