package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RetentionDays is how long a trashed record stays recoverable before the
// purge sweep removes it for good.
const RetentionDays = 7

var (
	ErrNotFound   = errors.New("record not found")
	ErrNotTrashed = errors.New("record is not in trash")
)

// TrashFilter narrows a trash listing to a deletion-date window.
type TrashFilter string

const (
	TrashFilterToday  TrashFilter = "today"
	TrashFilter7Days  TrashFilter = "7days"
	TrashFilter30Days TrashFilter = "30days"
	TrashFilterAll    TrashFilter = "all"
)

// ParseTrashFilter maps a query-string value to a filter, defaulting to all.
func ParseTrashFilter(raw string) TrashFilter {
	switch TrashFilter(raw) {
	case TrashFilterToday, TrashFilter7Days, TrashFilter30Days:
		return TrashFilter(raw)
	default:
		return TrashFilterAll
	}
}

// TrashService implements the shared soft-delete lifecycle for every model
// carrying a gorm.DeletedAt column. GORM's default scope keeps trashed rows
// out of all normal listings and counts, so active views need no extra
// predicates.
type TrashService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTrashService(db *gorm.DB) *TrashService {
	return &TrashService{DB: db, Now: time.Now}
}

// SoftDelete moves the record with the given id to trash. Re-deleting a row
// that is already in trash is a no-op and must not reset its retention clock,
// which the scoped DELETE guarantees: it only matches rows with a null
// deleted_at.
func (s *TrashService) SoftDelete(model any, id uint) error {
	res := s.DB.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.DB.Unscoped().Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		// Already trashed: idempotent, clock untouched.
	}
	return nil
}

// Restore clears deleted_at and nothing else; whatever flags the record
// carried when it was deleted come back with it.
func (s *TrashService) Restore(model any, id uint) error {
	res := s.DB.Unscoped().Model(model).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotTrashed
	}
	return nil
}

// PermanentlyDelete removes a trashed record irreversibly. The deleted_at
// predicate keeps live rows safe from this code path.
func (s *TrashService) PermanentlyDelete(model any, id uint) error {
	res := s.DB.Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotTrashed
	}
	return nil
}

// PurgeExpired hard-deletes every record trashed more than RetentionDays ago.
// The deleted_at conditions live inside the DELETE statement itself, so a
// restore that commits first wins the race: the purge simply no longer
// matches the row. Safe to call repeatedly.
func (s *TrashService) PurgeExpired(model any) (int64, error) {
	cutoff := s.Now().AddDate(0, 0, -RetentionDays)
	res := s.DB.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(model)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		logrus.WithFields(logrus.Fields{
			"purged": res.RowsAffected,
			"cutoff": cutoff,
		}).Info("purged expired trash records")
	}
	return res.RowsAffected, nil
}

// TrashScope returns a query over trashed rows of the given model, newest
// deletion first, optionally limited to a deletion-date window. Window
// boundaries are inclusive so a filtered view and the unfiltered view agree
// on membership for items deleted exactly on the boundary.
func (s *TrashService) TrashScope(model any, filter TrashFilter) *gorm.DB {
	now := s.Now()
	q := s.DB.Unscoped().Model(model).Where("deleted_at IS NOT NULL")
	switch filter {
	case TrashFilterToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		q = q.Where("deleted_at >= ?", start)
	case TrashFilter7Days:
		q = q.Where("deleted_at >= ?", now.AddDate(0, 0, -7))
	case TrashFilter30Days:
		q = q.Where("deleted_at >= ?", now.AddDate(0, 0, -30))
	}
	return q.Order("deleted_at DESC")
}

// DaysRemaining reports how many calendar days are left in the retention
// window. The diff is taken on calendar dates, not elapsed hours: a record
// deleted at 23:59 reads 6 days remaining one minute later. Floored at 0.
func DaysRemaining(deletedAt, now time.Time) int {
	now = now.In(deletedAt.Location())
	d0 := time.Date(deletedAt.Year(), deletedAt.Month(), deletedAt.Day(), 0, 0, 0, 0, deletedAt.Location())
	n0 := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := int(n0.Sub(d0).Hours() / 24)
	remaining := RetentionDays - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
