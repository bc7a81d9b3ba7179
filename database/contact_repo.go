package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// ContactFilter narrows a submission listing; nil flags mean "don't filter".
type ContactFilter struct {
	IsRead     *bool
	IsArchived *bool
	Skip       int
	Limit      int
}

// ContactStats summarizes the inbox for the admin dashboard.
type ContactStats struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Archived int64 `json:"archived"`
}

// Add inserts a new submission.
func (r *ContactRepo) Add(submission *models.ContactSubmission) error {
	return r.db.Create(submission).Error
}

// FindAll returns submissions newest first.
func (r *ContactRepo) FindAll(filter ContactFilter) ([]models.ContactSubmission, error) {
	query := r.db.Model(&models.ContactSubmission{}).
		Order("created_at DESC, id DESC")

	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.IsArchived != nil {
		query = query.Where("is_archived = ?", *filter.IsArchived)
	}
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var submissions []models.ContactSubmission
	err := query.Find(&submissions).Error
	return submissions, err
}

// FindByID returns a submission by its ID.
func (r *ContactRepo) FindByID(id uint) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateFlags applies a sparse update to the is_read/is_archived flags; the
// submission body itself is immutable.
func (r *ContactRepo) UpdateFlags(id uint, fields map[string]any) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&submission, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&submission).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&submission, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Delete removes a submission by id. A missing id is an error, not a no-op.
func (r *ContactRepo) Delete(id uint) error {
	result := r.db.Delete(&models.ContactSubmission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Stats returns total/unread/archived counts.
func (r *ContactRepo) Stats() (ContactStats, error) {
	var stats ContactStats
	if err := r.db.Model(&models.ContactSubmission{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.ContactSubmission{}).Where("is_read = ?", false).Count(&stats.Unread).Error; err != nil {
		return stats, err
	}
	err := r.db.Model(&models.ContactSubmission{}).Where("is_archived = ?", true).Count(&stats.Archived).Error
	return stats, err
}

// MarkAllRead flags every unread submission as read and reports how many
// rows changed.
func (r *ContactRepo) MarkAllRead() (int64, error) {
	result := r.db.Model(&models.ContactSubmission{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
