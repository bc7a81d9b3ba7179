package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindByID returns a skill by its ID.
func (r *SkillRepo) FindByID(id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.First(&skill, id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// Add inserts a new skill after verifying its category exists; a dangling
// category_id yields ErrCategoryNotFound and no row is written.
func (r *SkillRepo) Add(skill *models.Skill) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := categoryExists(tx, skill.CategoryID); err != nil {
			return err
		}
		return tx.Create(skill).Error
	})
}

// UpdateFields applies a sparse update to a skill. When the update moves the
// skill to another category, that category is re-validated.
func (r *SkillRepo) UpdateFields(id uint, fields map[string]any) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&skill, id).Error; err != nil {
			return err
		}
		if categoryID, ok := fields["category_id"]; ok {
			id, ok := categoryID.(uint)
			if !ok {
				return ErrCategoryNotFound
			}
			if err := categoryExists(tx, id); err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&skill).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&skill, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// Delete removes a skill by id. A missing id is an error, not a no-op.
func (r *SkillRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Skill{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func categoryExists(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&models.SkillCategory{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
