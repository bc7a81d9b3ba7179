package database

import (
	"sort"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type SkillCategoryRepo struct {
	db *gorm.DB
}

func NewSkillCategoryRepo(db *gorm.DB) *SkillCategoryRepo {
	return &SkillCategoryRepo{db}
}

// FindPublished returns published categories ordered by display_order, each
// carrying only its published skills. Category publish state and skill
// publish state are filtered independently.
func (r *SkillCategoryRepo) FindPublished() ([]models.SkillCategory, error) {
	var categories []models.SkillCategory
	err := r.db.
		Where("is_published = ?", true).
		Order("display_order ASC, created_at DESC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachSkills(categories, true); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug returns one category by slug with its skills attached. With
// publishedOnly set, unpublished categories are treated as missing and the
// nested skill list is filtered to published skills.
func (r *SkillCategoryRepo) FindBySlug(slug string, publishedOnly bool) (*models.SkillCategory, error) {
	query := r.db.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var category models.SkillCategory
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}

	categories := []models.SkillCategory{category}
	if err := r.attachSkills(categories, publishedOnly); err != nil {
		return nil, err
	}
	return &categories[0], nil
}

// FindAll returns every category with every skill, for the admin surface.
func (r *SkillCategoryRepo) FindAll() ([]models.SkillCategory, error) {
	var categories []models.SkillCategory
	err := r.db.
		Order("display_order ASC, created_at DESC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachSkills(categories, false); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID returns a category without its skills.
func (r *SkillCategoryRepo) FindByID(id uint) (*models.SkillCategory, error) {
	var category models.SkillCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Add inserts a new category, rejecting duplicate slugs before writing.
func (r *SkillCategoryRepo) Add(category *models.SkillCategory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SkillCategory{}).Where("slug = ?", category.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSlug
		}
		return tx.Create(category).Error
	})
}

// UpdateFields applies a sparse update to a category.
func (r *SkillCategoryRepo) UpdateFields(id uint, fields map[string]any) (*models.SkillCategory, error) {
	var category models.SkillCategory
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category and every skill that belongs to it in a single
// transaction.
func (r *SkillCategoryRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category models.SkillCategory
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// attachSkills loads the skills for the given categories with one query and
// assigns them in memory, sorted by the skill's own display_order. Explicit
// fetching keeps the nested filter and ordering deterministic.
func (r *SkillCategoryRepo) attachSkills(categories []models.SkillCategory, publishedOnly bool) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	query := r.db.Where("category_id IN ?", ids)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var skills []models.Skill
	if err := query.Find(&skills).Error; err != nil {
		return err
	}

	byCategory := make(map[uint][]models.Skill, len(categories))
	for _, s := range skills {
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}

	for i := range categories {
		group := byCategory[categories[i].ID]
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].DisplayOrder != group[b].DisplayOrder {
				return group[a].DisplayOrder < group[b].DisplayOrder
			}
			return group[a].CreatedAt.After(group[b].CreatedAt)
		})
		if group == nil {
			group = []models.Skill{}
		}
		categories[i].Skills = group
	}
	return nil
}
