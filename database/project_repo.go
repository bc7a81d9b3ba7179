package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectFilter narrows a project listing. A nil Featured means "don't
// filter"; Technology matches case-insensitively against any entry of the
// project's technologies list.
type ProjectFilter struct {
	Technology    string
	Featured      *bool
	PublishedOnly bool
	Skip          int
	Limit         int
}

// FindAll returns projects ordered by display_order ascending, ties broken by
// creation time descending.
func (r *ProjectRepo) FindAll(filter ProjectFilter) ([]models.Project, error) {
	query := r.db.Model(&models.Project{}).
		Order("display_order ASC, created_at DESC")

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}

	// The technologies column is a JSON document, so membership is checked in
	// Go; pagination then has to happen after the filter.
	if filter.Technology != "" {
		var all []models.Project
		if err := query.Find(&all).Error; err != nil {
			return nil, err
		}
		matched := make([]models.Project, 0, len(all))
		for _, p := range all {
			if hasTechnology(p, filter.Technology) {
				matched = append(matched, p)
			}
		}
		return paginate(matched, filter.Skip, filter.Limit), nil
	}

	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var projects []models.Project
	err := query.Find(&projects).Error
	return projects, err
}

// FindBySlug returns a project by its slug, optionally restricted to
// published projects.
func (r *ProjectRepo) FindBySlug(slug string, publishedOnly bool) (*models.Project, error) {
	query := r.db.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var project models.Project
	if err := query.First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns a project by its ID.
func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project. The slug is checked for collision inside the
// insert transaction so the caller gets ErrDuplicateSlug rather than a raw
// constraint failure, and no write happens on conflict.
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("slug = ?", project.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSlug
		}
		return tx.Create(project).Error
	})
}

// UpdateFields applies a sparse update: only the columns present in fields
// are written, everything else is left untouched. Returns the fresh row.
func (r *ProjectRepo) UpdateFields(id uint, fields map[string]any) (*models.Project, error) {
	var project models.Project
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&project).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&project, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SetDisplayOrder moves a project to an explicit position in the listing.
func (r *ProjectRepo) SetDisplayOrder(id uint, order int) (*models.Project, error) {
	return r.UpdateFields(id, map[string]any{"display_order": order})
}

// AppendImage adds one image to a project's gallery.
func (r *ProjectRepo) AppendImage(id uint, image models.ProjectImage) (*models.Project, error) {
	var project models.Project
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		project.Images = append(project.Images, image)
		return tx.Model(&project).Update("images", project.Images).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project by id. A missing id is an error, not a no-op.
func (r *ProjectRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func hasTechnology(project models.Project, technology string) bool {
	needle := strings.ToLower(technology)
	for _, tech := range project.Technologies {
		if strings.Contains(strings.ToLower(tech), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
