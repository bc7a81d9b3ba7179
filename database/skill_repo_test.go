package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

func seedCategory(t *testing.T, repo *SkillCategoryRepo, category models.SkillCategory) models.SkillCategory {
	t.Helper()
	require.NoError(t, repo.Add(&category))
	return category
}

func seedSkill(t *testing.T, repo *SkillRepo, skill models.Skill) models.Skill {
	t.Helper()
	require.NoError(t, repo.Add(&skill))
	return skill
}

func TestSkillAddRejectsMissingCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRepo(db)

	err := repo.Add(&models.Skill{Name: "Rust", CategoryID: 999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Skill{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSkillAddAndFind(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	category := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})

	skill := seedSkill(t, skills, models.Skill{
		Name: "Go", CategoryID: category.ID, Proficiency: 90, IsPublished: true,
	})

	found, err := skills.FindByID(skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Name)
	assert.Equal(t, 90, found.Proficiency)
}

func TestSkillUpdateFieldsRevalidatesCategory(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	category := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})
	other := seedCategory(t, categories, models.SkillCategory{
		Name: "Frontend", Slug: "frontend", Icon: "layout", IsPublished: true,
	})
	skill := seedSkill(t, skills, models.Skill{
		Name: "Go", CategoryID: category.ID, Proficiency: 90, IsPublished: true,
	})

	moved, err := skills.UpdateFields(skill.ID, map[string]any{"category_id": other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.CategoryID)

	_, err = skills.UpdateFields(skill.ID, map[string]any{"category_id": uint(999)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	fresh, err := skills.FindByID(skill.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, fresh.CategoryID)
}

func TestSkillDelete(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	category := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})
	skill := seedSkill(t, skills, models.Skill{
		Name: "Go", CategoryID: category.ID, IsPublished: true,
	})

	require.NoError(t, skills.Delete(skill.ID))
	assert.ErrorIs(t, skills.Delete(skill.ID), gorm.ErrRecordNotFound)
}

func TestCategoryAddRejectsDuplicateSlug(t *testing.T) {
	repo := NewSkillCategoryRepo(newTestDB(t))

	seedCategory(t, repo, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})

	err := repo.Add(&models.SkillCategory{Name: "Copy", Slug: "backend", Icon: "server"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestCategoryFindPublishedFiltersNestedSkills(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	visible := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true, DisplayOrder: 2,
	})
	seedCategory(t, categories, models.SkillCategory{
		Name: "Hidden", Slug: "hidden", Icon: "eye-off", IsPublished: false, DisplayOrder: 1,
	})

	seedSkill(t, skills, models.Skill{
		Name: "Go", CategoryID: visible.ID, DisplayOrder: 2, IsPublished: true,
	})
	seedSkill(t, skills, models.Skill{
		Name: "Postgres", CategoryID: visible.ID, DisplayOrder: 1, IsPublished: true,
	})
	seedSkill(t, skills, models.Skill{
		Name: "Secret", CategoryID: visible.ID, DisplayOrder: 0, IsPublished: false,
	})

	result, err := categories.FindPublished()
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "backend", result[0].Slug)

	// Unpublished skills are hidden and the rest sort by display_order.
	require.Len(t, result[0].Skills, 2)
	assert.Equal(t, "Postgres", result[0].Skills[0].Name)
	assert.Equal(t, "Go", result[0].Skills[1].Name)
}

func TestCategoryFindPublishedEmptySkillsIsNotNil(t *testing.T) {
	repo := NewSkillCategoryRepo(newTestDB(t))

	seedCategory(t, repo, models.SkillCategory{
		Name: "Empty", Slug: "empty", Icon: "box", IsPublished: true,
	})

	result, err := repo.FindPublished()
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.NotNil(t, result[0].Skills)
	assert.Empty(t, result[0].Skills)
}

func TestCategoryFindBySlug(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	category := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: false,
	})
	seedSkill(t, skills, models.Skill{
		Name: "Go", CategoryID: category.ID, IsPublished: true,
	})

	_, err := categories.FindBySlug("backend", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := categories.FindBySlug("backend", false)
	require.NoError(t, err)
	require.Len(t, found.Skills, 1)
	assert.Equal(t, "Go", found.Skills[0].Name)
}

func TestCategoryFindAllIncludesUnpublished(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	visible := seedCategory(t, categories, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})
	seedCategory(t, categories, models.SkillCategory{
		Name: "Hidden", Slug: "hidden", Icon: "eye-off", IsPublished: false,
	})
	seedSkill(t, skills, models.Skill{
		Name: "Secret", CategoryID: visible.ID, IsPublished: false,
	})

	result, err := categories.FindAll()
	require.NoError(t, err)
	assert.Len(t, result, 2)

	for _, c := range result {
		if c.ID == visible.ID {
			require.Len(t, c.Skills, 1)
			assert.Equal(t, "Secret", c.Skills[0].Name)
		}
	}
}

func TestCategoryUpdateFields(t *testing.T) {
	repo := NewSkillCategoryRepo(newTestDB(t))

	category := seedCategory(t, repo, models.SkillCategory{
		Name: "Backend", Slug: "backend", Icon: "server", IsPublished: true,
	})

	updated, err := repo.UpdateFields(category.ID, map[string]any{
		"name": "Server Side",
	})
	require.NoError(t, err)
	assert.Equal(t, "Server Side", updated.Name)
	assert.Equal(t, "backend", updated.Slug)
}

func TestCategoryDeleteCascadesToSkills(t *testing.T) {
	db := newTestDB(t)
	categories := NewSkillCategoryRepo(db)
	skills := NewSkillRepo(db)

	doomed := seedCategory(t, categories, models.SkillCategory{
		Name: "Doomed", Slug: "doomed", Icon: "trash", IsPublished: true,
	})
	survivor := seedCategory(t, categories, models.SkillCategory{
		Name: "Survivor", Slug: "survivor", Icon: "shield", IsPublished: true,
	})

	seedSkill(t, skills, models.Skill{Name: "A", CategoryID: doomed.ID, IsPublished: true})
	seedSkill(t, skills, models.Skill{Name: "B", CategoryID: doomed.ID, IsPublished: true})
	kept := seedSkill(t, skills, models.Skill{Name: "C", CategoryID: survivor.ID, IsPublished: true})

	require.NoError(t, categories.Delete(doomed.ID))

	var count int64
	require.NoError(t, db.Model(&models.Skill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	remaining, err := skills.FindByID(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", remaining.Name)

	assert.ErrorIs(t, categories.Delete(doomed.ID), gorm.ErrRecordNotFound)
}
