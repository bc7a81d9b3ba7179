package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type skillHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.SkillCategoryRepo
	skillRepo    *database.SkillRepo
}

func newSkillHandler(categoryRepo *database.SkillCategoryRepo, skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		skillRepo:    skillRepo,
	}
}

type categoryCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Slug         string  `json:"slug" validate:"required"`
	Icon         string  `json:"icon" validate:"required"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
	IsPublished  *bool   `json:"is_published"`
}

type categoryUpdateRequest struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Icon         *string `json:"icon"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	IsPublished  *bool   `json:"is_published"`
}

func (req categoryUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}
	return fields
}

type skillCreateRequest struct {
	Name         string `json:"name" validate:"required"`
	CategoryID   uint   `json:"category_id" validate:"required"`
	Proficiency  *int   `json:"proficiency" validate:"omitempty,gte=0,lte=100"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

type skillUpdateRequest struct {
	Name         *string `json:"name"`
	CategoryID   *uint   `json:"category_id"`
	Proficiency  *int    `json:"proficiency" validate:"omitempty,gte=0,lte=100"`
	DisplayOrder *int    `json:"display_order"`
	IsPublished  *bool   `json:"is_published"`
}

func (req skillUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Proficiency != nil {
		fields["proficiency"] = *req.Proficiency
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}
	return fields
}

// listPublishedCategories returns published categories, each with only its
// published skills sorted by the skill's own display_order.
func (h skillHandler) listPublishedCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindPublished()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill categories", "skill categories", err))
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// getCategoryBySlug returns one published category with its published skills.
func (h skillHandler) getCategoryBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		category, err := h.categoryRepo.FindBySlug(slug, true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill category", "skill category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// listAllCategories returns every category and skill regardless of publish
// state.
func (h skillHandler) listAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill categories", "skill categories", err))
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

func (h skillHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("skill category payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		category := models.SkillCategory{
			Name:         req.Name,
			Slug:         req.Slug,
			Icon:         req.Icon,
			Description:  req.Description,
			DisplayOrder: req.DisplayOrder,
			IsPublished:  true,
			Skills:       []models.Skill{},
		}
		if req.IsPublished != nil {
			category.IsPublished = *req.IsPublished
		}

		if err := h.categoryRepo.Add(&category); err != nil {
			if errors.Is(err, database.ErrDuplicateSlug) {
				h.responder.WriteError(w, errs.NewConflictError("A category with this slug already exists"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create skill category", "skill category", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, category)
	}
}

func (h skillHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseIDParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.Malformed("skill category payload"))
			return
		}

		var req categoryUpdateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.responder.WriteError(w, errs.Malformed("skill category payload"))
			return
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			h.responder.WriteError(w, errs.Malformed("skill category payload"))
			return
		}

		fields := req.fields()
		applyExplicitNulls(raw, fields, "description")

		category, err := h.categoryRepo.UpdateFields(categoryID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill category", "skill category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category together with every skill in it.
func (h skillHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseIDParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		if err := h.categoryRepo.Delete(categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete skill category", "skill category", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// createSkill inserts a skill; a dangling category_id is a not-found error
// and nothing is written.
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("skill payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		skill := models.Skill{
			Name:         req.Name,
			CategoryID:   req.CategoryID,
			Proficiency:  80,
			DisplayOrder: req.DisplayOrder,
			IsPublished:  true,
		}
		if req.Proficiency != nil {
			skill.Proficiency = *req.Proficiency
		}
		if req.IsPublished != nil {
			skill.IsPublished = *req.IsPublished
		}

		if err := h.skillRepo.Add(&skill); err != nil {
			if errors.Is(err, database.ErrCategoryNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("skill category"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create skill", "skill", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, skill)
	}
}

func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		var req skillUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("skill payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		skill, err := h.skillRepo.UpdateFields(skillID, req.fields())
		if err != nil {
			if errors.Is(err, database.ErrCategoryNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("skill category"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteJSON(w, skill)
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		if err := h.skillRepo.Delete(skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete skill", "skill", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
