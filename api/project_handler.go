package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	projectPageLimit = 100
	maxImageSize     = 10 << 20 // 10MB multipart memory cap
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	images      ImageUploader
}

func newProjectHandler(projectRepo *database.ProjectRepo, images ImageUploader) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		images:      images,
	}
}

type projectCreateRequest struct {
	Title           string                 `json:"title" validate:"required"`
	Slug            string                 `json:"slug" validate:"required"`
	Description     string                 `json:"description" validate:"required"`
	LongDescription *string                `json:"long_description"`
	Technologies    []string               `json:"technologies"`
	Images          []models.ProjectImage  `json:"images"`
	GithubURL       *string                `json:"github_url" validate:"omitempty,url"`
	LiveURL         *string                `json:"live_url" validate:"omitempty,url"`
	IsFeatured      bool                   `json:"is_featured"`
	IsPublished     bool                   `json:"is_published"`
	DisplayOrder    int                    `json:"display_order"`
}

type projectUpdateRequest struct {
	Title           *string                `json:"title"`
	Slug            *string                `json:"slug"`
	Description     *string                `json:"description"`
	LongDescription *string                `json:"long_description"`
	Technologies    *[]string              `json:"technologies"`
	Images          *[]models.ProjectImage `json:"images"`
	GithubURL       *string                `json:"github_url"`
	LiveURL         *string                `json:"live_url"`
	IsFeatured      *bool                  `json:"is_featured"`
	IsPublished     *bool                  `json:"is_published"`
	DisplayOrder    *int                   `json:"display_order"`
}

// fields maps only the explicitly provided values; absent fields stay
// untouched in the database.
func (req projectUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.LongDescription != nil {
		fields["long_description"] = *req.LongDescription
	}
	if req.Technologies != nil {
		fields["technologies"] = datatypes.NewJSONSlice(*req.Technologies)
	}
	if req.Images != nil {
		fields["images"] = datatypes.NewJSONSlice(*req.Images)
	}
	if req.GithubURL != nil {
		fields["github_url"] = *req.GithubURL
	}
	if req.LiveURL != nil {
		fields["live_url"] = *req.LiveURL
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	return fields
}

// projectListItem is the public listing shape: no long description, publish
// flag, or timestamps.
type projectListItem struct {
	ID           uint                  `json:"id"`
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	Technologies []string              `json:"technologies"`
	Images       []models.ProjectImage `json:"images"`
	GithubURL    *string               `json:"github_url"`
	LiveURL      *string               `json:"live_url"`
	IsFeatured   bool                  `json:"is_featured"`
	DisplayOrder int                   `json:"display_order"`
}

func toProjectListItem(p models.Project) projectListItem {
	return projectListItem{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Technologies: p.Technologies,
		Images:       p.Images,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		IsFeatured:   p.IsFeatured,
		DisplayOrder: p.DisplayOrder,
	}
}

// listPublished lists published projects, optionally filtered by technology
// and featured flag.
func (h projectHandler) listPublished() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := parseBoolQuery(r, "featured")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}
		skip, limit := parsePagination(r, projectPageLimit, projectPageLimit)

		projects, err := h.projectRepo.FindAll(database.ProjectFilter{
			Technology:    r.URL.Query().Get("technology"),
			Featured:      featured,
			PublishedOnly: true,
			Skip:          skip,
			Limit:         limit,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		items := make([]projectListItem, 0, len(projects))
		for _, p := range projects {
			items = append(items, toProjectListItem(p))
		}
		h.responder.WriteJSON(w, items)
	}
}

// getBySlug returns one project by slug. With ?preview=true the publish
// filter is skipped so the admin panel can preview drafts.
func (h projectHandler) getBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		preview := r.URL.Query().Get("preview") == "true"

		project, err := h.projectRepo.FindBySlug(slug, !preview)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// listAll lists every project regardless of publish state.
func (h projectHandler) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := parsePagination(r, projectPageLimit, projectPageLimit)

		projects, err := h.projectRepo.FindAll(database.ProjectFilter{
			Skip:  skip,
			Limit: limit,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// create inserts a new project; a duplicate slug is rejected before anything
// is written.
func (h projectHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		project := models.Project{
			Title:           req.Title,
			Slug:            req.Slug,
			Description:     req.Description,
			LongDescription: req.LongDescription,
			Technologies:    datatypes.NewJSONSlice(req.Technologies),
			Images:          datatypes.NewJSONSlice(req.Images),
			GithubURL:       req.GithubURL,
			LiveURL:         req.LiveURL,
			IsFeatured:      req.IsFeatured,
			IsPublished:     req.IsPublished,
			DisplayOrder:    req.DisplayOrder,
		}

		if err := h.projectRepo.Add(&project); err != nil {
			if errors.Is(err, database.ErrDuplicateSlug) {
				h.responder.WriteError(w, errs.NewConflictError("A project with this slug already exists"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// update applies a sparse update to a project.
func (h projectHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}

		var req projectUpdateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			h.responder.WriteError(w, errs.Malformed("project payload"))
			return
		}

		fields := req.fields()
		applyExplicitNulls(raw, fields, "long_description", "github_url", "live_url")

		project, err := h.projectRepo.UpdateFields(projectID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// delete removes a project.
func (h projectHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderRequest struct {
	DisplayOrder int `json:"display_order"`
}

// reorder sets a project's display_order directly.
func (h projectHandler) reorder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		var req reorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("reorder payload"))
			return
		}

		project, err := h.projectRepo.SetDisplayOrder(projectID, req.DisplayOrder)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// uploadImage stores one gallery image in object storage and appends its URL
// to the project.
func (h projectHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.images == nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "image uploads are not configured"))
			return
		}

		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("missing image file"))
			return
		}
		defer file.Close()

		// Verify project exists before touching object storage
		if _, err := h.projectRepo.FindByID(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		key := fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), filepath.Ext(header.Filename))

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		url, err := h.images.Upload(ctx, key, file, header.Header.Get("Content-Type"))
		if err != nil {
			h.logger.Error().Err(err).Str("key", key).Msg("Failed to upload image")
			h.responder.WriteError(w, errs.NewInternalError("failed to upload image"))
			return
		}

		image := models.ProjectImage{
			URL:       url,
			Alt:       r.FormValue("alt"),
			IsPrimary: r.FormValue("is_primary") == "true",
		}

		project, err := h.projectRepo.AppendImage(projectID, image)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}
