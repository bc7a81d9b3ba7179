package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *auth.TokenManager
}

func newAuthHandler(userRepo *database.UserRepo, tokens *auth.TokenManager) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// login exchanges email + password for a bearer token. The admin panel posts
// an OAuth2-style form (username/password); JSON bodies are accepted too.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password, err := h.credentials(r)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed login request"))
			return
		}

		user, err := h.userRepo.FindByEmail(email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Incorrect email or password"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		if !auth.VerifyPassword(password, user.HashedPassword) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Incorrect email or password"))
			return
		}

		if !user.IsActive {
			h.responder.WriteError(w, errs.NewInactiveUserError())
			return
		}

		token, err := h.tokens.Issue(user.ID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to issue token")
			h.responder.WriteError(w, errs.NewInternalError("could not issue token"))
			return
		}

		h.responder.WriteJSON(w, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

func (h authHandler) credentials(r *http.Request) (email, password string, err error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/x-www-form-urlencoded") ||
		strings.Contains(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", "", err
		}
		email = r.PostFormValue("username")
		if email == "" {
			email = r.PostFormValue("email")
		}
		return email, r.PostFormValue("password"), nil
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", err
	}
	return req.Email, req.Password, nil
}

// me returns the authenticated caller's profile.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// register creates the first admin account. The path is permanently closed
// once any user exists; the repository enforces that atomically.
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("registration payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("could not hash password"))
			return
		}

		user := models.User{
			Email:          req.Email,
			HashedPassword: hashed,
			FullName:       req.FullName,
			IsActive:       true,
			IsAdmin:        true,
		}

		if err := h.userRepo.RegisterFirstAdmin(&user); err != nil {
			if errors.Is(err, database.ErrRegistrationClosed) {
				h.responder.WriteError(w, errs.NewForbiddenError("Registration is closed. Contact an admin."))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, user)
	}
}
