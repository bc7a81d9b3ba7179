package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	notifyTimeout = 15 * time.Second
	maxUserAgent  = 500
)

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    ContactNotifier
}

func newContactHandler(contactRepo *database.ContactRepo, notifier ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

type contactSubmitRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email" validate:"required,email"`
	Message   string  `json:"message" validate:"required"`
}

type contactSubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type contactUpdateRequest struct {
	IsRead     *bool `json:"is_read"`
	IsArchived *bool `json:"is_archived"`
}

func (req contactUpdateRequest) flags() map[string]any {
	fields := map[string]any{}
	if req.IsRead != nil {
		fields["is_read"] = *req.IsRead
	}
	if req.IsArchived != nil {
		fields["is_archived"] = *req.IsArchived
	}
	return fields
}

// submit stores a visitor message and kicks off the email notification in the
// background. The visitor's response never waits on email delivery.
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactSubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("contact payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		submission := models.ContactSubmission{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Message:   req.Message,
			IPAddress: clientIP(r),
			UserAgent: truncate(r.UserAgent(), maxUserAgent),
		}

		if err := h.contactRepo.Add(&submission); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create contact submission", "contact submission", err))
			return
		}

		if h.notifier != nil {
			lastName := ""
			if req.LastName != nil {
				lastName = *req.LastName
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
				defer cancel()

				sent, err := h.notifier.SendContactNotification(ctx, req.FirstName, lastName, req.Email, req.Message)
				if err != nil {
					h.logger.Error().Err(err).Uint("submissionID", submission.ID).Msg("Failed to send contact notification")
					return
				}
				if sent {
					h.logger.Info().Uint("submissionID", submission.ID).Msg("Contact notification sent")
				}
			}()
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, contactSubmitResponse{
			Success: true,
			Message: "Thank you for your message. I'll get back to you soon!",
		})
	}
}

func (h contactHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isRead, err := parseBoolQuery(r, "is_read")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}
		isArchived, err := parseBoolQuery(r, "is_archived")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}
		skip, limit := parsePagination(r, 50, 100)

		submissions, err := h.contactRepo.FindAll(database.ContactFilter{
			IsRead:     isRead,
			IsArchived: isArchived,
			Skip:       skip,
			Limit:      limit,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contact submissions", "contact submissions", err))
			return
		}

		h.responder.WriteJSON(w, submissions)
	}
}

func (h contactHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.contactRepo.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count contact submissions", "contact submissions", err))
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}

func (h contactHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := parseIDParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		submission, err := h.contactRepo.FindByID(submissionID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contact submission", "contact submission", err))
			return
		}

		h.responder.WriteJSON(w, submission)
	}
}

// update flips the read/archived flags; everything else on a submission is
// immutable.
func (h contactHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := parseIDParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		var req contactUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("contact payload"))
			return
		}

		submission, err := h.contactRepo.UpdateFlags(submissionID, req.flags())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contact submission", "contact submission", err))
			return
		}

		h.responder.WriteJSON(w, submission)
	}
}

func (h contactHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := parseIDParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		if err := h.contactRepo.Delete(submissionID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete contact submission", "contact submission", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h contactHandler) markAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.contactRepo.MarkAllRead()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contact submissions", "contact submissions", err))
			return
		}

		h.logger.Info().Int64("count", count).Msg("Marked submissions as read")
		h.responder.WriteJSON(w, map[string]string{"message": "All submissions marked as read"})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) *string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return &ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return nil
	}
	return &host
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) *string {
	if s == "" {
		return nil
	}
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return &s
}
