package api

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	metaHandler    metaHandler
	authHandler    authHandler
	projectHandler projectHandler
	skillHandler   skillHandler
	contactHandler contactHandler
}

// ContactNotifier delivers the contact-form notification email. Delivery is
// best-effort: a false result means the send was skipped because no
// transport is configured.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, firstName, lastName, email, message string) (bool, error)
}

// ImageUploader stores a project image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// shared request validator
var validate = validator.New()
