package api

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the authenticated user to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// currentUser retrieves the authenticated user placed in the context by the
// auth middleware
func currentUser(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}
