package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

type notifierCall struct {
	firstName string
	lastName  string
	email     string
	message   string
}

// stubNotifier records notification attempts so tests can observe the
// background dispatch without a real email transport.
type stubNotifier struct {
	calls chan notifierCall
}

func (s *stubNotifier) SendContactNotification(ctx context.Context, firstName, lastName, email, message string) (bool, error) {
	s.calls <- notifierCall{firstName, lastName, email, message}
	return true, nil
}

type testEnv struct {
	router   http.Handler
	db       database.Database
	notifier *stubNotifier
	tokens   *auth.TokenManager
}

// newTestEnv builds the full router over an in-memory database. Image
// uploads stay unconfigured, matching a deployment without object storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))

	db := database.New(gdb)
	notifier := &stubNotifier{calls: make(chan notifierCall, 4)}

	cfg := config.Config{
		Port:        "0",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"*"},
	}

	return &testEnv{
		router:   newRouter(cfg, db, notifier, nil),
		db:       db,
		notifier: notifier,
		tokens:   auth.NewTokenManager("test-secret", time.Hour, "portfolio-api"),
	}
}

// adminToken registers the bootstrap admin and returns a bearer token for it.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:          "owner@example.com",
		HashedPassword: hashed,
		FullName:       "Site Owner",
		IsActive:       true,
		IsAdmin:        true,
	}
	require.NoError(t, e.db.UserRepo().RegisterFirstAdmin(user))

	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return token
}

// do sends a JSON request through the router.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
