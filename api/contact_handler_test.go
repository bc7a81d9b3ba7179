package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/database"
)

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/contact", "", map[string]any{
		"first_name": "Ann",
		"last_name":  "Archer",
		"email":      "ann@example.com",
		"message":    "Hello there",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	response := decodeJSON[contactSubmitResponse](t, rec)
	assert.True(t, response.Success)
	assert.Contains(t, response.Message, "Thank you")

	submissions, err := env.db.ContactRepo().FindAll(database.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "Ann", submissions[0].FirstName)
	assert.False(t, submissions[0].IsRead)
	assert.NotNil(t, submissions[0].IPAddress)

	// The notification is dispatched in the background after the response.
	select {
	case call := <-env.notifier.calls:
		assert.Equal(t, "Ann", call.firstName)
		assert.Equal(t, "Archer", call.lastName)
		assert.Equal(t, "ann@example.com", call.email)
		assert.Equal(t, "Hello there", call.message)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification attempt")
	}
}

func TestContactSubmitValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/contact", "", map[string]any{
		"first_name": "Ann",
		"message":    "no email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/contact", "", map[string]any{
		"first_name": "Ann",
		"email":      "not-an-email",
		"message":    "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	submissions, err := env.db.ContactRepo().FindAll(database.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func submitContact(t *testing.T, env *testEnv, firstName string) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1/contact", "", map[string]any{
		"first_name": firstName,
		"email":      firstName + "@example.com",
		"message":    "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestContactAdminListAndStats(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	submitContact(t, env, "ann")
	submitContact(t, env, "bob")

	rec := env.do(t, http.MethodGet, "/api/v1/contact", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	submissions := decodeJSON[[]map[string]any](t, rec)
	assert.Len(t, submissions, 2)

	rec = env.do(t, http.MethodGet, "/api/v1/contact/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeJSON[database.ContactStats](t, rec)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Unread)
	assert.Zero(t, stats.Archived)

	rec = env.do(t, http.MethodGet, "/api/v1/contact?is_read=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeJSON[[]map[string]any](t, rec))
}

func TestContactUpdateFlags(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	submitContact(t, env, "ann")

	rec := env.do(t, http.MethodGet, "/api/v1/contact", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	submissions := decodeJSON[[]map[string]any](t, rec)
	require.Len(t, submissions, 1)
	id := int(submissions[0]["id"].(float64))

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/contact/%d", id), token, map[string]any{
		"is_archived": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, true, updated["is_archived"])
	assert.Equal(t, false, updated["is_read"])
	assert.Equal(t, "hello", updated["message"])
}

func TestContactMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	submitContact(t, env, "ann")
	submitContact(t, env, "bob")

	rec := env.do(t, http.MethodPost, "/api/v1/contact/mark-all-read", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "All submissions marked as read", body["message"])

	rec = env.do(t, http.MethodGet, "/api/v1/contact/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeJSON[database.ContactStats](t, rec)
	assert.Zero(t, stats.Unread)
}

func TestContactDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	submitContact(t, env, "ann")

	rec := env.do(t, http.MethodGet, "/api/v1/contact", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	submissions := decodeJSON[[]map[string]any](t, rec)
	require.Len(t, submissions, 1)
	id := int(submissions[0]["id"].(float64))

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/contact/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/contact/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	ascii := strings.Repeat("a", 600)
	got := truncate(ascii, 500)
	require.NotNil(t, got)
	assert.Len(t, *got, 500)

	// A multibyte rune straddling the cap is dropped whole.
	straddled := strings.Repeat("a", 499) + "é"
	got = truncate(straddled, 500)
	require.NotNil(t, got)
	assert.Len(t, *got, 499)
	assert.True(t, utf8.ValidString(*got))

	assert.Nil(t, truncate("", 500))

	short := truncate("short", 500)
	require.NotNil(t, short)
	assert.Equal(t, "short", *short)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.Contains(t, health, "uptime")

	rec = env.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
