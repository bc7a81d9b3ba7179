package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// parseIDParam reads a positive integer id from the route.
func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

// parseBoolQuery reads an optional boolean query parameter; absence is nil.
func parseBoolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &val, nil
}

// applyExplicitNulls marks nullable columns the request set to JSON null.
// The pointer DTO fields cannot tell null from absent, so the raw document
// decides when a column is being cleared rather than left alone.
func applyExplicitNulls(raw map[string]json.RawMessage, fields map[string]any, columns ...string) {
	for _, column := range columns {
		if value, ok := raw[column]; ok && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			fields[column] = nil
		}
	}
}

// parsePagination reads skip/limit query parameters, clamping limit to
// [1, maxLimit] and skip to >= 0.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (skip, limit int) {
	skip = 0
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			skip = parsed
		}
	}

	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}
