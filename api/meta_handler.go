package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type metaHandler struct {
	responder   Responder
	startupTime time.Time
}

func newMetaHandler() metaHandler {
	logger := log.With().Str("handlerName", "metaHandler").Logger()
	return metaHandler{
		responder:   NewResponder(logger),
		startupTime: time.Now(),
	}
}

func (h metaHandler) root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"name":   "Portfolio API",
			"health": "/health",
		})
	}
}

func (h metaHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"status": "healthy",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
