package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every HTTP route. The Events API and slash command
// routes need a signing secret and are left out without one.
func NewRouter(h *SlackHandler) *http.ServeMux {
	mux := http.NewServeMux()

	if h.signingSecret != "" {
		mux.HandleFunc("POST /slack/events", h.HandleEvents)
		mux.HandleFunc("POST /slack/commands", h.HandleSlashCommand)
	}
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
