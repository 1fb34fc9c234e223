package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status           string    `json:"status"`
	NextWeeklyPrompt time.Time `json:"next_weekly_prompt"`
	PendingRequests  int       `json:"pending_requests"`
}

func (h *SlackHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:           "ok",
		NextWeeklyPrompt: h.schedule.NextRun(),
	}
	status := http.StatusOK

	pending, err := h.dm.Request().ListPending(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("Health check could not read pending requests")
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	response.PendingRequests = len(pending)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
