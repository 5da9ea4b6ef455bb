package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/oracle/internal/scheduler"
)

// JobsHandler exposes scheduler state when the server runs with an
// embedded scheduler.
type JobsHandler struct {
	scheduler *scheduler.Scheduler
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(s *scheduler.Scheduler) *JobsHandler {
	return &JobsHandler{scheduler: s}
}

// GetStats returns per-job execution statistics.
// GET /api/jobs
func (h *JobsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.Stats())
}

// TriggerJob runs a registered job immediately.
// POST /api/jobs/{name}/run
func (h *JobsHandler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}
