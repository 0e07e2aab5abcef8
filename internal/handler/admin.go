package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// ResetCooldownRequest is the body of POST /admin/characters/{id}/cooldowns/reset
type ResetCooldownRequest struct {
	Action string `json:"action" validate:"required,max=96"`
}

// SetStatusRequest is the body of POST /admin/characters/{id}/status
type SetStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=jailed hospitalized"`
	Minutes int    `json:"minutes" validate:"min=1,max=10080"`
}

// JobRunResponse reports a manual batch run
type JobRunResponse struct {
	Job       string `json:"job"`
	Processed int    `json:"processed"`
}

// BatchFunc runs one periodic batch and returns how many records it touched
type BatchFunc func(ctx context.Context) (int, error)

// AdminHandler exposes operator actions
type AdminHandler struct {
	status cooldown.Service
	jobs   map[string]BatchFunc
}

// NewAdminHandler creates an AdminHandler. jobs maps a job name to its batch.
func NewAdminHandler(status cooldown.Service, jobs map[string]BatchFunc) *AdminHandler {
	return &AdminHandler{status: status, jobs: jobs}
}

// HandleResetCooldown clears one cooldown
func (h *AdminHandler) HandleResetCooldown(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req ResetCooldownRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reset cooldown"); err != nil {
		return
	}

	if err := h.status.ResetCooldown(r.Context(), id, req.Action); err != nil {
		respondServiceError(w, r, "reset cooldown", err)
		return
	}
	logger.ForCharacter(r.Context(), id).Info("Cooldown reset", "action", req.Action)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Cooldown reset"})
}

// HandleSetStatus jails or hospitalizes a character
func (h *AdminHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set status"); err != nil {
		return
	}

	availability, err := h.status.SetUnavailable(r.Context(), id, domain.Status(req.Status), time.Duration(req.Minutes)*time.Minute)
	if err != nil {
		respondServiceError(w, r, "set status", err)
		return
	}
	respondJSON(w, http.StatusOK, availability)
}

// HandleRunJob runs a named batch immediately
func (h *AdminHandler) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	fn, ok := h.jobs[name]
	if !ok {
		respondError(w, http.StatusNotFound, ErrMsgNotFoundError)
		return
	}

	n, err := fn(r.Context())
	if err != nil {
		respondServiceError(w, r, "run job "+name, err)
		return
	}
	logger.FromContext(r.Context()).Info("Job run manually", "job", name, "processed", n)
	respondJSON(w, http.StatusOK, JobRunResponse{Job: name, Processed: n})
}
