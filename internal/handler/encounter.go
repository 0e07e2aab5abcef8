package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/encounter"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// CrimeRequest is the body of POST /characters/{id}/crimes
type CrimeRequest struct {
	CrimeID string `json:"crime_id" validate:"required,max=64"`
}

// MissionRequest is the body of POST /characters/{id}/missions
type MissionRequest struct {
	MissionID string `json:"mission_id" validate:"required,max=64"`
}

// TrainRequest is the body of POST /characters/{id}/gym
type TrainRequest struct {
	GymID  string `json:"gym_id" validate:"required,max=64"`
	Stat   string `json:"stat" validate:"required,stat"`
	Energy int    `json:"energy" validate:"min=1,max=1000"`
}

// AttackRequest is the body of POST /characters/{id}/attack
type AttackRequest struct {
	DefenderID string `json:"defender_id" validate:"required,uuid"`
}

// EncounterHandler exposes crimes, missions, gym training and battles
type EncounterHandler struct {
	encounters encounter.Service
}

// NewEncounterHandler creates an EncounterHandler
func NewEncounterHandler(encounters encounter.Service) *EncounterHandler {
	return &EncounterHandler{encounters: encounters}
}

// HandleCommitCrime attempts a crime
func (h *EncounterHandler) HandleCommitCrime(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req CrimeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Commit crime"); err != nil {
		return
	}

	result, err := h.encounters.CommitCrime(r.Context(), id, req.CrimeID)
	if err != nil {
		respondServiceError(w, r, "commit crime", err)
		return
	}

	logger.ForCharacter(r.Context(), id).Info("Crime resolved",
		"crime", req.CrimeID, "success", result.Crime.Success, "caught", result.Crime.Caught)
	respondJSON(w, http.StatusOK, result)
}

// HandleCompleteMission completes a mission at the character's location
func (h *EncounterHandler) HandleCompleteMission(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req MissionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Complete mission"); err != nil {
		return
	}

	result, err := h.encounters.CompleteMission(r.Context(), id, req.MissionID)
	if err != nil {
		respondServiceError(w, r, "complete mission", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleTrain spends energy at a gym to raise one stat
func (h *EncounterHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req TrainRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Train"); err != nil {
		return
	}

	stat := domain.StatName(strings.ToLower(req.Stat))
	result, err := h.encounters.Train(r.Context(), id, req.GymID, stat, req.Energy)
	if err != nil {
		respondServiceError(w, r, "train", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleAttack starts a battle against the defender
func (h *EncounterHandler) HandleAttack(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req AttackRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Attack"); err != nil {
		return
	}

	result, err := h.encounters.Attack(r.Context(), id, parseUUID(req.DefenderID))
	if err != nil {
		respondServiceError(w, r, "attack", err)
		return
	}

	logger.FromContext(r.Context()).Info("Battle resolved",
		"attacker_id", id, "defender_id", req.DefenderID, "winner_id", result.Battle.WinnerID())
	respondJSON(w, http.StatusOK, result)
}
