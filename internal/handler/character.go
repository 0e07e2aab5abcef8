package handler

import (
	"net/http"

	"github.com/osse101/Underworld_Go/internal/achievement"
	"github.com/osse101/Underworld_Go/internal/character"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// CreateCharacterRequest is the body of POST /characters
type CreateCharacterRequest struct {
	Name string `json:"name" validate:"required,max=30,excludesall=\x00\n\r\t"`
	Type string `json:"character_type" validate:"required,oneof=criminal police"`
}

// CharacterView is a character as shown to players
type CharacterView struct {
	*domain.Character
	MoneyDisplay     string                `json:"money_display"`
	BankDisplay      string                `json:"bank_money_display"`
	ExperienceToNext int64                 `json:"experience_to_next_level"`
	Availability     cooldown.Availability `json:"availability"`
}

func newCharacterView(c *domain.Character, a cooldown.Availability) CharacterView {
	return CharacterView{
		Character:        c,
		MoneyDisplay:     domain.FormatMoney(c.Money),
		BankDisplay:      domain.FormatMoney(c.BankMoney),
		ExperienceToNext: domain.ExperienceToNextLevel(c.Level, c.Experience),
		Availability:     a,
	}
}

// CharacterHandler serves the character record, its history and achievements
type CharacterHandler struct {
	characters   character.Service
	status       cooldown.Service
	achievements achievement.Service
	journal      eventlog.Service
}

// NewCharacterHandler creates a CharacterHandler. journal may be nil when no journal is configured.
func NewCharacterHandler(characters character.Service, status cooldown.Service, achievements achievement.Service, journal eventlog.Service) *CharacterHandler {
	return &CharacterHandler{characters: characters, status: status, achievements: achievements, journal: journal}
}

// HandleCreate creates a character
func (h *CharacterHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create character"); err != nil {
		return
	}

	c, err := h.characters.Create(r.Context(), req.Name, domain.CharacterType(req.Type))
	if err != nil {
		respondServiceError(w, r, "create character", err)
		return
	}

	logger.ForCharacter(r.Context(), c.ID).Info("Character created", "name", c.Name)
	respondJSON(w, http.StatusCreated, newCharacterView(c, cooldown.Availability{Available: true, Status: domain.StatusFree}))
}

// HandleGet returns the character after releasing any expired status window
func (h *CharacterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	availability, err := h.status.CheckAvailable(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "check availability", err)
		return
	}
	c, err := h.characters.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get character", err)
		return
	}

	respondJSON(w, http.StatusOK, newCharacterView(c, availability))
}

// HandleDelete removes a character and everything it owns
func (h *CharacterHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	if err := h.characters.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, "delete character", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory returns the most recent crimes, missions and battles
func (h *CharacterHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := LimitParam(w, r, repository.DefaultHistoryLimit)
	if !ok {
		return
	}

	hist, err := h.characters.History(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, r, "character history", err)
		return
	}
	respondJSON(w, http.StatusOK, hist)
}

// HandleActivity returns the journal entries that mention the character
func (h *CharacterHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := LimitParam(w, r, eventlog.DefaultLimit)
	if !ok {
		return
	}
	if h.journal == nil {
		respondJSON(w, http.StatusOK, []eventlog.Entry{})
		return
	}

	entries, err := h.journal.Activity(r.Context(), id.String(), limit)
	if err != nil {
		respondServiceError(w, r, "character activity", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleAchievements lists earned achievements, oldest first
func (h *CharacterHandler) HandleAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	earned, err := h.achievements.List(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list achievements", err)
		return
	}
	respondJSON(w, http.StatusOK, earned)
}

// HandleEvaluateAchievements re-checks thresholds and returns what was newly earned
func (h *CharacterHandler) HandleEvaluateAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	earned, err := h.achievements.Reevaluate(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "evaluate achievements", err)
		return
	}
	if earned == nil {
		earned = []domain.EarnedAchievement{}
	}
	respondJSON(w, http.StatusOK, earned)
}

// HandleCooldown reports whether the action in the query may run now
func (h *CharacterHandler) HandleCooldown(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	action, ok := GetQueryParam(r, w, "action")
	if !ok {
		return
	}

	readiness, err := h.status.CheckCooldown(r.Context(), id, action)
	if err != nil {
		respondServiceError(w, r, "check cooldown", err)
		return
	}
	respondJSON(w, http.StatusOK, readiness)
}
