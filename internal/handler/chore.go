package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/store"
	"github.com/dukerupert/chorecheck/internal/week"
	"github.com/dukerupert/chorecheck/internal/websocket"
)

type ChoreHandler struct {
	chores *store.ChoreStore
	kids   *store.KidStore
	hub    *websocket.Hub
	loc    *time.Location
	logger *slog.Logger
}

func NewChoreHandler(chores *store.ChoreStore, kids *store.KidStore, hub *websocket.Hub, loc *time.Location, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{chores: chores, kids: kids, hub: hub, loc: loc, logger: logger}
}

type choreRequest struct {
	KidID      int64  `json:"kid_id"`
	Name       string `json:"name"`
	Flexible   bool   `json:"flexible"`
	DaysOfWeek string `json:"days_of_week"`
	Active     *bool  `json:"active"`
}

func validDays(daysOfWeek string) bool {
	for _, name := range strings.Split(daysOfWeek, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := week.ParseDay(name); err != nil {
			return false
		}
	}
	return true
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validDays(req.DaysOfWeek) {
		writeError(w, http.StatusBadRequest, "invalid days_of_week")
		return
	}

	kid, err := h.kids.GetByID(req.KidID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check kid")
		return
	}
	if kid == nil {
		writeError(w, http.StatusBadRequest, "kid not found")
		return
	}

	chore, err := h.chores.Create(req.KidID, req.Name, req.Flexible, req.DaysOfWeek)
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}

	// Materialize the current week so the new chore shows up immediately.
	monday := week.MondayOf(time.Now(), h.loc)
	if err := h.chores.EnsureWeek(req.KidID, monday); err != nil {
		h.logger.Error("materialize week", "kid_id", req.KidID, "error", err)
	}

	h.hub.Broadcast(websocket.NewEvent("chore", "created", chore.ID, chore.KidID))
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) ListByKid(w http.ResponseWriter, r *http.Request) {
	kidID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	chores, err := h.chores.ListByKid(kidID)
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validDays(req.DaysOfWeek) {
		writeError(w, http.StatusBadRequest, "invalid days_of_week")
		return
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	chore, err := h.chores.Update(id, req.Name, req.Flexible, req.DaysOfWeek, active)
	if err != nil {
		h.logger.Error("update chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("chore", "updated", id, chore.KidID))
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	if err := h.chores.Delete(id); err != nil {
		h.logger.Error("delete chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("chore", "deleted", id, existing.KidID))
	w.WriteHeader(http.StatusNoContent)
}

// Complete records a completion for a chore occurrence. The completion's
// calendar date is derived from the current instant in the configured
// timezone; lateness falls out of that date at evaluation time.
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	occ, err := h.chores.GetOccurrence(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get occurrence")
		return
	}
	if occ == nil {
		writeError(w, http.StatusNotFound, "chore occurrence not found")
		return
	}

	now := time.Now()
	completion, err := h.chores.Complete(id, now, week.DateOf(now, h.loc))
	if err != nil {
		h.logger.Error("complete occurrence", "occurrence_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete chore")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("occurrence", "completed", id, occ.KidID))
	writeJSON(w, http.StatusCreated, completion)
}

func (h *ChoreHandler) UndoComplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	occ, err := h.chores.GetOccurrence(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get occurrence")
		return
	}
	if occ == nil {
		writeError(w, http.StatusNotFound, "chore occurrence not found")
		return
	}

	if err := h.chores.UndoComplete(id); err != nil {
		h.logger.Error("undo completion", "occurrence_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to undo completion")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("occurrence", "completion_undone", id, occ.KidID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Excuse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	occ, err := h.chores.GetOccurrence(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get occurrence")
		return
	}
	if occ == nil {
		writeError(w, http.StatusNotFound, "chore occurrence not found")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.chores.Excuse(id, req.Reason); err != nil {
		h.logger.Error("excuse occurrence", "occurrence_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to excuse chore")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("occurrence", "excused", id, occ.KidID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Unexcuse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	occ, err := h.chores.GetOccurrence(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get occurrence")
		return
	}
	if occ == nil {
		writeError(w, http.StatusNotFound, "chore occurrence not found")
		return
	}

	if err := h.chores.Unexcuse(id); err != nil {
		h.logger.Error("unexcuse occurrence", "occurrence_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unexcuse chore")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("occurrence", "unexcused", id, occ.KidID))
	w.WriteHeader(http.StatusNoContent)
}
