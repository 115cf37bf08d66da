package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/store"
	"github.com/dukerupert/chorecheck/internal/websocket"
)

type KidHandler struct {
	kids   *store.KidStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewKidHandler(kids *store.KidStore, hub *websocket.Hub, logger *slog.Logger) *KidHandler {
	return &KidHandler{kids: kids, hub: hub, logger: logger}
}

type kidRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	AvatarEmoji string `json:"avatar_emoji"`
	SortOrder   int    `json:"sort_order"`
}

func (h *KidHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req kidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	kid, err := h.kids.Create(req.Name, req.Color, req.AvatarEmoji, req.SortOrder)
	if err != nil {
		h.logger.Error("create kid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create kid")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("kid", "created", kid.ID, kid.ID))
	writeJSON(w, http.StatusCreated, kid)
}

func (h *KidHandler) List(w http.ResponseWriter, r *http.Request) {
	kids, err := h.kids.List()
	if err != nil {
		h.logger.Error("list kids", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list kids")
		return
	}
	if kids == nil {
		kids = []model.Kid{}
	}
	writeJSON(w, http.StatusOK, kids)
}

func (h *KidHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	kid, err := h.kids.GetByID(id)
	if err != nil {
		h.logger.Error("get kid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get kid")
		return
	}
	if kid == nil {
		writeError(w, http.StatusNotFound, "kid not found")
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

func (h *KidHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.kids.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get kid")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "kid not found")
		return
	}

	var req kidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	kid, err := h.kids.Update(id, req.Name, req.Color, req.AvatarEmoji, req.SortOrder)
	if err != nil {
		h.logger.Error("update kid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update kid")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("kid", "updated", id, id))
	writeJSON(w, http.StatusOK, kid)
}

func (h *KidHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.kids.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get kid")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "kid not found")
		return
	}

	if err := h.kids.Delete(id); err != nil {
		h.logger.Error("delete kid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete kid")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("kid", "deleted", id, id))
	w.WriteHeader(http.StatusNoContent)
}
