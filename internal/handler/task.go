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

type TaskHandler struct {
	tasks  *store.TaskStore
	kids   *store.KidStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTaskHandler(tasks *store.TaskStore, kids *store.KidStore, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, kids: kids, hub: hub, logger: logger}
}

type taskRequest struct {
	KidID   int64     `json:"kid_id"`
	Title   string    `json:"title"`
	DueDate week.Date `json:"due_date"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.DueDate.Valid() {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
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

	task, err := h.tasks.Create(req.KidID, req.Title, req.DueDate)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("task", "created", task.ID, task.KidID))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListByKid(w http.ResponseWriter, r *http.Request) {
	kidID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tasks, err := h.tasks.ListByKid(kidID)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.DueDate.Valid() {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	task, err := h.tasks.Update(id, req.Title, req.DueDate)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("task", "updated", id, task.KidID))
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		h.logger.Error("delete task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("task", "deleted", id, existing.KidID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, true)
}

func (h *TaskHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, false)
}

func (h *TaskHandler) setCompletion(w http.ResponseWriter, r *http.Request, done bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var task *model.Task
	action := "completed"
	if done {
		task, err = h.tasks.Complete(id, time.Now())
	} else {
		task, err = h.tasks.Uncomplete(id)
		action = "completion_undone"
	}
	if err != nil {
		h.logger.Error("set task completion", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("task", action, id, task.KidID))
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Excuse(w http.ResponseWriter, r *http.Request) {
	h.setExcuse(w, r, true)
}

func (h *TaskHandler) Unexcuse(w http.ResponseWriter, r *http.Request) {
	h.setExcuse(w, r, false)
}

func (h *TaskHandler) setExcuse(w http.ResponseWriter, r *http.Request, excused bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var task *model.Task
	action := "excused"
	if excused {
		task, err = h.tasks.Excuse(id, time.Now())
	} else {
		task, err = h.tasks.Unexcuse(id)
		action = "unexcused"
	}
	if err != nil {
		h.logger.Error("set task excuse", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("task", action, id, task.KidID))
	writeJSON(w, http.StatusOK, task)
}
