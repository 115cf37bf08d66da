package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorecheck/internal/agenda"
	"github.com/dukerupert/chorecheck/internal/store"
	"github.com/dukerupert/chorecheck/internal/week"
)

type AgendaHandler struct {
	kids   *store.KidStore
	chores *store.ChoreStore
	tasks  *store.TaskStore
	loc    *time.Location
	logger *slog.Logger
}

func NewAgendaHandler(kids *store.KidStore, chores *store.ChoreStore, tasks *store.TaskStore, loc *time.Location, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{kids: kids, chores: chores, tasks: tasks, loc: loc, logger: logger}
}

type agendaResponse struct {
	KidID     int64         `json:"kid_id"`
	WeekStart week.Date     `json:"week_start"`
	Today     week.Date     `json:"today"`
	Items     []agenda.Item `json:"items"`
}

// Get returns the kid's combined chore and task list for the current week,
// with display status and in display order. Unlike the qualification window
// (Monday through Friday), the agenda shows the full calendar week.
func (h *AgendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	kid, err := h.kids.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get kid")
		return
	}
	if kid == nil {
		writeError(w, http.StatusNotFound, "kid not found")
		return
	}

	now := time.Now()
	monday := week.MondayOf(now, h.loc)
	sunday := week.DateFor(monday, time.Sunday)

	if err := h.chores.EnsureWeek(kid.ID, monday); err != nil {
		h.logger.Error("materialize week", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build agenda")
		return
	}

	snapshot, err := h.chores.WeekSnapshot(kid.ID, monday, sunday)
	if err != nil {
		h.logger.Error("week snapshot", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build agenda")
		return
	}
	choreInputs := make([]agenda.ChoreInput, 0, len(snapshot))
	for _, row := range snapshot {
		choreInputs = append(choreInputs, row.AgendaInput())
	}

	tasks, err := h.tasks.ListForWeek(kid.ID, monday, sunday)
	if err != nil {
		h.logger.Error("list tasks for week", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build agenda")
		return
	}
	taskInputs := make([]agenda.TaskInput, 0, len(tasks))
	for _, t := range tasks {
		taskInputs = append(taskInputs, store.AgendaInput(t))
	}

	items := agenda.Build(choreInputs, taskInputs, now, h.loc)
	if items == nil {
		items = []agenda.Item{}
	}

	writeJSON(w, http.StatusOK, agendaResponse{
		KidID:     kid.ID,
		WeekStart: monday,
		Today:     week.DateOf(now, h.loc),
		Items:     items,
	})
}
