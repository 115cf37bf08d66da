package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/qualification"
	"github.com/dukerupert/chorecheck/internal/store"
	"github.com/dukerupert/chorecheck/internal/week"
	"github.com/dukerupert/chorecheck/internal/websocket"
)

type QualificationHandler struct {
	kids   *store.KidStore
	chores *store.ChoreStore
	tasks  *store.TaskStore
	claims *store.ClaimStore
	hub    *websocket.Hub
	loc    *time.Location
	logger *slog.Logger
}

func NewQualificationHandler(kids *store.KidStore, chores *store.ChoreStore, tasks *store.TaskStore, claims *store.ClaimStore, hub *websocket.Hub, loc *time.Location, logger *slog.Logger) *QualificationHandler {
	return &QualificationHandler{
		kids:   kids,
		chores: chores,
		tasks:  tasks,
		claims: claims,
		hub:    hub,
		loc:    loc,
		logger: logger,
	}
}

type qualificationResponse struct {
	KidID     int64                `json:"kid_id"`
	KidName   string               `json:"kid_name"`
	WeekStart week.Date            `json:"week_start"`
	WeekEnd   week.Date            `json:"week_end"`
	Today     week.Date            `json:"today"`
	Status    qualification.Status `json:"status"`
}

// evaluateWeek materializes and snapshots the kid's week and runs the
// qualification engine over it.
func (h *QualificationHandler) evaluateWeek(kid *model.Kid, monday week.Date, now time.Time) (qualificationResponse, error) {
	friday := week.FridayOf(monday)
	today := week.DateOf(now, h.loc)

	if err := h.chores.EnsureWeek(kid.ID, monday); err != nil {
		return qualificationResponse{}, err
	}

	snapshot, err := h.chores.WeekSnapshot(kid.ID, monday, friday)
	if err != nil {
		return qualificationResponse{}, err
	}
	choreRows := make([]qualification.ChoreRow, 0, len(snapshot))
	for _, r := range snapshot {
		choreRows = append(choreRows, r.QualificationRow())
	}

	tasks, err := h.tasks.ListForWeek(kid.ID, monday, friday)
	if err != nil {
		return qualificationResponse{}, err
	}
	taskRows := make([]qualification.TaskRow, 0, len(tasks))
	for _, t := range tasks {
		taskRows = append(taskRows, store.QualificationRow(t))
	}

	claim, err := h.claims.GetForWeek(kid.ID, monday)
	if err != nil {
		return qualificationResponse{}, err
	}

	return qualificationResponse{
		KidID:     kid.ID,
		KidName:   kid.Name,
		WeekStart: monday,
		WeekEnd:   friday,
		Today:     today,
		Status:    qualification.Evaluate(kid.Name, choreRows, taskRows, today, friday, claim),
	}, nil
}

// Get evaluates the kid's qualification for the current week, or for the week
// given by the optional ?week=YYYY-MM-DD query parameter (any date within the
// target week works; it is snapped to its Monday).
func (h *QualificationHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	if qs := r.URL.Query().Get("week"); qs != "" {
		d := week.Date(qs)
		if !d.Valid() {
			writeError(w, http.StatusBadRequest, "week must be YYYY-MM-DD")
			return
		}
		// Snap to the Monday of the week containing the given date.
		monday = week.MondayOfDate(d)
	}

	resp, err := h.evaluateWeek(kid, monday, now)
	if err != nil {
		h.logger.Error("evaluate week", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to evaluate week")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Claim lets a kid cash in the current week. The week must currently
// evaluate as qualified and must not already be claimed.
func (h *QualificationHandler) Claim(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		RewardType model.RewardType `json:"reward_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.RewardType != model.RewardScreenTime && req.RewardType != model.RewardMoney {
		writeError(w, http.StatusBadRequest, "reward_type must be screen_time or money")
		return
	}

	now := time.Now()
	monday := week.MondayOf(now, h.loc)

	resp, err := h.evaluateWeek(kid, monday, now)
	if err != nil {
		h.logger.Error("evaluate week", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to evaluate week")
		return
	}
	if resp.Status.Claim != nil {
		writeError(w, http.StatusConflict, "week already claimed")
		return
	}
	if !resp.Status.Qualified {
		writeError(w, http.StatusConflict, "week is not qualified")
		return
	}

	claim, err := h.claims.Create(kid.ID, monday, req.RewardType)
	if err != nil {
		h.logger.Error("create claim", "kid_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("claim", "created", 0, kid.ID))
	writeJSON(w, http.StatusCreated, claim)
}

// Dismiss marks a claim as seen by a parent.
func (h *QualificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	existing, err := h.claims.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	}

	claim, err := h.claims.Dismiss(id)
	if err != nil {
		h.logger.Error("dismiss claim", "claim_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to dismiss claim")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("claim", "dismissed", 0, claim.KidID))
	writeJSON(w, http.StatusOK, claim)
}

// PendingClaims lists undismissed claims across all kids for the parent view.
func (h *QualificationHandler) PendingClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claims.ListPending()
	if err != nil {
		h.logger.Error("list pending claims", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.IncentiveClaim{}
	}
	writeJSON(w, http.StatusOK, claims)
}
