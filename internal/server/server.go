package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorecheck/internal/handler"
	"github.com/dukerupert/chorecheck/internal/middleware"
	"github.com/dukerupert/chorecheck/internal/store"
	ws "github.com/dukerupert/chorecheck/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	kidH           *handler.KidHandler
	choreH         *handler.ChoreHandler
	taskH          *handler.TaskHandler
	qualificationH *handler.QualificationHandler
	agendaH        *handler.AgendaHandler
	logger         *slog.Logger
}

func New(db *sql.DB, loc *time.Location, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	kidStore := store.NewKidStore(db)
	choreStore := store.NewChoreStore(db)
	taskStore := store.NewTaskStore(db)
	claimStore := store.NewClaimStore(db)

	return &Server{
		db:             db,
		hub:            hub,
		kidH:           handler.NewKidHandler(kidStore, hub, logger.With("component", "kid")),
		choreH:         handler.NewChoreHandler(choreStore, kidStore, hub, loc, logger.With("component", "chore")),
		taskH:          handler.NewTaskHandler(taskStore, kidStore, hub, logger.With("component", "task")),
		qualificationH: handler.NewQualificationHandler(kidStore, choreStore, taskStore, claimStore, hub, loc, logger.With("component", "qualification")),
		agendaH:        handler.NewAgendaHandler(kidStore, choreStore, taskStore, loc, logger.With("component", "agenda")),
		logger:         logger,
	}
}

// Hub returns the websocket hub so callers can observe connection counts.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Kid API routes
	mux.HandleFunc("POST /api/kids", s.kidH.Create)
	mux.HandleFunc("GET /api/kids", s.kidH.List)
	mux.HandleFunc("GET /api/kids/{id}", s.kidH.Get)
	mux.HandleFunc("PUT /api/kids/{id}", s.kidH.Update)
	mux.HandleFunc("DELETE /api/kids/{id}", s.kidH.Delete)

	// Chore definition API routes
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/kids/{id}/chores", s.choreH.ListByKid)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)

	// Chore occurrence routes: completion and excusal
	mux.HandleFunc("POST /api/occurrences/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("DELETE /api/occurrences/{id}/complete", s.choreH.UndoComplete)
	mux.HandleFunc("POST /api/occurrences/{id}/excuse", s.choreH.Excuse)
	mux.HandleFunc("DELETE /api/occurrences/{id}/excuse", s.choreH.Unexcuse)

	// Task API routes
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/kids/{id}/tasks", s.taskH.ListByKid)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("DELETE /api/tasks/{id}/complete", s.taskH.Uncomplete)
	mux.HandleFunc("POST /api/tasks/{id}/excuse", s.taskH.Excuse)
	mux.HandleFunc("DELETE /api/tasks/{id}/excuse", s.taskH.Unexcuse)

	// Weekly qualification and reward claims
	mux.HandleFunc("GET /api/kids/{id}/qualification", s.qualificationH.Get)
	mux.HandleFunc("POST /api/kids/{id}/claim", s.qualificationH.Claim)
	mux.HandleFunc("GET /api/claims/pending", s.qualificationH.PendingClaims)
	mux.HandleFunc("POST /api/claims/{id}/dismiss", s.qualificationH.Dismiss)

	// Agenda
	mux.HandleFunc("GET /api/kids/{id}/agenda", s.agendaH.Get)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
