// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Activities returns every activity keyed by name.
	Activities(ctx context.Context) (types.ActivityList, error)

	// Signup and Unregister change membership of one activity.
	Signup(ctx context.Context, activity, email string) (types.MessageResponse, error)
	Unregister(ctx context.Context, activity, email string) (types.MessageResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	membershipHandler *MembershipHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers. A nil logger falls
// back to the global one.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps, log),
		membershipHandler: NewMembershipHandler(deps, log),
		logger:            log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestIDMiddleware(s.logger, MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	route("GET /activities", "activities", s.activitiesHandler.HandleList)
	route("POST /activities/{activity_name}/signup", "signup", s.membershipHandler.HandleSignup)
	route("POST /activities/{activity_name}/unregister", "unregister", s.membershipHandler.HandleUnregister)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, types.ErrorDetail{Detail: detail})
}

// Detail returned for unknown activities.
const detailActivityNotFound = "Activity not found"

// writeRegistryError translates registry errors into HTTP responses.
// Unexpected errors are logged and answered with 500.
func writeRegistryError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, detailActivityNotFound)
	case errors.Is(err, repository.ErrAlreadySignedUp), errors.Is(err, repository.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(r.Context(), "request failed",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(WrapKind(op, ErrInternal, err)),
		)
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
