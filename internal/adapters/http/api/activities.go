package api

import (
	"context"
	"net/http"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

// ActivitiesDependencies defines the interface for listing activities.
type ActivitiesDependencies interface {
	Activities(ctx context.Context) (types.ActivityList, error)
}

// ActivitiesHandler handles activity listing requests.
type ActivitiesHandler struct {
	deps   ActivitiesDependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivitiesDependencies, log logger.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps, logger: log}
}

// HandleList handles GET /activities requests.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_activities"
	list, err := h.deps.Activities(r.Context())
	if err != nil {
		writeRegistryError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
