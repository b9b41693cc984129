package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

// Path and query parameter names.
const (
	paramActivityName = "activity_name"
	paramEmail        = "email"
)

// MembershipDependencies defines the interface for signup and unregister.
type MembershipDependencies interface {
	Signup(ctx context.Context, activity, email string) (types.MessageResponse, error)
	Unregister(ctx context.Context, activity, email string) (types.MessageResponse, error)
}

// MembershipHandler handles signup and unregister requests.
type MembershipHandler struct {
	deps   MembershipDependencies
	logger logger.Logger
}

// NewMembershipHandler creates a new membership handler.
func NewMembershipHandler(deps MembershipDependencies, log logger.Logger) *MembershipHandler {
	return &MembershipHandler{deps: deps, logger: log}
}

// HandleSignup handles POST /activities/{activity_name}/signup?email= requests.
func (h *MembershipHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.signup", h.deps.Signup)
}

// HandleUnregister handles POST /activities/{activity_name}/unregister?email= requests.
func (h *MembershipHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.unregister", h.deps.Unregister)
}

var errMissingEmail = errors.New("missing email query parameter")

type membershipFunc func(ctx context.Context, activity, email string) (types.MessageResponse, error)

func (h *MembershipHandler) handle(w http.ResponseWriter, r *http.Request, op string, change membershipFunc) {
	activity := r.PathValue(paramActivityName)
	email := r.URL.Query().Get(paramEmail)
	if email == "" {
		err := WrapKind(op, ErrBadRequest, errMissingEmail)
		h.logger.Debug(r.Context(), "rejected request", logger.Error(err))
		writeError(w, http.StatusUnprocessableEntity, errMissingEmail.Error())
		return
	}

	resp, err := change(r.Context(), activity, email)
	if err != nil {
		writeRegistryError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
