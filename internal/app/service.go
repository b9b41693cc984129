// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

// ErrNotStarted is returned by operations invoked before Start.
var ErrNotStarted = errors.New("activity service not started")

// Operation names used in logs and metrics.
const (
	opSignup     = "signup"
	opUnregister = "unregister"
)

// Service implements the API dependencies for the activity registry.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	injected bool

	// Configuration
	activities []model.Activity

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithActivities replaces the built-in seed activities.
func WithActivities(activities []model.Activity) Option {
	return func(s *Service) {
		if activities != nil {
			s.activities = activities
		}
	}
}

// WithStore injects a registry implementation; the seed activities are then ignored.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.injected = true
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		activities: model.DefaultActivities(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the registry. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activity service...")

	if !s.injected {
		for _, a := range s.activities {
			if err := a.Validate(); err != nil {
				return fmt.Errorf("seed activity: %w", err)
			}
		}
		s.store = repository.NewMemoryStore(ctx, repository.WithActivities(s.activities))
	}

	s.started = true
	s.logger.Info(ctx, "activity service started",
		logger.Int("activities", s.store.Count(ctx)),
		logger.Int("participants", s.store.Participants(ctx)),
	)

	return nil
}

// Stop shuts the service down. The registry is dropped unless it was injected.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if !s.injected {
		s.store = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "activity service stopped")
}

// registry returns the store of a started service.
func (s *Service) registry() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Activities returns every activity in registry order.
func (s *Service) Activities(ctx context.Context) (types.ActivityList, error) {
	store, err := s.registry()
	if err != nil {
		return nil, err
	}

	activities, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return types.NewActivityList(activities), nil
}

// Signup enrolls email in the named activity.
func (s *Service) Signup(ctx context.Context, activity, email string) (types.MessageResponse, error) {
	store, err := s.registry()
	if err != nil {
		return types.MessageResponse{}, err
	}

	if err := store.Signup(ctx, activity, email); err != nil {
		s.rejected(ctx, opSignup, activity, email, err)
		return types.MessageResponse{}, err
	}

	metrics.RecordSignup()
	s.logger.Info(ctx, "student signed up",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return types.MessageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, activity)}, nil
}

// Unregister withdraws email from the named activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) (types.MessageResponse, error) {
	store, err := s.registry()
	if err != nil {
		return types.MessageResponse{}, err
	}

	if err := store.Unregister(ctx, activity, email); err != nil {
		s.rejected(ctx, opUnregister, activity, email, err)
		return types.MessageResponse{}, err
	}

	metrics.RecordUnregistration()
	s.logger.Info(ctx, "student unregistered",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return types.MessageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, activity)}, nil
}

// rejected logs and counts a refused membership change.
func (s *Service) rejected(ctx context.Context, op, activity, email string, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		reason = "activity_not_found"
	case errors.Is(err, repository.ErrAlreadySignedUp):
		reason = "already_signed_up"
	case errors.Is(err, repository.ErrNotSignedUp):
		reason = "not_signed_up"
	}
	metrics.RecordMembershipError(op, reason)

	fields := []logger.Field{
		logger.String("operation", op),
		logger.String("activity", activity),
		logger.String("email", email),
		logger.String("reason", reason),
	}
	if reason == "internal" {
		s.logger.Error(ctx, "membership change failed", append(fields, logger.Error(err))...)
		return
	}
	s.logger.Warn(ctx, "membership change rejected", fields...)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		ctx := context.Background()
		activities := s.store.Count(ctx)
		participants := s.store.Participants(ctx)

		stats["activities"] = activities
		stats["participants"] = participants

		metrics.UpdateActivities(activities)
		metrics.UpdateParticipants(participants)
	}

	return stats
}
