package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/pkg/metrics"
)

// Registry operation names used for metrics labels.
const (
	opList       = "list"
	opGet        = "get"
	opSignup     = "signup"
	opUnregister = "unregister"
)

// MemoryStore is the in-memory activity registry. The activity set is fixed
// at construction; only participant lists change afterwards.
type MemoryStore struct {
	mu         sync.RWMutex
	order      []string
	activities map[string]*model.Activity

	seed           []model.Activity
	metricsEnabled bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store from the configured seed.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		activities:     make(map[string]*model.Activity),
		metricsEnabled: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, a := range s.seed {
		rec := a.Normalized()
		if _, exists := s.activities[rec.Name]; !exists {
			s.order = append(s.order, rec.Name)
		}
		s.activities[rec.Name] = &rec
	}
	s.seed = nil

	s.mu.Lock()
	s.publishGaugesLocked(s.order...)
	s.mu.Unlock()
	return s
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context) ([]model.Activity, error) {
	defer s.observe(opList, time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Activity, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.activities[name].Clone())
	}
	return out, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	defer s.observe(opGet, time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	return a.Clone(), nil
}

// Signup implements Store.Signup.
func (s *MemoryStore) Signup(_ context.Context, name, email string) error {
	defer s.observe(opSignup, time.Now())

	s.mu.Lock()
	a, ok := s.activities[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	if a.HasParticipant(email) {
		s.mu.Unlock()
		return fmt.Errorf("%s is %w for %s", email, ErrAlreadySignedUp, name)
	}
	a.Participants = append(a.Participants, email)
	s.publishGaugesLocked(name)
	s.mu.Unlock()
	return nil
}

// Unregister implements Store.Unregister.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) error {
	defer s.observe(opUnregister, time.Now())

	s.mu.Lock()
	a, ok := s.activities[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s is %w for %s", email, ErrNotSignedUp, name)
	}
	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	s.publishGaugesLocked(name)
	s.mu.Unlock()
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Participants implements Store.Participants.
func (s *MemoryStore) Participants(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participantsLocked()
}

func (s *MemoryStore) participantsLocked() int {
	total := 0
	for _, a := range s.activities {
		total += len(a.Participants)
	}
	return total
}

// publishGaugesLocked refreshes registry gauges for the named activities.
// Callers hold the write lock so concurrent updates publish in mutation order.
func (s *MemoryStore) publishGaugesLocked(names ...string) {
	if !s.metricsEnabled {
		return
	}

	for _, name := range names {
		if a, ok := s.activities[name]; ok {
			metrics.UpdateActivityParticipants(name, len(a.Participants))
		}
	}
	metrics.UpdateParticipants(s.participantsLocked())
	metrics.UpdateActivities(len(s.order))
}

func (s *MemoryStore) observe(op string, start time.Time) {
	if s.metricsEnabled {
		metrics.RecordRegistryLatency(op, float64(time.Since(start).Microseconds())/1000)
	}
}
