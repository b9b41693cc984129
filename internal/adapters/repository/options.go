package repository

import "github.com/mergington/activities/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithActivities seeds the store. Later entries replace earlier ones with
// the same name but keep the first position.
func WithActivities(activities []model.Activity) Option {
	return func(s *MemoryStore) {
		s.seed = append(s.seed, activities...)
	}
}

// WithMetrics toggles registry metrics recording.
func WithMetrics(enabled bool) Option {
	return func(s *MemoryStore) {
		s.metricsEnabled = enabled
	}
}
