// Package repository defines the activity registry interface and errors.
package repository

import (
	"context"

	"github.com/mergington/activities/internal/domain/model"
)

// Store provides read/write access to activity membership.
type Store interface {
	// List returns a snapshot of every activity in registry order.
	List(ctx context.Context) ([]model.Activity, error)

	// Get returns a snapshot of one activity.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the activity's participants.
	// Returns ErrActivityNotFound or ErrAlreadySignedUp.
	Signup(ctx context.Context, name, email string) error

	// Unregister removes email from the activity's participants.
	// Returns ErrActivityNotFound or ErrNotSignedUp.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities.
	Count(ctx context.Context) int

	// Participants returns the total number of enrolments.
	Participants(ctx context.Context) int
}
