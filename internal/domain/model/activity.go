// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Activity is an extracurricular offering and its enrolled students.
type Activity struct {
	Name            string   // unique, immutable key
	Description     string   // free text shown to students
	Schedule        string   // human readable meeting times
	MaxParticipants int      // informational only; signups are not capped
	Participants    []string // student emails in signup order, no duplicates
}

// Validation errors for seed activities.
var (
	ErrEmptyName       = errors.New("activity name is empty")
	ErrEmptyDetails    = errors.New("activity description and schedule are required")
	ErrInvalidCapacity = errors.New("max participants must be positive")
)

// Validate checks the fields a seed activity must carry.
func (a Activity) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return ErrEmptyName
	case strings.TrimSpace(a.Description) == "", strings.TrimSpace(a.Schedule) == "":
		return fmt.Errorf("%s: %w", a.Name, ErrEmptyDetails)
	case a.MaxParticipants <= 0:
		return fmt.Errorf("%s: %w", a.Name, ErrInvalidCapacity)
	}
	return nil
}

// HasParticipant reports whether email is enrolled.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// SpotsLeft is MaxParticipants minus current enrolment, floored at zero.
func (a Activity) SpotsLeft() int {
	return max(a.MaxParticipants-len(a.Participants), 0)
}

// Clone returns a deep copy whose participant slice is never nil.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// Normalized returns a clone with duplicate participant emails collapsed,
// keeping the first occurrence.
func (a Activity) Normalized() Activity {
	out := a
	out.Participants = make([]string, 0, len(a.Participants))
	seen := make(map[string]struct{}, len(a.Participants))
	for _, email := range a.Participants {
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out.Participants = append(out.Participants, email)
	}
	return out
}
