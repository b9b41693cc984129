// Package types contains the JSON shapes exchanged over the HTTP API.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mergington/activities/internal/domain/model"
)

// ActivityView is the public record of one activity.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// NewActivityView converts a domain activity. Participants is never nil so it
// always encodes as a JSON array.
func NewActivityView(a model.Activity) ActivityView {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)
	return ActivityView{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

// NamedActivity pairs an activity name with its view.
type NamedActivity struct {
	Name string
	ActivityView
}

// ActivityList encodes as a JSON object keyed by activity name, keeping
// the slice order for the keys.
type ActivityList []NamedActivity

// NewActivityList converts domain activities preserving their order.
func NewActivityList(activities []model.Activity) ActivityList {
	out := make(ActivityList, 0, len(activities))
	for _, a := range activities {
		out = append(out, NamedActivity{Name: a.Name, ActivityView: NewActivityView(a)})
	}
	return out
}

// Get looks up an activity by name.
func (l ActivityList) Get(name string) (ActivityView, bool) {
	for _, a := range l {
		if a.Name == name {
			return a.ActivityView, true
		}
	}
	return ActivityView{}, false
}

// Names returns the activity names in order.
func (l ActivityList) Names() []string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.Name
	}
	return names
}

// MarshalJSON implements json.Marshaler.
func (l ActivityList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.ActivityView)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping document key order.
func (l *ActivityList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("activity list: expected object, got %v", tok)
	}

	out := ActivityList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("activity list: expected key, got %v", tok)
		}
		var view ActivityView
		if err := dec.Decode(&view); err != nil {
			return fmt.Errorf("activity list: %s: %w", name, err)
		}
		out = append(out, NamedActivity{Name: name, ActivityView: view})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// MessageResponse acknowledges a successful membership change.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Detail string `json:"detail"`
}
