package config

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mergington/activities/internal/domain/model"
)

// seedActivity mirrors one entry of the activities YAML file:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
type seedActivity struct {
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	Schedule        string   `koanf:"schedule"`
	MaxParticipants int      `koanf:"max_participants"`
	Participants    []string `koanf:"participants"`
}

// LoadActivities reads the activity seed at path. An empty path yields the
// built-in defaults.
func LoadActivities(_ context.Context, path string) ([]model.Activity, error) {
	if path == "" {
		return model.DefaultActivities(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	var entries []seedActivity
	if err := k.UnmarshalWithConf("activities", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s: no activities defined", ErrInvalidConfig, path)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]model.Activity, 0, len(entries))
	for i, e := range entries {
		a := model.Activity{
			Name:            e.Name,
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    e.Participants,
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: activity %d: %w", ErrInvalidConfig, path, i, err)
		}
		if _, dup := seen[a.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate activity %q", ErrInvalidConfig, path, a.Name)
		}
		seen[a.Name] = struct{}{}
		out = append(out, a.Normalized())
	}
	return out, nil
}
