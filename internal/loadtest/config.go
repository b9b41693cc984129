// Package loadtest drives a running activities service over HTTP and checks
// that concurrent signups and unregistrations keep the registry consistent.
package loadtest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults used when a Config field is left zero.
const (
	DefaultStudents = 200
	DefaultWorkers  = 8
	DefaultTimeout  = 10 * time.Second
	DefaultDomain   = "mergington.edu"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid load test config")

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Activity string        // Target activity; empty picks the first listed one
	Students int           // Number of generated student emails
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Domain   string        // Email domain for generated students
	Verbose  bool          // Log every request outcome
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Students == 0 {
		c.Students = DefaultStudents
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Students < 0:
		return fmt.Errorf("%w: students must not be negative", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
