package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mergington/activities/pkg/logger"
)

// ErrVerification is returned when the service breaks a registry invariant.
var ErrVerification = errors.New("verification failed")

// Stats summarizes a run.
type Stats struct {
	Activity   string
	Students   int
	Signups    tally
	Duplicates tally
	Removals   tally
	Duration   time.Duration
}

// Run executes the full scenario against cfg.BaseURL:
// health check, concurrent signups, duplicate signups, membership check,
// concurrent unregistrations, absence check.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	log := logger.Named("loadtest")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	start := time.Now()

	log.Info(ctx, "starting signup load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	activity, baseline, err := pickActivity(ctx, client, cfg.Activity)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Activity: activity, Students: cfg.Students}
	emails := generateEmails(cfg.Students, cfg.Domain)

	expect := func(op string, want int, call func(context.Context, string, string) (int, string, error)) func(context.Context, string) outcome {
		return func(ctx context.Context, email string) outcome {
			status, text, err := call(ctx, activity, email)
			if err != nil {
				log.Warn(ctx, "request failed", logger.String("op", op), logger.String("email", email), logger.Error(err))
				return outcomeFailed
			}
			if cfg.Verbose {
				log.Debug(ctx, "response", logger.String("op", op), logger.Int("status", status), logger.String("text", text))
			}
			if status != want {
				log.Warn(ctx, "unexpected status",
					logger.String("op", op),
					logger.String("email", email),
					logger.Int("status", status),
					logger.String("text", text))
				return outcomeUnexpected
			}
			return outcomeExpected
		}
	}

	stats.Signups = runPool(ctx, cfg.Workers, emails, expect("signup", http.StatusOK, client.Signup))
	stats.Duplicates = runPool(ctx, cfg.Workers, emails, expect("duplicate", http.StatusBadRequest, client.Signup))

	if err := verifyMembership(ctx, client, activity, baseline, emails, true); err != nil {
		return stats, err
	}

	stats.Removals = runPool(ctx, cfg.Workers, emails, expect("unregister", http.StatusOK, client.Unregister))

	if err := verifyMembership(ctx, client, activity, baseline, emails, false); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	for name, t := range map[string]tally{"signups": stats.Signups, "duplicates": stats.Duplicates, "removals": stats.Removals} {
		if t.Unexpected > 0 || t.Failed > 0 {
			return stats, fmt.Errorf("%w: %s had %d unexpected and %d failed responses", ErrVerification, name, t.Unexpected, t.Failed)
		}
	}

	log.Info(ctx, "load test completed",
		logger.String("activity", activity),
		logger.Int("signups", stats.Signups.Expected),
		logger.Int("duplicatesRejected", stats.Duplicates.Expected),
		logger.Int("removals", stats.Removals.Expected),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", float64(cfg.Students*3)/stats.Duration.Seconds()))
	return stats, nil
}

// pickActivity resolves the target activity and returns its current participants.
func pickActivity(ctx context.Context, client *Client, name string) (string, []string, error) {
	list, err := client.Activities(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(list) == 0 {
		return "", nil, fmt.Errorf("%w: service lists no activities", ErrVerification)
	}
	if name == "" {
		name = list[0].Name
	}
	view, ok := list.Get(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: activity %q not listed", ErrVerification, name)
	}
	return name, view.Participants, nil
}

// verifyMembership checks that every generated email appears exactly once
// (present) or not at all (absent), and that pre-existing participants kept
// their relative order.
func verifyMembership(ctx context.Context, client *Client, activity string, baseline, emails []string, present bool) error {
	list, err := client.Activities(ctx)
	if err != nil {
		return err
	}
	view, ok := list.Get(activity)
	if !ok {
		return fmt.Errorf("%w: activity %q disappeared", ErrVerification, activity)
	}

	counts := make(map[string]int, len(view.Participants))
	for _, p := range view.Participants {
		counts[p]++
	}
	want := 0
	if present {
		want = 1
	}
	for _, email := range emails {
		if counts[email] != want {
			return fmt.Errorf("%w: %s appears %d times, want %d", ErrVerification, email, counts[email], want)
		}
	}

	before, after := withoutGenerated(baseline), withoutGenerated(view.Participants)
	if !slices.Equal(before, after) {
		return fmt.Errorf("%w: existing participants changed: %v -> %v", ErrVerification, before, after)
	}
	return nil
}

const generatedPrefix = "load-"

func withoutGenerated(participants []string) []string {
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		if !strings.HasPrefix(p, generatedPrefix) {
			out = append(out, p)
		}
	}
	return out
}

// generateEmails returns n unique student emails.
func generateEmails(n int, domain string) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = generatedPrefix + uuid.NewString() + "@" + domain
	}
	return emails
}
