package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mergington/activities/internal/loadtest"
	"github.com/mergington/activities/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the service")
		activity = flag.String("activity", "", "Activity to sign students up for (default: first listed)")
		students = flag.Int("students", loadtest.DefaultStudents, "Number of generated students")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", loadtest.DefaultTimeout, "HTTP request timeout")
		domain   = flag.String("domain", loadtest.DefaultDomain, "Email domain of generated students")
		format   = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every response")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	_, err := loadtest.Run(ctx, loadtest.Config{
		BaseURL:  *baseURL,
		Activity: *activity,
		Students: *students,
		Workers:  *workers,
		Timeout:  *timeout,
		Domain:   *domain,
		Verbose:  *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "load test failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
