package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the store answered the ping.
	Healthy Status = "ok"
	// Degraded indicates the store did not answer.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// defaultPingTimeout bounds a single store ping.
const defaultPingTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status  Status
	Version string
	Checks  map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   Pinger
	version string
	timeout time.Duration
}

// New creates a Service reporting the given build version.
func New(store Pinger, version string) *Service {
	return &Service{store: store, version: version, timeout: defaultPingTimeout}
}

// Check pings the document store.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	checks := map[string]CheckResult{"database": CheckOK}
	status := Healthy
	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Degraded
	}

	return Report{Status: status, Version: s.version, Checks: checks}
}
