// Package health aggregates component checks into one report.
package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means matching works but an optional component is down.
	Degraded Status = "degraded"
	// Unhealthy means matching cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as report keys.
const (
	ComponentIndex = "index"
	ComponentCache = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Components returns the checked component names in stable order.
func (r Report) Components() []string {
	names := make([]string, 0, len(r.Checks))
	for k := range r.Checks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Service coordinates health checks.
type Service struct {
	index IndexPinger
	cache CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(index IndexPinger, cache CachePinger) *Service {
	return &Service{index: index, cache: cache}
}

// Check runs health checks against all components.
// The index is required; the cache only degrades the report.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.index.Ping(ctx); err != nil {
		checks[ComponentIndex] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentIndex] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks[ComponentCache] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[ComponentCache] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
