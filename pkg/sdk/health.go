package dogreid

import (
	"context"

	healthuc "github.com/kailas-cloud/dogreid/internal/usecase/health"
)

// Health status values.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is the client health. A failing cache only degrades it:
// MatchImage keeps working by embedding every photo.
type HealthStatus struct {
	Status    string
	Checks    map[string]string // "index", and "cache" when WithValkeyCache is set
	IndexSize int
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health checks the index and, when configured, the embedding cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	out := HealthStatus{
		Status:    string(report.Status),
		Checks:    make(map[string]string, len(report.Checks)),
		IndexSize: c.Size(),
	}
	for k, v := range report.Checks {
		out.Checks[k] = string(v)
	}
	return out
}
