package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
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

// Component names reported by Check.
const (
	SettingsStore = "settings_store"
	Catalog       = "catalog"
)

// DefaultTimeout bounds a single component ping.
const DefaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	components map[string]Pinger
	timeout    time.Duration
}

// New creates a Service over the settings store and the catalog.
// Either may be nil, in which case it is not reported.
func New(store, catalog Pinger) *Service {
	c := make(map[string]Pinger, 2)
	if store != nil {
		c[SettingsStore] = store
	}
	if catalog != nil {
		c[Catalog] = catalog
	}
	return &Service{components: c, timeout: DefaultTimeout}
}

// Check pings every component concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.components))
	)
	for name, p := range s.components {
		name, p := name, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			res := CheckOK
			if err := p.Ping(cctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
