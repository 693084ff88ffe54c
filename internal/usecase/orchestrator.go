package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	"ShowPulse/internal/service/ratelimit"
	"ShowPulse/pkg/logger"
)

// request outcomes reported to metrics
const (
	outcomeOK          = "ok"
	outcomeAbsent      = "absent"
	outcomeError       = "error"
	outcomeTimeout     = "timeout"
	outcomeRatelimited = "ratelimited"
	outcomePanic       = "panic"
)

// Orchestrator fans provider fetches out per (show, provider) attempt.
// Each attempt is independently capped and timed out, so one slow or broken
// provider degrades only its own column, never the rebuild.
type Orchestrator struct {
	providers []repository.MetricProvider
	limiter   *ratelimit.Limiter
	metrics   repository.Metrics
	log       *logger.Logger

	timeout     time.Duration
	maxInflight int
	rateCap     float64
	rateRefill  float64
}

func NewOrchestrator(
	providers []repository.MetricProvider,
	limiter *ratelimit.Limiter,
	metrics repository.Metrics,
	log *logger.Logger,
	timeout time.Duration,
	maxInflight int,
	rateCap, rateRefill float64,
) *Orchestrator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxInflight <= 0 {
		maxInflight = 3
	}
	return &Orchestrator{
		providers:   providers,
		limiter:     limiter,
		metrics:     metrics,
		log:         log,
		timeout:     timeout,
		maxInflight: maxInflight,
		rateCap:     rateCap,
		rateRefill:  rateRefill,
	}
}

// Collect fetches every provider for every show and returns whatever
// succeeded, keyed by show then provider. Absent entries are simply missing
// from the inner map. Collect never fails; the zero result is an empty map.
func (o *Orchestrator) Collect(ctx context.Context, shows []string) map[string]map[models.ProviderKind]*models.ProviderRecord {
	results := make(map[string]map[models.ProviderKind]*models.ProviderRecord, len(shows))
	for _, show := range shows {
		results[show] = make(map[models.ProviderKind]*models.ProviderRecord, len(o.providers))
	}

	// one semaphore per provider keeps a stuck upstream from starving the rest
	sems := make(map[models.ProviderKind]chan struct{}, len(o.providers))
	for _, p := range o.providers {
		sems[p.Kind()] = make(chan struct{}, o.maxInflight)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, show := range shows {
		for _, p := range o.providers {
			wg.Add(1)
			go func(show string, p repository.MetricProvider) {
				defer wg.Done()

				sem := sems[p.Kind()]
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					o.record(p.Kind(), outcomeTimeout, 0)
					return
				}

				rec, outcome, elapsed := o.fetchOne(ctx, p, show)
				o.record(p.Kind(), outcome, elapsed)
				if rec != nil {
					mu.Lock()
					results[show][p.Kind()] = rec
					mu.Unlock()
				}
			}(show, p)
		}
	}
	wg.Wait()

	return results
}

// fetchOne runs a single provider attempt with its own timeout and panic
// isolation. Every failure mode maps to an absent record.
func (o *Orchestrator) fetchOne(ctx context.Context, p repository.MetricProvider, show string) (rec *models.ProviderRecord, outcome string, elapsed float64) {
	kind := string(p.Kind())

	if o.limiter != nil && !o.limiter.Allow(kind, o.rateCap, o.rateRefill) {
		return nil, outcomeRatelimited, 0
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		elapsed = time.Since(start).Seconds()
		if r := recover(); r != nil {
			rec, outcome = nil, outcomePanic
			if o.log != nil {
				o.log.Error("provider panicked",
					logger.String("provider", kind),
					logger.String("show", show),
					logger.Any("panic", r))
			}
		}
	}()

	got, err := p.Fetch(fetchCtx, show)
	if err != nil {
		outcome = outcomeError
		if fetchCtx.Err() != nil {
			outcome = outcomeTimeout
		}
		if o.log != nil {
			o.log.Warn("provider fetch failed",
				logger.String("provider", kind),
				logger.String("show", show),
				logger.Error(err))
		}
		return nil, outcome, 0
	}
	if got == nil {
		return nil, outcomeAbsent, 0
	}
	if got.Kind != p.Kind() {
		// adapter bug; treat as absent rather than poisoning the merge
		return nil, outcomeError, 0
	}
	return got, outcomeOK, 0
}

func (o *Orchestrator) record(kind models.ProviderKind, outcome string, seconds float64) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordProviderRequest(string(kind), outcome)
	if outcome == outcomeOK && seconds > 0 {
		o.metrics.RecordProviderLatency(string(kind), seconds)
	}
	if outcome == outcomeError || outcome == outcomePanic {
		o.metrics.RecordError(fmt.Sprintf("provider_%s", kind))
	}
}
