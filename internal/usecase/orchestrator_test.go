package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	"ShowPulse/internal/service/ratelimit"
)

type fakeProvider struct {
	kind    models.ProviderKind
	fetch   func(ctx context.Context, show string) (*models.ProviderRecord, error)
	calls   atomic.Int64
	maxSeen atomic.Int64
	active  atomic.Int64
}

func (p *fakeProvider) Kind() models.ProviderKind { return p.kind }

func (p *fakeProvider) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	p.calls.Add(1)
	cur := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		seen := p.maxSeen.Load()
		if cur <= seen || p.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	if p.fetch != nil {
		return p.fetch(ctx, show)
	}
	return &models.ProviderRecord{Kind: p.kind}, nil
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes map[string][]string
}

func newOutcomeRecorder() *outcomeRecorder {
	return &outcomeRecorder{outcomes: make(map[string][]string)}
}

func (m *outcomeRecorder) RecordProviderRequest(provider, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[provider] = append(m.outcomes[provider], outcome)
}

func (m *outcomeRecorder) RecordProviderLatency(string, float64) {}
func (m *outcomeRecorder) RecordRebuild(string, float64)         {}
func (m *outcomeRecorder) RecordCompositeScore(string, float64)  {}
func (m *outcomeRecorder) RecordError(string)                    {}

func (m *outcomeRecorder) count(provider, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.outcomes[provider] {
		if o == outcome {
			n++
		}
	}
	return n
}

func newTestOrchestrator(providers []repository.MetricProvider, metrics repository.Metrics) *Orchestrator {
	return NewOrchestrator(providers, nil, metrics, nil, time.Second, 2, 0, 0)
}

func TestCollectAllPresent(t *testing.T) {
	video := &fakeProvider{kind: models.ProviderVideo}
	news := &fakeProvider{kind: models.ProviderNews}
	o := newTestOrchestrator([]repository.MetricProvider{video, news}, nil)

	results := o.Collect(context.Background(), []string{"A", "B"})
	require.Len(t, results, 2)
	assert.Len(t, results["A"], 2)
	assert.Len(t, results["B"], 2)
	assert.Equal(t, int64(2), video.calls.Load())
}

func TestCollectFailureIsolated(t *testing.T) {
	video := &fakeProvider{kind: models.ProviderVideo}
	news := &fakeProvider{
		kind: models.ProviderNews,
		fetch: func(ctx context.Context, show string) (*models.ProviderRecord, error) {
			return nil, errors.New("gnews 500")
		},
	}
	rec := newOutcomeRecorder()
	o := newTestOrchestrator([]repository.MetricProvider{video, news}, rec)

	results := o.Collect(context.Background(), []string{"A"})
	assert.Contains(t, results["A"], models.ProviderVideo)
	assert.NotContains(t, results["A"], models.ProviderNews)
	assert.Equal(t, 1, rec.count("news", "error"))
	assert.Equal(t, 1, rec.count("youtube", "ok"))
}

func TestCollectAbsentNotError(t *testing.T) {
	absent := &fakeProvider{
		kind: models.ProviderPopularity,
		fetch: func(ctx context.Context, show string) (*models.ProviderRecord, error) {
			return nil, nil
		},
	}
	rec := newOutcomeRecorder()
	o := newTestOrchestrator([]repository.MetricProvider{absent}, rec)

	results := o.Collect(context.Background(), []string{"A"})
	assert.Empty(t, results["A"])
	assert.Equal(t, 1, rec.count("tmdb", "absent"))
	assert.Equal(t, 0, rec.count("tmdb", "error"))
}

func TestCollectTimeoutBecomesAbsent(t *testing.T) {
	slow := &fakeProvider{
		kind: models.ProviderSearch,
		fetch: func(ctx context.Context, show string) (*models.ProviderRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	rec := newOutcomeRecorder()
	o := NewOrchestrator([]repository.MetricProvider{slow}, nil, rec, nil, 30*time.Millisecond, 2, 0, 0)

	results := o.Collect(context.Background(), []string{"A"})
	assert.Empty(t, results["A"])
	assert.Equal(t, 1, rec.count("wikipedia", "timeout"))
}

func TestCollectPanicIsolated(t *testing.T) {
	bad := &fakeProvider{
		kind: models.ProviderVideo,
		fetch: func(ctx context.Context, show string) (*models.ProviderRecord, error) {
			panic("adapter bug")
		},
	}
	ok := &fakeProvider{kind: models.ProviderNews}
	o := newTestOrchestrator([]repository.MetricProvider{bad, ok}, nil)

	results := o.Collect(context.Background(), []string{"A"})
	assert.NotContains(t, results["A"], models.ProviderVideo)
	assert.Contains(t, results["A"], models.ProviderNews)
}

func TestCollectConcurrencyCapPerProvider(t *testing.T) {
	slow := &fakeProvider{
		kind: models.ProviderVideo,
		fetch: func(ctx context.Context, show string) (*models.ProviderRecord, error) {
			time.Sleep(20 * time.Millisecond)
			return &models.ProviderRecord{Kind: models.ProviderVideo}, nil
		},
	}
	o := NewOrchestrator([]repository.MetricProvider{slow}, nil, nil, nil, time.Second, 2, 0, 0)

	shows := []string{"A", "B", "C", "D", "E", "F"}
	results := o.Collect(context.Background(), shows)

	assert.LessOrEqual(t, slow.maxSeen.Load(), int64(2))
	for _, show := range shows {
		assert.Contains(t, results[show], models.ProviderVideo)
	}
}

func TestCollectRateLimited(t *testing.T) {
	p := &fakeProvider{kind: models.ProviderNews}
	rec := newOutcomeRecorder()
	// one token, effectively no refill
	o := NewOrchestrator([]repository.MetricProvider{p}, ratelimit.New(), rec, nil, time.Second, 1, 1, 0.0001)

	o.Collect(context.Background(), []string{"A", "B", "C"})
	assert.Equal(t, 1, rec.count("news", "ok"))
	assert.Equal(t, 2, rec.count("news", "ratelimited"))
}
