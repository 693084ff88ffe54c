package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	"ShowPulse/pkg/util"
)

// absentMarker caches a not-found result so we do not re-query the
// upstream API for shows it does not know about.
var absentMarker = []byte("null")

// CachedProvider wraps a MetricProvider with a read-through bytes cache.
// Absent results are cached too; a cache error falls back to the source.
type CachedProvider struct {
	src   repository.MetricProvider
	cache BytesCache
	ttl   time.Duration
}

func NewCachedProvider(src repository.MetricProvider, c BytesCache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{src: src, cache: c, ttl: ttl}
}

func (p *CachedProvider) Kind() models.ProviderKind { return p.src.Kind() }

func (p *CachedProvider) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	key := p.key(show)

	if b, ok, err := p.cache.GetBytes(key); err == nil && ok {
		if string(b) == string(absentMarker) {
			return nil, nil
		}
		var rec models.ProviderRecord
		if err := json.Unmarshal(b, &rec); err == nil {
			return &rec, nil
		}
		// corrupt entry, fall through to source
	}

	rec, err := p.src.Fetch(ctx, show)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		_ = p.cache.SetBytes(key, absentMarker, p.ttl)
		return nil, nil
	}
	if b, err := json.Marshal(rec); err == nil {
		_ = p.cache.SetBytes(key, b, p.ttl)
	}
	return rec, nil
}

func (p *CachedProvider) key(show string) string {
	return fmt.Sprintf("provider:%s:%s", p.src.Kind(), util.Slugify(show))
}
