package repository

import (
	"context"

	"ShowPulse/internal/domain/models"
)

// QuoteSource lists the active prediction-market quotes that seed a rebuild.
// This is the one upstream whose failure aborts the whole rebuild: without
// quotes there is no entity set to score.
type QuoteSource interface {
	// TopQuotes returns the top-ranked open quotes for the configured event.
	TopQuotes(ctx context.Context, limit int) ([]models.MarketQuote, error)
}

// MetricProvider is the uniform adapter contract for one data source.
// Fetch returns (nil, nil) when the provider has no data for the show;
// errors and timeouts are mapped to the same absent outcome by the
// orchestrator, so a failed provider never aborts an entity.
type MetricProvider interface {
	Kind() models.ProviderKind
	Fetch(ctx context.Context, show string) (*models.ProviderRecord, error)
}

// SnapshotArchive persists completed snapshots for historical queries.
type SnapshotArchive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, snap *models.Snapshot) error
	Health(ctx context.Context) error
	Close() error
}

// SnapshotPublisher announces completed snapshots to downstream consumers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

// Metrics records operational metrics for the rebuild pipeline.
type Metrics interface {
	RecordProviderRequest(provider, outcome string)
	RecordProviderLatency(provider string, seconds float64)
	RecordRebuild(outcome string, seconds float64)
	RecordCompositeScore(show string, score float64)
	RecordError(kind string)
}
