package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	pkgch "ShowPulse/pkg/clickhouse"
)

const archiveTable = "showpulse.snapshot_records"

var archiveSchema = []string{
	`CREATE DATABASE IF NOT EXISTS showpulse`,
	`CREATE TABLE IF NOT EXISTS ` + archiveTable + ` (
		rebuild_id      String,
		ts              DateTime64(3, 'UTC'),
		show            String,
		ticker          String,
		composite_score Float64,
		fair_price      Float64,
		edge_points     Float64,
		recommendation  LowCardinality(String),
		implied_chance  Float64,
		yes_bid         Int32,
		yes_ask         Int32,
		last_price      Int32,
		providers       String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (ts, show)`,
}

// ClickHouseArchive persists one row per (rebuild, show) for historical
// queries. Provider payloads go in as JSON; analytical columns are flattened.
type ClickHouseArchive struct {
	client *pkgch.Client
	db     *sql.DB
}

func NewClickHouseArchive(client *pkgch.Client) repository.SnapshotArchive {
	return &ClickHouseArchive{client: client, db: client.DB()}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	return a.client.InitSchema(ctx, archiveSchema)
}

func (a *ClickHouseArchive) Store(ctx context.Context, snap *models.Snapshot) error {
	if len(snap.Records) == 0 {
		return nil
	}

	values := make([]string, 0, len(snap.Records))
	args := make([]interface{}, 0, len(snap.Records)*13)
	for _, rec := range snap.Records {
		providers, err := json.Marshal(rec.Providers)
		if err != nil {
			return fmt.Errorf("marshal providers: %w", err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			snap.RebuildID,
			snap.Timestamp,
			rec.Show,
			rec.Market.Ticker,
			rec.CompositeScore,
			rec.FairPrice,
			rec.EdgePoints,
			string(rec.Recommendation),
			rec.Market.ImpliedChance,
			int32(rec.Market.YesBid),
			int32(rec.Market.YesAsk),
			int32(rec.Market.LastPrice),
			string(providers),
		)
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(rebuild_id, ts, show, ticker, composite_score, fair_price, edge_points,
		 recommendation, implied_chance, yes_bid, yes_ask, last_price, providers)
		VALUES %s`, archiveTable, strings.Join(values, ","))
	if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert snapshot rows: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return a.client.Close()
}
