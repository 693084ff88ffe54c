package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSnapshotAgeReadsAtScrape(t *testing.T) {
	r := New()

	var published time.Time
	r.WatchSnapshotAge(func() (time.Time, bool) {
		if published.IsZero() {
			return time.Time{}, false
		}
		return published, true
	})

	read := func() float64 {
		families, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)
		for _, f := range families {
			if f.GetName() == "showpulse_snapshot_age_seconds" {
				return f.GetMetric()[0].GetGauge().GetValue()
			}
		}
		t.Fatal("snapshot age gauge not registered")
		return 0
	}

	assert.Zero(t, read(), "reads 0 before the first publish")

	published = time.Now().Add(-30 * time.Second)
	age := read()
	assert.InDelta(t, 30, age, 5)

	published = time.Now().Add(-90 * time.Second)
	assert.Greater(t, read(), age, "age tracks the publish timestamp at scrape time")
}
