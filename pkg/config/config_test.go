package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
kalshi:
  base_url: https://demo-api.kalshi.co/trade-api/v2
  event_ticker: KXNETFLIXRANK
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 5, c.Kalshi.TopMarkets)
	assert.Equal(t, 50.0, c.Scoring.MarketWeight)
	assert.Equal(t, 5.0, c.Scoring.SearchWeight)
	assert.Equal(t, 5.0, c.Scoring.HoldThreshold)
	assert.Equal(t, 7, c.Providers.Wikipedia.WindowDays)
	assert.False(t, c.Scoring.Renormalize)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key-from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PORT", "9090")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", c.Providers.TMDB.APIKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 9090, c.Server.Port)
}

func TestLoadWithEnvBadPortKeepsDefault(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestValidateKafkaRequiresBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+"\nkafka:\n  enabled: true\n"))
	assert.Error(t, err)
}
