package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ShowPulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Kalshi struct {
		BaseURL        string        `yaml:"base_url"`
		EventTicker    string        `yaml:"event_ticker"`
		APIKeyID       string        `yaml:"api_key_id"`
		PrivateKeyPath string        `yaml:"private_key_path"`
		Timeout        time.Duration `yaml:"timeout"`
		TopMarkets     int           `yaml:"top_markets"`
	} `yaml:"kalshi"`
	Providers struct {
		Timeout     time.Duration `yaml:"timeout"`
		MaxInflight int           `yaml:"max_inflight"` // per provider
		RateCap     float64       `yaml:"rate_cap"`     // token bucket size per provider
		RateRefill  float64       `yaml:"rate_refill"`  // tokens per second
		TMDB        struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"tmdb"`
		YouTube struct {
			BaseURL     string `yaml:"base_url"`
			APIKey      string `yaml:"api_key"`
			MaxVideos   int    `yaml:"max_videos"`
			MaxComments int    `yaml:"max_comments"`
		} `yaml:"youtube"`
		Wikipedia struct {
			BaseURL    string `yaml:"base_url"`
			UserAgent  string `yaml:"user_agent"`
			WindowDays int    `yaml:"window_days"`
		} `yaml:"wikipedia"`
		News struct {
			BaseURL     string `yaml:"base_url"`
			APIKey      string `yaml:"api_key"`
			MaxArticles int    `yaml:"max_articles"`
			Language    string `yaml:"language"`
		} `yaml:"news"`
	} `yaml:"providers"`
	Scoring struct {
		MarketWeight     float64 `yaml:"market_weight"`
		VideoWeight      float64 `yaml:"video_weight"`
		NewsWeight       float64 `yaml:"news_weight"`
		PopularityWeight float64 `yaml:"popularity_weight"`
		SearchWeight     float64 `yaml:"search_weight"`
		HoldThreshold    float64 `yaml:"hold_threshold"`
		Renormalize      bool    `yaml:"renormalize_missing"`
	} `yaml:"scoring"`
	Analysis struct {
		RefreshCron    string        `yaml:"refresh_cron"`
		RebuildTimeout time.Duration `yaml:"rebuild_timeout"`
	} `yaml:"analysis"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		SnapshotTopic string   `yaml:"snapshot_topic"`
		RefreshTopic  string   `yaml:"refresh_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Consumer      struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets and endpoints
// with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("KALSHI_BASE_URL"); v != "" {
		c.Kalshi.BaseURL = v
	}
	if v := os.Getenv("KALSHI_API_KEY_ID"); v != "" {
		c.Kalshi.APIKeyID = v
	}
	if v := os.Getenv("KALSHI_PRIVATE_KEY_PATH"); v != "" {
		c.Kalshi.PrivateKeyPath = v
	}
	if v := os.Getenv("KALSHI_EVENT_TICKER"); v != "" {
		c.Kalshi.EventTicker = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		c.Providers.TMDB.APIKey = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.Providers.YouTube.APIKey = v
	}
	if v := os.Getenv("GNEWS_API_KEY"); v != "" {
		c.Providers.News.APIKey = v
	}
	if v := os.Getenv("WIKIPEDIA_USER_AGENT"); v != "" {
		c.Providers.Wikipedia.UserAgent = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Kalshi.TopMarkets == 0 {
		c.Kalshi.TopMarkets = 5
	}
	if c.Kalshi.Timeout == 0 {
		c.Kalshi.Timeout = 10 * time.Second
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = 10 * time.Second
	}
	if c.Providers.MaxInflight == 0 {
		c.Providers.MaxInflight = 3
	}
	if c.Providers.RateCap == 0 {
		c.Providers.RateCap = 30
	}
	if c.Providers.RateRefill == 0 {
		c.Providers.RateRefill = 5
	}
	if c.Providers.YouTube.MaxVideos == 0 {
		c.Providers.YouTube.MaxVideos = 5
	}
	if c.Providers.YouTube.MaxComments == 0 {
		c.Providers.YouTube.MaxComments = 50
	}
	if c.Providers.Wikipedia.WindowDays == 0 {
		c.Providers.Wikipedia.WindowDays = 7
	}
	if c.Providers.News.MaxArticles == 0 {
		c.Providers.News.MaxArticles = 50
	}
	if c.Providers.News.Language == "" {
		c.Providers.News.Language = "en"
	}
	if c.Scoring.MarketWeight == 0 && c.Scoring.VideoWeight == 0 &&
		c.Scoring.NewsWeight == 0 && c.Scoring.PopularityWeight == 0 &&
		c.Scoring.SearchWeight == 0 {
		c.Scoring.MarketWeight = 50
		c.Scoring.VideoWeight = 20
		c.Scoring.NewsWeight = 15
		c.Scoring.PopularityWeight = 10
		c.Scoring.SearchWeight = 5
	}
	if c.Scoring.HoldThreshold == 0 {
		c.Scoring.HoldThreshold = 5
	}
	if c.Analysis.RebuildTimeout == 0 {
		c.Analysis.RebuildTimeout = 2 * time.Minute
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Kalshi.BaseURL == "" {
		return fmt.Errorf("kalshi.base_url is required")
	}
	if c.Kalshi.EventTicker == "" {
		return fmt.Errorf("kalshi.event_ticker is required")
	}
	total := c.Scoring.MarketWeight + c.Scoring.VideoWeight + c.Scoring.NewsWeight +
		c.Scoring.PopularityWeight + c.Scoring.SearchWeight
	if total <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
