package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"goldrates/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Quotes    QuotesConfig    `mapstructure:"quotes"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Content   ContentConfig   `mapstructure:"content"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name          string `mapstructure:"name"`
	Environment   string `mapstructure:"environment"`
	DefaultRegion string `mapstructure:"default_region"`
	SiteURL       string `mapstructure:"site_url"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string          `mapstructure:"addr"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig sets the per-client request budget.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// BackendConfig selects and configures the gold quote store.
type BackendConfig struct {
	Driver         string        `mapstructure:"driver"`
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity for the postgres driver.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// QuotesConfig covers the quote-by-symbol provider.
type QuotesConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Symbols        []string      `mapstructure:"symbols"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// ScraperConfig covers fuel price scraping.
type ScraperConfig struct {
	UserAgent      string            `mapstructure:"user_agent"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	Kinds          []string          `mapstructure:"kinds"`
	Cities         []string          `mapstructure:"cities"`
	Candidates     []CandidateConfig `mapstructure:"candidates"`
}

// CandidateConfig describes one scrape source. Exactly one of Regex or
// Selector must be set.
type CandidateConfig struct {
	Kind     string `mapstructure:"kind"`
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Regex    string `mapstructure:"regex"`
	Selector string `mapstructure:"selector"`
	Attr     string `mapstructure:"attr"`
}

// ContentConfig covers the GraphQL content API.
type ContentConfig struct {
	GraphQLURL     string        `mapstructure:"graphql_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig governs revalidation windows.
type CacheConfig struct {
	Driver     string        `mapstructure:"driver"`
	RedisURL   string        `mapstructure:"redis_url"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	TodayTTL   time.Duration `mapstructure:"today_ttl"`
	HistoryTTL time.Duration `mapstructure:"history_ttl"`
	TickerTTL  time.Duration `mapstructure:"ticker_ttl"`
	ContentTTL time.Duration `mapstructure:"content_ttl"`
}

// HistoryConfig states the unit the history series is quoted in.
type HistoryConfig struct {
	Unit string `mapstructure:"unit"`
}

// SchedulerConfig governs the watch cadence.
type SchedulerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines move thresholds and routing.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	ThresholdPct float64        `mapstructure:"threshold_pct"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram channel.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load builds configuration from .env, file, environment, and defaults.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GOLDRATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "goldrates")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.default_region", "kerala")
	v.SetDefault("app.site_url", "https://keralagoldrates.com")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rps", 5.0)
	v.SetDefault("server.rate_limit.burst", 15)

	v.SetDefault("backend.driver", "rest")
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.request_timeout", "10s")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("quotes.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("quotes.symbols", []string{"^BSESN", "^NSEI", "GC=F", "SI=F", "CL=F", "BTC-INR", "ETH-INR", "INR=X", "AEDINR=X"})
	v.SetDefault("quotes.request_timeout", "10s")
	v.SetDefault("quotes.user_agent", browserUserAgent)

	v.SetDefault("scraper.user_agent", browserUserAgent)
	v.SetDefault("scraper.request_timeout", "8s")
	v.SetDefault("scraper.kinds", []string{"petrol", "diesel"})
	v.SetDefault("scraper.cities", []string{"kochi"})

	v.SetDefault("content.graphql_url", "https://cms.goldkerala.com/graphql")
	v.SetDefault("content.request_timeout", "10s")

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "goldrates:")
	v.SetDefault("cache.today_ttl", "1h")
	v.SetDefault("cache.history_ttl", "12h")
	v.SetDefault("cache.ticker_ttl", "10m")
	v.SetDefault("cache.content_ttl", "1h")

	v.SetDefault("history.unit", "pavan")

	v.SetDefault("scheduler.interval", "15m")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.threshold_pct", 1.0)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.chat_id", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.DefaultRegion) == "" {
		return fmt.Errorf("app.default_region must be set")
	}
	switch c.Backend.Driver {
	case "rest":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when backend.driver is postgres")
		}
	default:
		return fmt.Errorf("backend.driver must be rest or postgres, got %q", c.Backend.Driver)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when cache.driver is redis")
		}
	default:
		return fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver)
	}
	if c.History.Unit != "gram" && c.History.Unit != "pavan" {
		return fmt.Errorf("history.unit must be gram or pavan, got %q", c.History.Unit)
	}
	for i, cand := range c.Scraper.Candidates {
		if cand.URL == "" {
			return fmt.Errorf("scraper.candidates[%d].url must be set", i)
		}
		if (cand.Regex == "") == (cand.Selector == "") {
			return fmt.Errorf("scraper.candidates[%d] needs exactly one of regex or selector", i)
		}
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		return fmt.Errorf("server.rate_limit rps and burst must be greater than zero")
	}
	if c.Alerting.ThresholdPct < 0 {
		return fmt.Errorf("alerting.threshold_pct cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be set")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be set")
		}
	}
	return nil
}

// ResolveRegion returns region, or the configured default when it is blank.
func (c *Config) ResolveRegion(region string) string {
	if r := strings.ToLower(strings.TrimSpace(region)); r != "" {
		return r
	}
	return c.App.DefaultRegion
}
