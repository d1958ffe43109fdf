package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the response cache database.
type CacheConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	TTLHours  int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	EvictDays int    `yaml:"evict_days" mapstructure:"evict_days"`
}

// TTL returns the cache freshness threshold as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// FetchConfig configures outbound HTTP behavior and API endpoints.
type FetchConfig struct {
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
	MinIntervalMS int    `yaml:"min_interval_ms" mapstructure:"min_interval_ms"`
	CensusAPIKey  string `yaml:"census_api_key" mapstructure:"census_api_key"`
	PUMSYear      int    `yaml:"pums_year" mapstructure:"pums_year"`
	CensusBaseURL string `yaml:"census_base_url" mapstructure:"census_base_url"`
	BLSBaseURL    string `yaml:"bls_base_url" mapstructure:"bls_base_url"`
}

// Timeout returns the per-request HTTP timeout.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MinInterval returns the minimum spacing between consecutive outbound requests.
func (c FetchConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

// DataConfig configures the on-disk data directories.
type DataConfig struct {
	RawDir       string `yaml:"raw_dir" mapstructure:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir" mapstructure:"processed_dir"`
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
}

// AnalysisConfig configures the growth and cohort analysis.
type AnalysisConfig struct {
	StartMonth                string  `yaml:"start_month" mapstructure:"start_month"`
	TopPercentile             float64 `yaml:"top_percentile" mapstructure:"top_percentile"`
	LookbackMonths            int     `yaml:"lookback_months" mapstructure:"lookback_months"`
	CorrelationLookbackMonths int     `yaml:"correlation_lookback_months" mapstructure:"correlation_lookback_months"`
	RollingWindow             int     `yaml:"rolling_window" mapstructure:"rolling_window"`
	CorrelationWindow         int     `yaml:"correlation_window" mapstructure:"correlation_window"`
	GrowthAnomalyThreshold    float64 `yaml:"growth_anomaly_threshold" mapstructure:"growth_anomaly_threshold"`
	TopLabel                  string  `yaml:"top_label" mapstructure:"top_label"`
	OtherLabel                string  `yaml:"other_label" mapstructure:"other_label"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECONLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.path", "data/cache/econlink.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.evict_days", 30)
	v.SetDefault("fetch.user_agent", "econlink/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.min_interval_ms", 100)
	v.SetDefault("fetch.pums_year", 2023)
	v.SetDefault("fetch.census_base_url", "https://api.census.gov/data")
	v.SetDefault("fetch.bls_base_url", "https://download.bls.gov/pub/time.series/ce/")
	v.SetDefault("data.raw_dir", "data/raw")
	v.SetDefault("data.processed_dir", "data/processed")
	v.SetDefault("data.output_dir", "output")
	v.SetDefault("analysis.start_month", "2023-01")
	v.SetDefault("analysis.top_percentile", 0.9)
	v.SetDefault("analysis.lookback_months", 12)
	v.SetDefault("analysis.correlation_lookback_months", 24)
	v.SetDefault("analysis.rolling_window", 3)
	v.SetDefault("analysis.correlation_window", 6)
	v.SetDefault("analysis.growth_anomaly_threshold", 200)
	v.SetDefault("analysis.top_label", "Top 10% Immigration")
	v.SetDefault("analysis.other_label", "All Other Industries")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
