package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Scrape      ScrapeConfig      `mapstructure:"scrape"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Clean       CleanConfig       `mapstructure:"clean"`
	Data        DataConfig        `mapstructure:"data"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

type MarketplaceConfig struct {
	Name     string `mapstructure:"name"`
	BaseURL  string `mapstructure:"base_url"`
	Currency string `mapstructure:"currency"`
}

type ScrapeConfig struct {
	MaxProducts   int     `mapstructure:"max_products"`
	Workers       int     `mapstructure:"workers"`
	SearchPages   int     `mapstructure:"search_pages"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

type FetchConfig struct {
	Mode         string        `mapstructure:"mode"` // "http" or "browser"
	Timeout      time.Duration `mapstructure:"timeout"`
	Retries      int           `mapstructure:"retries"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	RetryMaxWait time.Duration `mapstructure:"retry_max_wait"`
	SizeCap      int64         `mapstructure:"size_cap"`
	Headless     bool          `mapstructure:"headless"`
	UserAgents   []string      `mapstructure:"user_agents"`
}

type CleanConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	SimilarityScorer    string  `mapstructure:"similarity_scorer"` // "jaccard" or "jarowinkler"
	OutlierLow          float64 `mapstructure:"outlier_low"`
	OutlierHigh         float64 `mapstructure:"outlier_high"`
}

type DataConfig struct {
	RawDir       string `mapstructure:"raw_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	OutputDir    string `mapstructure:"output_dir"`
	Catalog      string `mapstructure:"catalog"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "", "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file, B2BSCRAPE_* environment
// variables and defaults. An empty path searches for config.yaml in . and
// ./config.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("B2BSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("marketplace.name", "IndiaMART")
	v.SetDefault("marketplace.base_url", "https://www.indiamart.com")
	v.SetDefault("marketplace.currency", "INR")

	v.SetDefault("scrape.max_products", 1000)
	v.SetDefault("scrape.workers", 4)
	v.SetDefault("scrape.search_pages", 3)
	v.SetDefault("scrape.rate_per_second", 0.5)
	v.SetDefault("scrape.burst", 1)

	v.SetDefault("fetch.mode", "http")
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.retry_wait", "3s")
	v.SetDefault("fetch.retry_max_wait", "8s")
	v.SetDefault("fetch.size_cap", 5*1024*1024)
	v.SetDefault("fetch.headless", true)
	v.SetDefault("fetch.user_agents", []string{})

	v.SetDefault("clean.similarity_threshold", 0.7)
	v.SetDefault("clean.similarity_scorer", "jaccard")
	v.SetDefault("clean.outlier_low", 0.01)
	v.SetDefault("clean.outlier_high", 0.99)

	v.SetDefault("data.raw_dir", "data/raw")
	v.SetDefault("data.processed_dir", "data/processed")
	v.SetDefault("data.output_dir", "data/outputs")
	v.SetDefault("data.catalog", "categories.json5")

	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("server.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validate(config *Config) error {
	if config.Fetch.Mode != "http" && config.Fetch.Mode != "browser" {
		return fmt.Errorf("fetch mode must be 'http' or 'browser', got: %s", config.Fetch.Mode)
	}
	switch strings.ToLower(config.Clean.SimilarityScorer) {
	case "jaccard", "jarowinkler":
	default:
		return fmt.Errorf("similarity scorer must be 'jaccard' or 'jarowinkler', got: %s", config.Clean.SimilarityScorer)
	}
	switch config.Storage.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("storage driver must be empty, 'sqlite' or 'postgres', got: %s", config.Storage.Driver)
	}
	if config.Storage.Driver == "postgres" && config.Storage.DSN == "" {
		return fmt.Errorf("storage dsn is required when driver is 'postgres' (set B2BSCRAPE_STORAGE_DSN)")
	}
	if t := config.Clean.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("similarity threshold must be within [0,1], got: %v", t)
	}
	if lo, hi := config.Clean.OutlierLow, config.Clean.OutlierHigh; lo < 0 || hi > 1 || lo >= hi {
		return fmt.Errorf("outlier bounds must satisfy 0 <= low < high <= 1, got: %v, %v", lo, hi)
	}
	if config.Scrape.Workers < 1 {
		return fmt.Errorf("scrape workers must be positive, got: %d", config.Scrape.Workers)
	}
	if config.Marketplace.BaseURL == "" {
		return fmt.Errorf("marketplace base url is required")
	}
	return nil
}
