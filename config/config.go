// Package config provides configuration structures for the catalog search service.
// It defines server, store, cache, search, rate limit and logging settings and
// loads them from defaults, an optional .env file, an optional config file,
// CATALOG_* environment variables and command-line flags, in that order.
package config

import (
	"time"
)

// BrandRule widens free-text queries for a brand known under several spellings.
// When a query mentions any alias, products whose brand contains that alias and
// whose name contains one of the category keywords also match.
type BrandRule struct {
	Aliases          []string `mapstructure:"aliases" json:"aliases" yaml:"aliases" toml:"aliases"`
	CategoryKeywords []string `mapstructure:"category_keywords" json:"category_keywords" yaml:"category_keywords" toml:"category_keywords"`
}

// AppConfig captures configuration for every component of the service.
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server" json:"server" yaml:"server" toml:"server"`
	Store     StoreConfig     `mapstructure:"store" json:"store" yaml:"store" toml:"store"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache" yaml:"cache" toml:"cache"`
	Search    SearchConfig    `mapstructure:"search" json:"search" yaml:"search" toml:"search"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging" yaml:"logging" toml:"logging"`
}

// ServerConfig controls network settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode" json:"mode" yaml:"mode" toml:"mode"` // gin mode: debug, release, test
}

// StoreConfig selects and configures the product store.
type StoreConfig struct {
	Driver   string `mapstructure:"driver" json:"driver" yaml:"driver" toml:"driver"` // memory, bleve, sqlite, postgres
	DSN      string `mapstructure:"dsn" json:"dsn" yaml:"dsn" toml:"dsn"`
	SeedFile string `mapstructure:"seed_file" json:"seed_file" yaml:"seed_file" toml:"seed_file"`
}

// CacheConfig configures the facet and attribute caches.
type CacheConfig struct {
	Driver string        `mapstructure:"driver" json:"driver" yaml:"driver" toml:"driver"` // memory, redis
	TTL    time.Duration `mapstructure:"ttl" json:"ttl" yaml:"ttl" toml:"ttl"`
	Redis  RedisConfig   `mapstructure:"redis" json:"redis" yaml:"redis" toml:"redis"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr" yaml:"addr" toml:"addr"`
	Password string `mapstructure:"password" json:"password" yaml:"password" toml:"password"`
	DB       int    `mapstructure:"db" json:"db" yaml:"db" toml:"db"`
	Prefix   string `mapstructure:"prefix" json:"prefix" yaml:"prefix" toml:"prefix"`
}

// SearchConfig tunes query planning and pagination.
type SearchConfig struct {
	DefaultPageSize int         `mapstructure:"default_page_size" json:"default_page_size" yaml:"default_page_size" toml:"default_page_size"`
	MaxPageSize     int         `mapstructure:"max_page_size" json:"max_page_size" yaml:"max_page_size" toml:"max_page_size"`
	Segmenter       string      `mapstructure:"segmenter" json:"segmenter" yaml:"segmenter" toml:"segmenter"` // dictionary, bigram, lexicon
	Lexicon         []string    `mapstructure:"lexicon" json:"lexicon" yaml:"lexicon" toml:"lexicon"`
	BrandRules      []BrandRule `mapstructure:"brand_rules" json:"brand_rules" yaml:"brand_rules" toml:"brand_rules"`
	KnownBrands     []string    `mapstructure:"known_brands" json:"known_brands" yaml:"known_brands" toml:"known_brands"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	RPS     float64 `mapstructure:"rps" json:"rps" yaml:"rps" toml:"rps"`
	Burst   int     `mapstructure:"burst" json:"burst" yaml:"burst" toml:"burst"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level" toml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format" toml:"format"` // json, console
}

// DefaultBrandRules encodes the 联塑/连塑 disambiguation: both spellings name the
// same pipe maker, so either one widens to pipe, fitting and valve products.
func DefaultBrandRules() []BrandRule {
	return []BrandRule{
		{
			Aliases:          []string{"联塑", "连塑"},
			CategoryKeywords: []string{"管", "管件", "弯头", "三通", "直接", "阀"},
		},
	}
}

// DefaultKnownBrands lists the brands the dialog engine recognizes.
func DefaultKnownBrands() []string {
	return []string{"联塑", "伟星", "金德"}
}

// DefaultConfig returns the baseline configuration used when nothing else is supplied.
func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:            8080,
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
			Mode:            "release",
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    300 * time.Second,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "catalog:",
			},
		},
		Search: SearchConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			Segmenter:       "dictionary",
			BrandRules:      DefaultBrandRules(),
			KnownBrands:     DefaultKnownBrands(),
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     20,
			Burst:   40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
