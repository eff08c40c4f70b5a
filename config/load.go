package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CATALOG_STORE_DRIVER.
const EnvPrefix = "CATALOG"

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"port":         "server.port",
	"store-driver": "store.driver",
	"store-dsn":    "store.dsn",
	"seed-file":    "store.seed_file",
	"cache-driver": "cache.driver",
	"cache-ttl":    "cache.ttl",
	"redis-addr":   "cache.redis.addr",
	"segmenter":    "search.segmenter",
	"rate-limit":   "rate_limit.enabled",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
}

// Load builds the configuration. path may be empty; flags may be nil.
// A .env file in the working directory is loaded first when present.
func Load(path string, flags *pflag.FlagSet) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return AppConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return AppConfig{}, fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override it.
func setDefaults(v *viper.Viper, cfg AppConfig) {
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.mode", cfg.Server.Mode)

	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.dsn", cfg.Store.DSN)
	v.SetDefault("store.seed_file", cfg.Store.SeedFile)

	v.SetDefault("cache.driver", cfg.Cache.Driver)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.redis.addr", cfg.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", cfg.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", cfg.Cache.Redis.DB)
	v.SetDefault("cache.redis.prefix", cfg.Cache.Redis.Prefix)

	v.SetDefault("search.default_page_size", cfg.Search.DefaultPageSize)
	v.SetDefault("search.max_page_size", cfg.Search.MaxPageSize)
	v.SetDefault("search.segmenter", cfg.Search.Segmenter)
	v.SetDefault("search.lexicon", cfg.Search.Lexicon)
	v.SetDefault("search.brand_rules", brandRuleMaps(cfg.Search.BrandRules))
	v.SetDefault("search.known_brands", cfg.Search.KnownBrands)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.rps", cfg.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// brandRuleMaps renders rules the way viper reads them from a file.
func brandRuleMaps(rules []BrandRule) []map[string]any {
	out := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		out = append(out, map[string]any{
			"aliases":           r.Aliases,
			"category_keywords": r.CategoryKeywords,
		})
	}
	return out
}
