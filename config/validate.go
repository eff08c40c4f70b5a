package config

import (
	"fmt"
	"strings"
)

var (
	storeDrivers    = []string{"memory", "bleve", "sqlite", "postgres"}
	cacheDrivers    = []string{"memory", "redis"}
	segmenterKinds  = []string{"dictionary", "bigram", "lexicon"}
	logFormats      = []string{"json", "console"}
	dsnStoreDrivers = []string{"sqlite", "postgres"}
)

// Validate returns every problem found in the configuration. An empty result means valid.
func (cfg AppConfig) Validate() []string {
	var problems []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", cfg.Server.Port))
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.max_body_bytes must be positive")
	}

	problems = append(problems, checkOneOf("store.driver", cfg.Store.Driver, storeDrivers)...)
	if contains(dsnStoreDrivers, cfg.Store.Driver) && strings.TrimSpace(cfg.Store.DSN) == "" {
		problems = append(problems, "store.dsn is required for driver '"+cfg.Store.Driver+"'")
	}

	problems = append(problems, checkOneOf("cache.driver", cfg.Cache.Driver, cacheDrivers)...)
	if cfg.Cache.TTL <= 0 {
		problems = append(problems, "cache.ttl must be positive")
	}
	if cfg.Cache.Driver == "redis" && strings.TrimSpace(cfg.Cache.Redis.Addr) == "" {
		problems = append(problems, "cache.redis.addr is required for driver 'redis'")
	}

	if cfg.Search.DefaultPageSize < 1 {
		problems = append(problems, "search.default_page_size must be >= 1")
	}
	if cfg.Search.MaxPageSize < cfg.Search.DefaultPageSize {
		problems = append(problems, "search.max_page_size must be >= search.default_page_size")
	}
	problems = append(problems, checkOneOf("search.segmenter", cfg.Search.Segmenter, segmenterKinds)...)
	problems = append(problems, checkDuplicates("search.known_brands", cfg.Search.KnownBrands)...)
	for i, rule := range cfg.Search.BrandRules {
		if len(rule.Aliases) == 0 {
			problems = append(problems, fmt.Sprintf("search.brand_rules[%d] has no aliases", i))
		}
		if len(rule.CategoryKeywords) == 0 {
			problems = append(problems, fmt.Sprintf("search.brand_rules[%d] has no category keywords", i))
		}
		for _, word := range append(append([]string{}, rule.Aliases...), rule.CategoryKeywords...) {
			if strings.TrimSpace(word) == "" {
				problems = append(problems, fmt.Sprintf("search.brand_rules[%d] contains an empty word", i))
				break
			}
		}
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst < 1) {
		problems = append(problems, "rate_limit.rps and rate_limit.burst must be positive when enabled")
	}

	problems = append(problems, checkOneOf("logging.format", cfg.Logging.Format, logFormats)...)

	return problems
}

func checkOneOf(key, value string, allowed []string) []string {
	if contains(allowed, value) {
		return nil
	}
	return []string{fmt.Sprintf("%s '%s' must be one of %s", key, value, strings.Join(allowed, ", "))}
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate value '"+v+"' found in "+fieldName)
		}
		seen[v] = true
	}

	return errors
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
