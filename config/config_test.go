package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	require.Len(t, cfg.Search.BrandRules, 1)
	assert.ElementsMatch(t, []string{"联塑", "连塑"}, cfg.Search.BrandRules[0].Aliases)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*AppConfig)
		expectedErrors int
	}{
		{"valid defaults", func(*AppConfig) {}, 0},
		{"bad port", func(c *AppConfig) { c.Server.Port = 0 }, 1},
		{"unknown store", func(c *AppConfig) { c.Store.Driver = "mongo" }, 1},
		{"sql store needs dsn", func(c *AppConfig) { c.Store.Driver = "postgres" }, 1},
		{"sqlite with dsn", func(c *AppConfig) { c.Store.Driver = "sqlite"; c.Store.DSN = "file:test.db" }, 0},
		{"zero ttl", func(c *AppConfig) { c.Cache.TTL = 0 }, 1},
		{"redis without addr", func(c *AppConfig) { c.Cache.Driver = "redis"; c.Cache.Redis.Addr = "" }, 1},
		{"max below default", func(c *AppConfig) { c.Search.MaxPageSize = 10 }, 1},
		{"unknown segmenter", func(c *AppConfig) { c.Search.Segmenter = "whitespace" }, 1},
		{"duplicate brands", func(c *AppConfig) { c.Search.KnownBrands = []string{"伟星", "伟星"} }, 1},
		{"rule without keywords", func(c *AppConfig) {
			c.Search.BrandRules = []BrandRule{{Aliases: []string{"伟星"}}}
		}, 1},
		{"rule with blank alias", func(c *AppConfig) {
			c.Search.BrandRules = []BrandRule{{Aliases: []string{" "}, CategoryKeywords: []string{"管"}}}
		}, 1},
		{"rate limit enabled without burst", func(c *AppConfig) {
			c.RateLimit.Enabled = true
			c.RateLimit.Burst = 0
		}, 1},
		{"bad log format", func(c *AppConfig) { c.Logging.Format = "xml" }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			problems := cfg.Validate()
			assert.Len(t, problems, tt.expectedErrors, "problems: %v", problems)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	require.Len(t, cfg.Search.BrandRules, 1)
	assert.Equal(t, DefaultBrandRules()[0].CategoryKeywords, cfg.Search.BrandRules[0].CategoryKeywords)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
server:
  port: 9000
cache:
  ttl: 90s
search:
  segmenter: lexicon
  brand_rules:
    - aliases: ["伟星", "伟兴"]
      category_keywords: ["管"]
`), 0o644))

	t.Setenv("CATALOG_STORE_DRIVER", "bleve")
	t.Setenv("CATALOG_SERVER_PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))

	cfg, err := Load(yamlPath, flags)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL, "file overrides defaults")
	assert.Equal(t, "bleve", cfg.Store.Driver)
	assert.Equal(t, "lexicon", cfg.Search.Segmenter)
	assert.Equal(t, "debug", cfg.Logging.Level, "flag overrides everything")
	require.Len(t, cfg.Search.BrandRules, 1)
	assert.Equal(t, []string{"伟星", "伟兴"}, cfg.Search.BrandRules[0].Aliases)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_LOGGING_FORMAT=console\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CATALOG_LOGGING_FORMAT") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_STORE_DRIVER", "mongo")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.toml", nil)
	assert.Error(t, err)
}
