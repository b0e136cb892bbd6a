package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(".", name), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DefaultFeed, cfg.DefaultFeed)
	assert.Equal(t, DefaultConversionService, cfg.ConversionService)
	assert.Equal(t, FetcherKindConverter, cfg.Fetcher)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)
	assert.Zero(t, cfg.Timeout())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, "config.yaml", `
http_port: "9090"
default_feed: " https://blog.golang.org/feed.atom "
fetcher: DIRECT
request_timeout: 5
log_level: debug
app_env: development
`)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "https://blog.golang.org/feed.atom", cfg.DefaultFeed)
	assert.Equal(t, FetcherKindDirect, cfg.Fetcher)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, AppEnvDevelopment, cfg.AppEnv)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, "config.json", `{"http_port": "9090"}`)
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTPPort)
}

func TestLoad_UnknownAppEnvFallsBackToProduction(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)
}

func TestLoad_InvalidFetcher(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, "config.toml", `fetcher = "scraper"`)

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, sharedErrors.ErrInvalidConfig))
}

func TestLoad_InvalidDefaultFeed(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEFAULT_FEED", "not a url")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, sharedErrors.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	valid := Config{
		DefaultFeed:       DefaultFeed,
		ConversionService: DefaultConversionService,
		Fetcher:           FetcherKindConverter,
	}
	assert.NoError(t, valid.Validate())

	direct := valid
	direct.Fetcher = FetcherKindDirect
	direct.ConversionService = ""
	assert.NoError(t, direct.Validate(), "conversion service is unused by the direct fetcher")

	noService := valid
	noService.ConversionService = "ftp://example.com/convert"
	assert.ErrorIs(t, noService.Validate(), sharedErrors.ErrInvalidConfig)

	negative := valid
	negative.RequestTimeout = -1
	assert.ErrorIs(t, negative.Validate(), sharedErrors.ErrInvalidConfig)
}

func TestLevel_FallsBackToInfo(t *testing.T) {
	cfg := Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestParseEnums(t *testing.T) {
	kind, err := ParseFetcherKind("DIRECT")
	require.NoError(t, err)
	assert.Equal(t, FetcherKindDirect, kind)

	_, err = ParseFetcherKind("scraper")
	assert.ErrorIs(t, err, ErrInvalidFetcherKind)

	env, err := ParseAppEnv("Testing")
	require.NoError(t, err)
	assert.Equal(t, AppEnvTesting, env)

	_, err = ParseAppEnv("staging")
	assert.ErrorIs(t, err, ErrInvalidAppEnv)
	assert.Equal(t, []string{"local", "production", "development", "testing"}, AppEnvNames())
}
