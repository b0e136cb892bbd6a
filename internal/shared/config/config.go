package config

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	DefaultFeed              = "https://hacks.mozilla.org/rss"
	DefaultConversionService = "https://api.rss2json.com/v1/api.json"
)

type Config struct {
	HTTPPort          string      `koanf:"http_port"`
	DefaultFeed       string      `koanf:"default_feed"`
	ConversionService string      `koanf:"conversion_service"`
	Fetcher           FetcherKind `koanf:"fetcher"`
	RequestTimeout    int         `koanf:"request_timeout"`
	LogLevel          string      `koanf:"log_level"`
	AppEnv            AppEnv      `koanf:"app_env"`
}

// configFiles are probed in order; the first one found wins.
var configFiles = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"config.toml",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"http_port":          "8080",
		"default_feed":       DefaultFeed,
		"conversion_service": DefaultConversionService,
		"fetcher":            string(FetcherKindConverter),
		"request_timeout":    0,
		"log_level":          "info",
		"app_env":            string(AppEnvProduction),
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.DefaultFeed = strings.TrimSpace(cfg.DefaultFeed)
	cfg.ConversionService = strings.TrimSpace(cfg.ConversionService)

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	fetcher, err := ParseFetcherKind(k.String("fetcher"))
	if err != nil {
		return nil, oops.With("fetcher", k.String("fetcher"), "allowed", FetcherKindNames()).Wrap(errors.ErrInvalidConfig)
	}
	cfg.Fetcher = fetcher

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the URLs the loader depends on.
func (c *Config) Validate() error {
	if !isHTTPURL(c.DefaultFeed) {
		return oops.With("default_feed", c.DefaultFeed).Wrapf(errors.ErrInvalidConfig, "default_feed must be an absolute http(s) URL")
	}
	if c.Fetcher == FetcherKindConverter && !isHTTPURL(c.ConversionService) {
		return oops.With("conversion_service", c.ConversionService).Wrapf(errors.ErrInvalidConfig, "conversion_service must be an absolute http(s) URL")
	}
	if c.RequestTimeout < 0 {
		return oops.With("request_timeout", c.RequestTimeout).Wrapf(errors.ErrInvalidConfig, "request_timeout must not be negative")
	}
	return nil
}

// Timeout returns the per-request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
