// Package config loads storefront settings.
//
// Priority (highest to lowest):
//  1. Environment variables with the STOREFRONT_ prefix (STOREFRONT_API_BASE_URL)
//  2. storefront.yaml (explicit --config path, ., or the user config dir)
//  3. Built-in defaults
//
// The merged settings are checked against an embedded CUE schema before any
// typed value is handed out.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

//go:embed schema.cue
var schemaCUE string

// AppName names the config file, env prefix and data directory.
const AppName = "storefront"

// Config holds all storefront configuration.
type Config struct {
	API      APIConfig
	Store    StoreConfig
	Log      LogConfig
	Flash    FlashConfig
	Currency CurrencyConfig
}

// APIConfig points at the remote REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration // 0 means no client timeout
}

// StoreConfig locates the durable client storage file.
type StoreConfig struct {
	Path string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// FlashConfig controls one-time messages shown on the home page.
type FlashConfig struct {
	TTL time.Duration
}

// CurrencyConfig controls price display.
type CurrencyConfig struct {
	Symbol string
	Locale string
}

// ValidationError reports settings rejected by the schema.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + e.Details
}

// IsValidationError reports whether err is a schema rejection.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Load reads configuration. An empty path searches the default locations;
// a missing file in the default locations is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := validate(settings(v)); err != nil {
		return nil, err
	}

	apiTimeout, err := time.ParseDuration(v.GetString("api.timeout"))
	if err != nil {
		return nil, fmt.Errorf("parse api.timeout: %w", err)
	}
	flashTTL, err := time.ParseDuration(v.GetString("flash.ttl"))
	if err != nil {
		return nil, fmt.Errorf("parse flash.ttl: %w", err)
	}

	return &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: apiTimeout,
		},
		Store: StoreConfig{
			Path: v.GetString("store.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Flash: FlashConfig{
			TTL: flashTTL,
		},
		Currency: CurrencyConfig{
			Symbol: v.GetString("currency.symbol"),
			Locale: v.GetString("currency.locale"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("flash.ttl", "5s")
	v.SetDefault("currency.symbol", "₹")
	v.SetDefault("currency.locale", "en-IN")
}

// defaultStorePath falls back to the working directory when the platform
// has no user config dir.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return AppName + ".db"
	}
	return filepath.Join(dir, AppName, AppName+".db")
}

// settings flattens the viper view into the shape the schema describes.
// Values are read through viper so env overrides are included.
func settings(v *viper.Viper) map[string]any {
	return map[string]any{
		"api": map[string]any{
			"base_url": v.GetString("api.base_url"),
			"timeout":  v.GetString("api.timeout"),
		},
		"store": map[string]any{
			"path": v.GetString("store.path"),
		},
		"log": map[string]any{
			"level":  v.GetString("log.level"),
			"format": v.GetString("log.format"),
			"output": v.GetString("log.output"),
		},
		"flash": map[string]any{
			"ttl": v.GetString("flash.ttl"),
		},
		"currency": map[string]any{
			"symbol": v.GetString("currency.symbol"),
			"locale": v.GetString("currency.locale"),
		},
	}
}

func validate(values map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	unified := schema.Unify(ctx.Encode(values))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: strings.TrimSpace(cueerrors.Details(err, nil))}
	}
	return nil
}
