// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them on top of built-in defaults into structured Go types, and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for the hub datasets and optional config blocks.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every application env var carries.
//
// Keys are lowercased and nested with ".":
//
//	XENAVIZ_SERVER.PORT -> server.port -> Config.Server.Port
const EnvPrefix = "XENAVIZ_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Hub           HubConfig            `koanf:"hub" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// HubConfig describes the remote Xena hub and the datasets queried on it.
//
// These replace process-wide constants: every repository and service gets
// them injected.
type HubConfig struct {
	Host              string `koanf:"host" validate:"required,url"`
	ExpressionDataset string `koanf:"expression_dataset" validate:"required"`
	PhenotypeDataset  string `koanf:"phenotype_dataset" validate:"required"`
	DiseaseField      string `koanf:"disease_field" validate:"required"`

	// TCGADiseaseCount is the number of leading disease codes that belong to
	// TCGA. TARGETDiseaseOffset is the first code position of TARGET
	// diseases; the positions in between are GTEx tissues.
	TCGADiseaseCount    int `koanf:"tcga_disease_count" validate:"gte=0"`
	TARGETDiseaseOffset int `koanf:"target_disease_offset" validate:"gtefield=TCGADiseaseCount"`

	// Timeout bounds a single hub request. Zero means no client-side timeout.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// Default hub values, matching the public toil hub.
const (
	DefaultHubHost             = "https://toil.xenahubs.net"
	DefaultExpressionDataset   = "TcgaTargetGtex_RSEM_Hugo_norm_count"
	DefaultPhenotypeDataset    = "TcgaTargetGTEX_phenotype.txt"
	DefaultDiseaseField        = "primary disease or tissue"
	DefaultTCGADiseaseCount    = 33
	DefaultTARGETDiseaseOffset = 88
)

// defaults returns the flat koanf key map loaded before the environment.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":                 "development",
		"server.port":                 "8000",
		"server.read_timeout":         30,
		"server.write_timeout":        120,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           20,
		"hub.host":                    DefaultHubHost,
		"hub.expression_dataset":      DefaultExpressionDataset,
		"hub.phenotype_dataset":       DefaultPhenotypeDataset,
		"hub.disease_field":           DefaultDiseaseField,
		"hub.tcga_disease_count":      DefaultTCGADiseaseCount,
		"hub.target_disease_offset":   DefaultTARGETDiseaseOffset,
		"hub.timeout":                 "0s",
	}
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, applies observability defaults,
// and returns the resulting config.
func LoadConfig() (*Config, error) {
	return load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}))
}

// load is LoadConfig with the environment provider injected.
func load(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.Server.CORSAllowedOrigins = splitList(mainConfig.Server.CORSAllowedOrigins)

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// splitList expands comma separated entries coming from a single env var.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
