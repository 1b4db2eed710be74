package config

import (
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/providers/confmap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(confmap.Provider(map[string]interface{}{}, "."))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Fatalf("expected port 8000, got %q", cfg.Server.Port)
	}
	if cfg.Hub.Host != DefaultHubHost {
		t.Fatalf("expected hub host %q, got %q", DefaultHubHost, cfg.Hub.Host)
	}
	if cfg.Hub.ExpressionDataset != DefaultExpressionDataset {
		t.Fatalf("unexpected expression dataset %q", cfg.Hub.ExpressionDataset)
	}
	if cfg.Hub.PhenotypeDataset != DefaultPhenotypeDataset {
		t.Fatalf("unexpected phenotype dataset %q", cfg.Hub.PhenotypeDataset)
	}
	if cfg.Hub.DiseaseField != DefaultDiseaseField {
		t.Fatalf("unexpected disease field %q", cfg.Hub.DiseaseField)
	}
	if cfg.Hub.TCGADiseaseCount != 33 || cfg.Hub.TARGETDiseaseOffset != 88 {
		t.Fatalf("unexpected disease bounds %d/%d", cfg.Hub.TCGADiseaseCount, cfg.Hub.TARGETDiseaseOffset)
	}
	if cfg.Hub.Timeout != 0 {
		t.Fatalf("expected no hub timeout by default, got %s", cfg.Hub.Timeout)
	}
	if cfg.Observability == nil {
		t.Fatal("expected observability defaults to be injected")
	}
	if cfg.Observability.ServiceName != ServiceName {
		t.Fatalf("expected service name %q, got %q", ServiceName, cfg.Observability.ServiceName)
	}
	if cfg.Observability.Environment != "development" {
		t.Fatalf("expected environment to follow primary.env, got %q", cfg.Observability.Environment)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(confmap.Provider(map[string]interface{}{
		"primary.env":                 "production",
		"server.port":                 "9090",
		"server.cors_allowed_origins": "http://localhost:3000, https://viz.example.org",
		"hub.host":                    "http://127.0.0.1:7222",
		"hub.timeout":                 "30s",
	}, "."))
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if got := strings.Join(cfg.Server.CORSAllowedOrigins, "|"); got != "http://localhost:3000|https://viz.example.org" {
		t.Fatalf("unexpected CORS origins %q", got)
	}
	if cfg.Hub.Host != "http://127.0.0.1:7222" {
		t.Fatalf("unexpected hub host %q", cfg.Hub.Host)
	}
	if cfg.Hub.Timeout != 30*time.Second {
		t.Fatalf("expected 30s hub timeout, got %s", cfg.Hub.Timeout)
	}
	if !cfg.Observability.IsProduction() {
		t.Fatal("expected production observability environment")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"target offset before tcga count": {
			"hub.tcga_disease_count":    40,
			"hub.target_disease_offset": 10,
		},
		"hub host not a url": {
			"hub.host": "not a url",
		},
		"bad log level": {
			"observability.logging.level":  "verbose",
			"observability.logging.format": "json",
		},
		"missing log format": {
			"observability.logging.level": "debug",
		},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(confmap.Provider(values, ".")); err == nil {
				t.Fatal("expected load to fail")
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	if got := cfg.GetLogLevel(); got != "info" {
		t.Fatalf("expected info in production, got %q", got)
	}

	cfg.Environment = "development"
	if got := cfg.GetLogLevel(); got != "debug" {
		t.Fatalf("expected debug in development, got %q", got)
	}

	cfg.Logging.Level = "warn"
	if got := cfg.GetLogLevel(); got != "warn" {
		t.Fatalf("expected explicit level to win, got %q", got)
	}
}
