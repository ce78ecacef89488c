package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Addr    string        `env:"POSTERPLANNER_TEST_ADDR" envDefault:":9000"`
	Timeout time.Duration `env:"POSTERPLANNER_TEST_TIMEOUT" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected default addr :9000, got %q", cfg.Addr)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected default timeout 5s, got %v", cfg.Timeout)
	}
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("POSTERPLANNER_TEST_TIMEOUT", "250ms")
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", cfg.Timeout)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("POSTERPLANNER_TEST_TIMEOUT", "soon")
	var cfg envTestConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
