package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPassthrough(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@localhost:5432/kasbook?sslmode=disable"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@localhost:5432/kasbook?sslmode=disable" {
		t.Fatalf("DSN mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "kasbook",
		Password: "s3cret",
		Name:     "kasbook",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"postgres://", "kasbook:s3cret@localhost:5432", "/kasbook", "sslmode=disable"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "localhost"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing user and name")
	}
	if !strings.Contains(err.Error(), "KASBOOK_DB_USER") || !strings.Contains(err.Error(), "KASBOOK_DB_NAME") {
		t.Fatalf("error should name missing vars: %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Dev"}).IsDev() {
		t.Fatal("IsDev should be case-insensitive")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatal("IsProd should match prod")
	}
	if (AppConfig{Env: "prod"}).IsDev() {
		t.Fatal("prod is not dev")
	}
}
