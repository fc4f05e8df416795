package config

import (
	"strings"
	"testing"
)

// setValidEnv populates a complete, valid configuration. Individual
// tests override or unset keys from here.
func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CASENOTIFY_PRIMARY.ENV", "test")
	t.Setenv("CASENOTIFY_DATABASE.HOST", "localhost")
	t.Setenv("CASENOTIFY_DATABASE.PORT", "5432")
	t.Setenv("CASENOTIFY_DATABASE.USER", "casenotify")
	t.Setenv("CASENOTIFY_DATABASE.PASSWORD", "secret")
	t.Setenv("CASENOTIFY_DATABASE.NAME", "casenotify_test")
	t.Setenv("CASENOTIFY_DATABASE.SSL_MODE", "disable")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Primary.Env != "test" {
		t.Fatalf("Primary.Env = %q, want %q", cfg.Primary.Env, "test")
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Fatalf("Database host/port = %q/%d, want localhost/5432", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.Name != "casenotify_test" {
		t.Fatalf("Database.Name = %q", cfg.Database.Name)
	}

	// Timezone defaults to UTC when unset.
	if cfg.Primary.Timezone != "UTC" {
		t.Fatalf("Primary.Timezone = %q, want UTC default", cfg.Primary.Timezone)
	}
}

func TestLoadTimezoneOverride(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CASENOTIFY_PRIMARY.TIMEZONE", "America/Chicago")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Primary.Timezone != "America/Chicago" {
		t.Fatalf("Primary.Timezone = %q, want America/Chicago", cfg.Primary.Timezone)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CASENOTIFY_DATABASE.HOST", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without database host, want validation error")
	} else if !strings.Contains(err.Error(), "validating config") {
		t.Fatalf("Load error = %v, want validation error", err)
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CASENOTIFY_PRIMARY.ENV", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted unknown runtime env, want validation error")
	}
}

func TestIsDevelopment(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CASENOTIFY_PRIMARY.ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("IsDevelopment() = false in development env")
	}
}
