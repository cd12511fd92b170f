package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATASET_TIMEOUT", "5s")
	t.Setenv("SKIP_AUTH", "true")
	t.Setenv("REFRESH_SCHEDULE", "@every 30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatasetTimeout != 5*time.Second {
		t.Errorf("DatasetTimeout = %v, want 5s", cfg.DatasetTimeout)
	}
	if !cfg.SkipAuth {
		t.Errorf("SkipAuth = false, want true")
	}
	if cfg.RefreshSchedule != "@every 30s" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("DATASET_TIMEOUT", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error for an unparsable timeout")
	}
}
