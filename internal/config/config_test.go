package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.HTTP.Port)
	}
	if cfg.Upstream.PoolSize != 5 {
		t.Errorf("pool size = %d, want 5", cfg.Upstream.PoolSize)
	}
	if cfg.Upstream.HealthCheckSeconds != 30 {
		t.Errorf("health check = %d, want 30", cfg.Upstream.HealthCheckSeconds)
	}
	if cfg.Gate.MaxInFlight != 5000 {
		t.Errorf("max in-flight = %d, want 5000", cfg.Gate.MaxInFlight)
	}
	if cfg.Balancer.Enabled {
		t.Error("balancer enabled by default, want disabled")
	}
}

func TestLoad_YAMLFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dopc.yaml")
	file := []byte(`
http:
  port: 9100
upstream:
  base_url: http://localhost:10000/home-assignment-api/v1
  pool_size: 2
balancer:
  enabled: true
  num_workers: 4
`)
	if err := os.WriteFile(path, file, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOPC_CONFIG", path)
	t.Setenv("DOPC_POOL_SIZE", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Port != 9100 {
		t.Errorf("port = %d, want 9100 from file", cfg.HTTP.Port)
	}
	if cfg.Upstream.BaseURL != "http://localhost:10000/home-assignment-api/v1" {
		t.Errorf("base url = %q, want file value", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PoolSize != 7 {
		t.Errorf("pool size = %d, want env override 7", cfg.Upstream.PoolSize)
	}
	if !cfg.Balancer.Enabled || cfg.Balancer.NumWorkers != 4 {
		t.Errorf("balancer = %+v, want enabled with 4 workers", cfg.Balancer)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero pool", key: "DOPC_POOL_SIZE", value: "0"},
		{name: "zero gate", key: "DOPC_MAX_IN_FLIGHT", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want validation failure")
			}
		})
	}
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	t.Setenv("DOPC_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want read failure")
	}
}
