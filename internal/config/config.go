// README: Config loader; typed defaults, optional YAML file (DOPC_CONFIG),
// env overrides on top.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	BaseURL            string `yaml:"base_url"`
	PoolSize           int    `yaml:"pool_size"`
	HealthCheckSeconds int    `yaml:"health_check_seconds"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
	ProbeVenue         string `yaml:"probe_venue"`
}

type BalancerConfig struct {
	Enabled            bool `yaml:"enabled"`
	NumWorkers         int  `yaml:"num_workers"`
	WorkerBasePort     int  `yaml:"worker_base_port"`
	HealthCheckSeconds int  `yaml:"health_check_seconds"`
	FailureThreshold   int  `yaml:"failure_threshold"`
}

type Config struct {
	HTTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Gate     struct {
		MaxInFlight int64 `yaml:"max_in_flight"`
	} `yaml:"gate"`
	Balancer BalancerConfig `yaml:"balancer"`
	Log      struct {
		Pretty bool `yaml:"pretty"`
	} `yaml:"log"`
}

// Load builds the configuration in three layers: compiled defaults, the
// optional YAML file named by DOPC_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("DOPC_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse config file")
		}
	}

	cfg.HTTP.Host = envOrDefault("DOPC_HOST", cfg.HTTP.Host)
	cfg.HTTP.Port = envOrDefaultInt("DOPC_PORT", cfg.HTTP.Port)
	cfg.Upstream.BaseURL = envOrDefault("DOPC_UPSTREAM_BASE_URL", cfg.Upstream.BaseURL)
	cfg.Upstream.PoolSize = envOrDefaultInt("DOPC_POOL_SIZE", cfg.Upstream.PoolSize)
	cfg.Upstream.HealthCheckSeconds = envOrDefaultInt("DOPC_POOL_HEALTH_SECONDS", cfg.Upstream.HealthCheckSeconds)
	cfg.Upstream.TimeoutSeconds = envOrDefaultInt("DOPC_UPSTREAM_TIMEOUT_SECONDS", cfg.Upstream.TimeoutSeconds)
	cfg.Upstream.ProbeVenue = envOrDefault("DOPC_PROBE_VENUE", cfg.Upstream.ProbeVenue)
	cfg.Gate.MaxInFlight = int64(envOrDefaultInt("DOPC_MAX_IN_FLIGHT", int(cfg.Gate.MaxInFlight)))
	cfg.Balancer.Enabled = envOrDefaultBool("DOPC_USE_BALANCER", cfg.Balancer.Enabled)
	cfg.Balancer.NumWorkers = envOrDefaultInt("DOPC_NUM_WORKERS", cfg.Balancer.NumWorkers)
	cfg.Balancer.WorkerBasePort = envOrDefaultInt("DOPC_WORKER_BASE_PORT", cfg.Balancer.WorkerBasePort)
	cfg.Balancer.HealthCheckSeconds = envOrDefaultInt("DOPC_WORKER_HEALTH_SECONDS", cfg.Balancer.HealthCheckSeconds)
	cfg.Balancer.FailureThreshold = envOrDefaultInt("DOPC_WORKER_FAILURE_THRESHOLD", cfg.Balancer.FailureThreshold)
	cfg.Log.Pretty = envOrDefaultBool("DOPC_LOG_PRETTY", cfg.Log.Pretty)

	return cfg, cfg.validate()
}

func defaults() Config {
	var cfg Config
	cfg.HTTP.Host = "localhost"
	cfg.HTTP.Port = 8000
	cfg.Upstream.BaseURL = "https://consumer-api.development.dev.woltapi.com/home-assignment-api/v1"
	cfg.Upstream.PoolSize = 5
	cfg.Upstream.HealthCheckSeconds = 30
	cfg.Upstream.TimeoutSeconds = 30
	cfg.Upstream.ProbeVenue = "home-assignment-venue-helsinki"
	cfg.Gate.MaxInFlight = 5000
	cfg.Balancer.Enabled = false
	cfg.Balancer.NumWorkers = 3
	cfg.Balancer.WorkerBasePort = 8001
	cfg.Balancer.HealthCheckSeconds = 5
	cfg.Balancer.FailureThreshold = 3
	cfg.Log.Pretty = false
	return cfg
}

func (c Config) validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream base URL is required")
	}
	if c.Upstream.PoolSize < 1 {
		return errors.New("pool size must be at least 1")
	}
	if c.Gate.MaxInFlight < 1 {
		return errors.New("max in-flight must be at least 1")
	}
	if c.Balancer.Enabled {
		if c.Balancer.NumWorkers < 1 {
			return errors.New("balancer needs at least one worker")
		}
		if c.Balancer.FailureThreshold < 1 {
			return errors.New("failure threshold must be at least 1")
		}
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
