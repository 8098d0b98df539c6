package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Telemetr TelemetrConfig `yaml:"telemetr"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TelemetrConfig holds channel-stats provider API settings
type TelemetrConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DefaultPeriod  int    `yaml:"default_period_days"`
}

// Timeout returns the provider request timeout as a duration
func (c TelemetrConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AnalysisConfig holds the tunable tables of the scoring/pricing pipeline
type AnalysisConfig struct {
	BaseCPM             float64            `yaml:"base_cpm"`
	Currency            string             `yaml:"currency"`
	CategoryMultipliers map[string]float64 `yaml:"category_multipliers"`
}

// StorageConfig holds local history storage settings
type StorageConfig struct {
	LocalPath   string `yaml:"local_path"`
	MaxAnalyses int    `yaml:"max_analyses"`
}

// DatabaseConfig holds PostgreSQL settings; analysis history persistence is
// disabled when the URL is empty
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds result-cache settings; caching is disabled when the
// address is empty
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns the cache entry lifetime as a duration
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Telemetr.BaseURL == "" {
		cfg.Telemetr.BaseURL = "https://api.telemetr.io"
	}
	if cfg.Telemetr.TimeoutSeconds == 0 {
		cfg.Telemetr.TimeoutSeconds = 30
	}
	if cfg.Telemetr.DefaultPeriod == 0 {
		cfg.Telemetr.DefaultPeriod = 7
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data"
	}
	if cfg.Storage.MaxAnalyses == 0 {
		cfg.Storage.MaxAnalyses = 500
	}
	if cfg.Redis.TTLMinutes == 0 {
		cfg.Redis.TTLMinutes = 15
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if apiKey := os.Getenv("TELEMETR_API_KEY"); apiKey != "" {
		cfg.Telemetr.APIKey = apiKey
	}
	if baseURL := os.Getenv("TELEMETR_BASE_URL"); baseURL != "" {
		cfg.Telemetr.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return cfg, nil
}
