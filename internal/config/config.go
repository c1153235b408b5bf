package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "STARTUP_PREDICTOR_CONFIG"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	serverAddrEnv     = "SERVER_ADDR"
	publicHostEnv     = "PUBLIC_HOST"
	apiURLEnv         = "PREDICTION_API_URL"
	historyDriverEnv  = "HISTORY_DRIVER"
	historyDSNEnv     = "HISTORY_DSN"
	defaultLocalURL   = "http://localhost:5000"
	defaultDeployURL  = "https://startup-success-api.onrender.com"
	defaultUploadSize = 10 << 20
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	History HistoryConfig `yaml:"history"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the form server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	PublicHost      string        `yaml:"publicHost"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
	SessionTTL      time.Duration `yaml:"sessionTTL"`
}

// APIConfig locates the prediction service.
type APIConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	DeployedOrigin string        `yaml:"deployedOrigin"`
	LocalOrigin    string        `yaml:"localOrigin"`
	Timeout        time.Duration `yaml:"timeout"`
}

// HistoryConfig enables the submission audit log; an empty DSN disables it.
type HistoryConfig struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	Limit         int           `yaml:"limit"`
	Retention     time.Duration `yaml:"retention"`
	PruneInterval time.Duration `yaml:"pruneInterval"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(publicHostEnv); v != "" {
		c.Server.PublicHost = v
	}
	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(historyDriverEnv); v != "" {
		c.History.Driver = v
	}
	if v := os.Getenv(historyDSNEnv); v != "" {
		c.History.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.PublicHost != "" {
		base.Server.PublicHost = override.Server.PublicHost
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if override.Server.MaxUploadBytes > 0 {
		base.Server.MaxUploadBytes = override.Server.MaxUploadBytes
	}
	if override.Server.SessionTTL > 0 {
		base.Server.SessionTTL = override.Server.SessionTTL
	}

	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.DeployedOrigin != "" {
		base.API.DeployedOrigin = override.API.DeployedOrigin
	}
	if override.API.LocalOrigin != "" {
		base.API.LocalOrigin = override.API.LocalOrigin
	}
	if override.API.Timeout > 0 {
		base.API.Timeout = override.API.Timeout
	}

	if override.History.Driver != "" {
		base.History.Driver = override.History.Driver
	}
	if override.History.DSN != "" {
		base.History.DSN = override.History.DSN
	}
	if override.History.Limit > 0 {
		base.History.Limit = override.History.Limit
	}
	if override.History.Retention > 0 {
		base.History.Retention = override.History.Retention
	}
	if override.History.PruneInterval > 0 {
		base.History.PruneInterval = override.History.PruneInterval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:            ":8080",
			PublicHost:      "localhost",
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  defaultUploadSize,
			SessionTTL:      30 * time.Minute,
		},
		API: APIConfig{
			DeployedOrigin: defaultDeployURL,
			LocalOrigin:    defaultLocalURL,
		},
		History: HistoryConfig{Driver: "sqlite", Limit: 20, PruneInterval: time.Hour},
	}
}

// ResolveBaseURL returns the empty (same-origin) base for local hosts and the
// deployed origin everywhere else.
func ResolveBaseURL(hostname, deployedOrigin string) string {
	host := strings.TrimSpace(hostname)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1":
		return ""
	default:
		return deployedOrigin
	}
}

// Origin is the absolute URL the client talks to when served from hostname.
// An explicit BaseURL wins; a same-origin base falls back to LocalOrigin.
func (a APIConfig) Origin(hostname string) string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	if base := ResolveBaseURL(hostname, a.DeployedOrigin); base != "" {
		return base
	}
	if a.LocalOrigin != "" {
		return a.LocalOrigin
	}
	return defaultLocalURL
}
