package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8501"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// CleaningConfig contains upload and output handling configuration.
type CleaningConfig struct {
	// MaxUploadBytes caps accepted upload payloads. Default 50MB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`
	// OutputDir is where cleaned files are written; empty means the OS
	// temp directory.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	// ShareRowLimit caps the rows shown on the public share page.
	ShareRowLimit int `yaml:"share_row_limit" envconfig:"SHARE_ROW_LIMIT" default:"200"`
	// TokenTTL expires download/share tokens; zero keeps them for the
	// process lifetime.
	TokenTTL time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL" default:"0"`
}

// Load loads configuration from environment variables layered over an
// optional config.yaml next to the working directory.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("AIBOX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Cleaning.OutputDir == "" {
		cfg.Cleaning.OutputDir = os.TempDir()
	}
	return &cfg, nil
}

const configFile = "config.yaml"

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs layers env config over file config; env takes precedence
// for any field it set.
func mergeConfigs(fileCfg, envCfg Config) Config {
	if envCfg.Server.Port == 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Server.ReadTimeout == 0 {
		envCfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if envCfg.Server.WriteTimeout == 0 {
		envCfg.Server.WriteTimeout = fileCfg.Server.WriteTimeout
	}
	if envCfg.Cleaning.MaxUploadBytes == 0 {
		envCfg.Cleaning.MaxUploadBytes = fileCfg.Cleaning.MaxUploadBytes
	}
	if envCfg.Cleaning.OutputDir == "" {
		envCfg.Cleaning.OutputDir = fileCfg.Cleaning.OutputDir
	}
	if envCfg.Cleaning.ShareRowLimit == 0 {
		envCfg.Cleaning.ShareRowLimit = fileCfg.Cleaning.ShareRowLimit
	}
	if len(envCfg.Security.AllowedOrigins) == 0 {
		envCfg.Security.AllowedOrigins = fileCfg.Security.AllowedOrigins
	}
	return envCfg
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cleaning.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max upload size: %d", c.Cleaning.MaxUploadBytes)
	}
	if c.Cleaning.ShareRowLimit <= 0 {
		return fmt.Errorf("invalid share row limit: %d", c.Cleaning.ShareRowLimit)
	}
	return nil
}
