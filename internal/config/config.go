package config

import (
	"errors"
	"fmt"
	"os"

	"peregovorka/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Client     ClientConfig     `yaml:"client"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port         int             `yaml:"port"`
	ReadTimeout  int             `yaml:"read_timeout"`
	WriteTimeout int             `yaml:"write_timeout"`
	RateLimit    ServerRateLimit `yaml:"rate_limit"`
}

type ServerRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	TokenTTL          int            `yaml:"token_ttl"`
	BcryptCost        int            `yaml:"bcrypt_cost"`
	LoginRateAttempts int            `yaml:"login_rate_attempts"`
	LoginRateWindow   int            `yaml:"login_rate_window"`
	BootstrapAdmin    BootstrapAdmin `yaml:"bootstrap_admin"`
}

// BootstrapAdmin seeds an administrator account on startup when no user
// with the given email exists yet.
type BootstrapAdmin struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// ClientConfig configures roomctl: where the API lives and where the
// bearer token is persisted between invocations.
type ClientConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"`
	TokenFile string `yaml:"token_file"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment may already be populated
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Подставляем переменные окружения в YAML до разбора
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range", c.Auth.BcryptCost)
	}

	if c.Auth.BootstrapAdmin.Email != "" && c.Auth.BootstrapAdmin.Password == "" {
		return errors.New("auth.bootstrap_admin.password is required when bootstrap admin is set")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Auth defaults
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = models.DefaultTokenTTL
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = models.DefaultBcryptCost
	}
	if c.Auth.LoginRateAttempts == 0 {
		c.Auth.LoginRateAttempts = models.LoginRateLimitAttempts
	}
	if c.Auth.LoginRateWindow == 0 {
		c.Auth.LoginRateWindow = models.LoginRateLimitWindow
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Client defaults
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 10
	}
	if c.Client.TokenFile == "" {
		c.Client.TokenFile = ".roomctl-token"
	}
}
