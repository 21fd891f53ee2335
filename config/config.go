package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	StorageDriver string `yaml:"storage_driver"`
	StorageDSN    string `yaml:"storage_dsn"`
	TokenKey      string `yaml:"token_key"`

	RabbitMQURL   string `yaml:"rabbitmq_url"`
	OrderExchange string `yaml:"order_exchange"`
	OrderQueue    string `yaml:"order_queue"`
	MaxPriority   int    `yaml:"max_priority"`

	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	MockAddr      string `yaml:"mock_addr"`
	MockJWTSecret string `yaml:"-"`
	MockAdminPass string `yaml:"-"`
}

// LoadConfig reads an optional YAML file first and lets environment
// variables override whatever it sets. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		APIBaseURL:    "http://localhost:5000/api",
		StorageDriver: "sqlite",
		StorageDSN:    defaultStoragePath(),
		TokenKey:      "token",
		OrderExchange: "storefront_order_events",
		MaxPriority:   10,
		LogLevel:      "info",
		MockAddr:      ":5000",
	}
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv("API_BASE_URL", c.APIBaseURL)
	c.HTTPTimeout = getDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	c.StorageDSN = getEnvFromFile("STORAGE_DSN_FILE", "STORAGE_DSN", c.StorageDSN)
	c.TokenKey = getEnv("TOKEN_KEY", c.TokenKey)
	c.RabbitMQURL = getEnvFromFile("RABBITMQ_URL_FILE", "RABBITMQ_URL", c.RabbitMQURL)
	c.OrderExchange = getEnv("ORDER_EXCHANGE", c.OrderExchange)
	c.OrderQueue = getEnv("ORDER_QUEUE", c.OrderQueue)
	c.MaxPriority = getInt("MAX_PRIORITY", c.MaxPriority)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.MockAddr = getEnv("MOCK_ADDR", c.MockAddr)
	c.MockJWTSecret = getEnvFromFile("MOCK_JWT_SECRET_FILE", "MOCK_JWT_SECRET", "storefront-dev-secret")
	c.MockAdminPass = getEnv("MOCK_ADMIN_PASSWORD", "admin123")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url must not be empty")
	}
	switch c.StorageDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.TokenKey == "" {
		return fmt.Errorf("token key must not be empty")
	}
	if c.MaxPriority < 0 || c.MaxPriority > 255 {
		return fmt.Errorf("max priority %d out of range", c.MaxPriority)
	}
	return nil
}

// EventsEnabled reports whether the order event bus is configured.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(dir, "storefront", "storage.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
