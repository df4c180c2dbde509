package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prodledger/prodledger/internal/platform/mongodb"
)

// Config holds the full application configuration. Values come from an
// optional YAML file, overridden by environment variables.
type Config struct {
	ServerAddr  string          `yaml:"serverAddr"`
	Environment string          `yaml:"environment"`
	LogLevel    string          `yaml:"logLevel"`
	MongoDB     *mongodb.Config `yaml:"mongodb"`
	Auth        AuthConfig      `yaml:"auth"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	Media       MediaConfig     `yaml:"media"`
	Tracing     TracingConfig   `yaml:"tracing"`
}

// AuthConfig holds token issuance settings
type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

// KafkaConfig holds the admin-notification channel settings
type KafkaConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notificationsTopic"`
}

// MediaConfig holds the external media store settings
type MediaConfig struct {
	CloudName string `yaml:"cloudName"`
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
	BaseURL   string `yaml:"baseURL"`
}

// TracingConfig holds OTLP exporter settings
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint"`
	SampleRate   float64 `yaml:"sampleRate"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		ServerAddr:  ":8080",
		Environment: "development",
		LogLevel:    "info",
		MongoDB:     mongodb.DefaultConfig(),
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Enabled:            false,
			Brokers:            []string{"localhost:9092"},
			NotificationsTopic: "prodledger.notifications",
		},
		Media: MediaConfig{
			BaseURL: "https://api.cloudinary.com/v1_1",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Load builds the configuration from an optional YAML file and the
// environment. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtSecret (JWT_SECRET) is required")
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.MongoDB.URI = getEnv("MONGODB_URI", c.MongoDB.URI)
	c.MongoDB.Database = getEnv("MONGODB_DATABASE", c.MongoDB.Database)
	c.MongoDB.ReplicaSet = getEnv("MONGODB_REPLICA_SET", c.MongoDB.ReplicaSet)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.Auth.TokenTTL = ttl
		}
	}

	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		c.Kafka.Enabled = v == "true"
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	c.Kafka.NotificationsTopic = getEnv("KAFKA_NOTIFICATIONS_TOPIC", c.Kafka.NotificationsTopic)

	c.Media.CloudName = getEnv("MEDIA_CLOUD_NAME", c.Media.CloudName)
	c.Media.APIKey = getEnv("MEDIA_API_KEY", c.Media.APIKey)
	c.Media.APISecret = getEnv("MEDIA_API_SECRET", c.Media.APISecret)
	c.Media.BaseURL = getEnv("MEDIA_BASE_URL", c.Media.BaseURL)

	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		c.Tracing.Enabled = v == "true"
	}
	c.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.OTLPEndpoint)
	if v := os.Getenv("TRACING_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tracing.SampleRate = rate
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
