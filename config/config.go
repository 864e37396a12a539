package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Database      DatabaseConfig
	Elasticsearch ElasticsearchConfig
	Transcripts   TranscriptsConfig
	HTTP          HTTPConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timeout  time.Duration
}

type ElasticsearchConfig struct {
	Host          string
	Username      string
	Password      string
	Timeout       time.Duration
	ProbeInterval time.Duration
}

type TranscriptsConfig struct {
	Dir string
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnvRequired("DB_HOST"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvRequired("DB_NAME"),
			User:     getEnvRequired("SEARCH_DB_USER"),
			Password: getEnvRequired("SEARCH_DB_PASSWORD"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "prefer"),
			Timeout:  DBTimeout,
		},
		Elasticsearch: ElasticsearchConfig{
			Host:          getEnvRequired("ELASTICSEARCH_HOST"),
			Username:      getEnvOrDefault("ELASTICSEARCH_USERNAME", ""),
			Password:      getEnvOrDefault("ELASTICSEARCH_PASSWORD", ""),
			Timeout:       EngineTimeout,
			ProbeInterval: ProbeInterval,
		},
		Transcripts: TranscriptsConfig{
			Dir: getEnvOrDefault("TRANSCRIPTS_DIR", "./transcripts"),
		},
		HTTP: HTTPConfig{
			Addr:              HTTPAddr,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if err := cfg.Database.validateSSLMode(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	return cfg, nil
}

func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func (c *DatabaseConfig) validateSSLMode() error {
	switch c.SSLMode {
	case "allow", "prefer", "require", "verify-ca", "verify-full":
		return nil
	default:
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}
}

func getEnvRequired(key string) string {
	if v := readEnvFile(key); v != "" {
		return v
	}

	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := readEnvFile(key); v != "" {
		return v
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// readEnvFile supports the _FILE suffix convention for Docker secrets.
func readEnvFile(key string) string {
	fileValue := os.Getenv(key + "_FILE")
	if fileValue == "" {
		return ""
	}

	content, err := os.ReadFile(fileValue)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}
