// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Log         LogConfig
	Sources     SourcesConfig
	Insight     InsightConfig
	Report      ReportConfig
	Analysis    AnalysisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. An empty URL disables the event
// bus; analysis events are then skipped.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// SourceConfig holds credentials for one external content source
type SourceConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	APIKey       string
	AccessToken  string
}

// SourcesConfig holds per-source collector configuration
type SourcesConfig struct {
	News             SourceConfig
	Trend            SourceConfig
	Video            SourceConfig
	Microblog        SourceConfig
	Photo            SourceConfig
	ShortVideo       SourceConfig
	CollectorTimeout time.Duration
}

// InsightConfig holds insight generation configuration. An empty APIKey
// disables model calls and the deterministic fallback insight is used.
type InsightConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// ReportConfig holds report rendering configuration
type ReportConfig struct {
	OutputDir string
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	EventsTopic string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "hotindex"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Sources: SourcesConfig{
			News: SourceConfig{
				BaseURL:      getEnv("NEWS_API_BASE_URL", "https://openapi.newsportal.example"),
				ClientID:     getEnv("NEWS_API_CLIENT_ID", ""),
				ClientSecret: getEnv("NEWS_API_CLIENT_SECRET", ""),
			},
			Trend: SourceConfig{
				BaseURL:      getEnv("TREND_API_BASE_URL", "https://openapi.trendlab.example"),
				ClientID:     getEnv("TREND_API_CLIENT_ID", ""),
				ClientSecret: getEnv("TREND_API_CLIENT_SECRET", ""),
			},
			Video: SourceConfig{
				BaseURL: getEnv("VIDEO_API_BASE_URL", "https://www.googleapis.com/youtube"),
				APIKey:  getEnv("VIDEO_API_KEY", ""),
			},
			Microblog: SourceConfig{
				BaseURL:     getEnv("MICROBLOG_API_HOST", ""),
				AccessToken: getEnv("MICROBLOG_BEARER_TOKEN", ""),
			},
			Photo: SourceConfig{
				BaseURL:     getEnv("PHOTO_API_BASE_URL", "https://graph.photogram.example"),
				AccessToken: getEnv("PHOTO_ACCESS_TOKEN", ""),
			},
			ShortVideo: SourceConfig{
				BaseURL:     getEnv("SHORTVIDEO_API_BASE_URL", "https://open.clipstream.example"),
				AccessToken: getEnv("SHORTVIDEO_ACCESS_TOKEN", ""),
			},
			CollectorTimeout: getEnvAsDuration("COLLECTOR_TIMEOUT", 10*time.Second),
		},
		Insight: InsightConfig{
			APIKey:      getEnv("INSIGHT_API_KEY", ""),
			Model:       getEnv("INSIGHT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("INSIGHT_TEMPERATURE", 0.4),
			MaxTokens:   getEnvAsInt("INSIGHT_MAX_TOKENS", 1500),
		},
		Report: ReportConfig{
			OutputDir: getEnv("REPORT_OUTPUT_DIR", "./reports"),
		},
		Analysis: AnalysisConfig{
			EventsTopic: getEnv("ANALYSIS_EVENTS_TOPIC", "analysis"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Report.OutputDir == "" {
		return fmt.Errorf("report output directory must be set")
	}
	if config.Insight.MaxTokens <= 0 {
		return fmt.Errorf("insight max tokens must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
