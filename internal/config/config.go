// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	YouTube    YouTubeConfig
	Transcript TranscriptConfig
	Gemini     GeminiConfig
	Frames     FramesConfig
	Notes      NotesConfig
	Auth       AuthConfig
	Logging    LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RedisConfig contains the optional result cache configuration.
// An empty Addr disables the cache entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
// An empty Host disables event publishing.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// YouTubeConfig contains YouTube Data API configuration.
// An empty APIKey makes the metadata client fall back to page scraping.
type YouTubeConfig struct {
	APIKey  string
	Timeout time.Duration
}

// TranscriptConfig contains transcript retrieval configuration.
type TranscriptConfig struct {
	BaseURL         string
	DefaultLanguage string
	Timeout         time.Duration
}

// GeminiConfig contains the generative AI completion configuration.
type GeminiConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// FramesConfig contains key frame extraction configuration.
type FramesConfig struct {
	Dir        string
	PublicPath string
	Count      int
}

// NotesConfig contains note generation pipeline configuration.
type NotesConfig struct {
	MetadataFallbackEnabled bool
	HistoryLimit            int
}

// AuthConfig contains service API key configuration.
type AuthConfig struct {
	APIKeys []string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "video_notes")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Redis result cache (disabled unless addr is set)
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", 24*time.Hour)

	// RabbitMQ (disabled unless host is set)
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "video.notes")
	viper.SetDefault("rabbitmq.queue", "video.notes.processed")
	viper.SetDefault("rabbitmq.routingkey", "video.processed")

	// YouTube metadata
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.timeout", 30*time.Second)

	// Transcripts
	viper.SetDefault("transcript.baseurl", "https://www.youtube.com")
	viper.SetDefault("transcript.defaultlanguage", "en")
	viper.SetDefault("transcript.timeout", 30*time.Second)

	// Gemini
	viper.SetDefault("gemini.baseurl", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.apikey", "")
	viper.SetDefault("gemini.timeout", 60*time.Second)

	// Key frames
	viper.SetDefault("frames.dir", "./static/frames")
	viper.SetDefault("frames.publicpath", "/static/frames")
	viper.SetDefault("frames.count", 4)

	// Notes pipeline
	viper.SetDefault("notes.metadatafallbackenabled", true)
	viper.SetDefault("notes.historylimit", 10)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
