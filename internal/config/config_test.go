package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		cleanup func()
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "load with defaults (no config file)",
			setup: func() {
				// Reset viper
				viper.Reset()
			},
			cleanup: func() {},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 8080 {
					t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
				}
				if cfg.Database.Host != "localhost" {
					t.Errorf("Database.Host = %s, want localhost", cfg.Database.Host)
				}
				if cfg.Database.Name != "video_notes" {
					t.Errorf("Database.Name = %s, want video_notes", cfg.Database.Name)
				}
				if cfg.Gemini.Model != "gemini-2.5-flash" {
					t.Errorf("Gemini.Model = %s, want gemini-2.5-flash", cfg.Gemini.Model)
				}
				if cfg.Gemini.Timeout != 60*time.Second {
					t.Errorf("Gemini.Timeout = %v, want 60s", cfg.Gemini.Timeout)
				}
				if cfg.Frames.Count != 4 {
					t.Errorf("Frames.Count = %d, want 4", cfg.Frames.Count)
				}
				if !cfg.Notes.MetadataFallbackEnabled {
					t.Error("Notes.MetadataFallbackEnabled = false, want true")
				}
				if cfg.Notes.HistoryLimit != 10 {
					t.Errorf("Notes.HistoryLimit = %d, want 10", cfg.Notes.HistoryLimit)
				}
				if cfg.Transcript.DefaultLanguage != "en" {
					t.Errorf("Transcript.DefaultLanguage = %s, want en", cfg.Transcript.DefaultLanguage)
				}
			},
		},
		{
			name: "load with environment variables",
			setup: func() {
				viper.Reset()
				viper.SetEnvPrefix("APP")
				viper.AutomaticEnv()
				os.Setenv("APP_SERVER_PORT", "9090")
				os.Setenv("APP_DATABASE_HOST", "testdb")
				os.Setenv("APP_GEMINI_MODEL", "gemini-test")
				// Manually bind env vars since AutomaticEnv doesn't work with nested keys
				viper.BindEnv("server.port", "APP_SERVER_PORT")
				viper.BindEnv("database.host", "APP_DATABASE_HOST")
				viper.BindEnv("gemini.model", "APP_GEMINI_MODEL")
			},
			cleanup: func() {
				os.Unsetenv("APP_SERVER_PORT")
				os.Unsetenv("APP_DATABASE_HOST")
				os.Unsetenv("APP_GEMINI_MODEL")
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 9090 {
					t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
				}
				if cfg.Database.Host != "testdb" {
					t.Errorf("Database.Host = %s, want testdb", cfg.Database.Host)
				}
				if cfg.Gemini.Model != "gemini-test" {
					t.Errorf("Gemini.Model = %s, want gemini-test", cfg.Gemini.Model)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.cleanup()

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	if got := viper.GetInt("server.port"); got != 8080 {
		t.Errorf("server.port default = %d, want 8080", got)
	}
	if got := viper.GetString("gemini.baseurl"); got != "https://generativelanguage.googleapis.com" {
		t.Errorf("gemini.baseurl default = %s", got)
	}
	if got := viper.GetString("frames.publicpath"); got != "/static/frames" {
		t.Errorf("frames.publicpath default = %s", got)
	}
	if got := viper.GetDuration("redis.ttl"); got != 24*time.Hour {
		t.Errorf("redis.ttl default = %v, want 24h", got)
	}
}
