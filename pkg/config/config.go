package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("MELIORA")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a string slice config value
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	provider := viper.GetString("storage.provider")
	if provider != "supabase" && provider != "filesystem" {
		return fmt.Errorf("invalid storage provider: %s", provider)
	}

	if err := validateAPIKeys(); err != nil {
		return err
	}

	// Auto-correct nonsense pipeline settings rather than failing startup
	if viper.GetDuration("recording.chunk_duration") <= 0 {
		viper.Set("recording.chunk_duration", 3*time.Second)
	}
	if viper.GetInt("stitch.batch_size") <= 0 {
		viper.Set("stitch.batch_size", 200)
	}
	if viper.GetInt("stitch.large_session_chunks") <= 0 {
		viper.Set("stitch.large_session_chunks", 600)
	}

	return nil
}

// validateAPIKeys validates that API keys are not using placeholder values
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	whisperKey := viper.GetString("whisper.api_key")
	for _, placeholder := range placeholders {
		if whisperKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid Whisper API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: Whisper API key is using a placeholder value")
			break
		}
	}

	aiKey := viper.GetString("ai.api_key")
	for _, placeholder := range placeholders {
		if aiKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid AI API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: AI API key is using a placeholder value")
			break
		}
	}

	supabaseKey := viper.GetString("storage.supabase_key")
	if viper.GetString("storage.provider") == "supabase" {
		for _, placeholder := range placeholders {
			if supabaseKey == placeholder {
				if isProduction {
					return fmt.Errorf("invalid Supabase storage key: cannot use placeholder values in production")
				}
				fmt.Println("Warning: Supabase storage key is using a placeholder value")
				break
			}
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Recording.ChunkDuration <= 0 {
		c.Recording.ChunkDuration = 3 * time.Second
	}

	if c.Stitch.BatchSize <= 0 {
		c.Stitch.BatchSize = 200
	}

	if c.Stitch.LargeSessionChunks <= 0 {
		c.Stitch.LargeSessionChunks = 600
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/meliora.db")
	viper.SetDefault("database.verbose", false)

	// Auth defaults
	viper.SetDefault("auth.jwks_url", "")
	viper.SetDefault("auth.dev_auth_enabled", false)
	viper.SetDefault("auth.dev_auth_token", "")

	// Storage defaults
	viper.SetDefault("storage.provider", "filesystem")
	viper.SetDefault("storage.supabase_url", "")
	viper.SetDefault("storage.supabase_key", "")
	viper.SetDefault("storage.bucket", "session-audio")
	viper.SetDefault("storage.local_dir", "./data/blobs")
	viper.SetDefault("storage.signed_url_ttl", 1*time.Hour)

	// Whisper defaults
	viper.SetDefault("whisper.api_url", "https://api.openai.com/v1/audio/transcriptions")
	viper.SetDefault("whisper.model", "whisper-1")
	viper.SetDefault("whisper.language", "en")
	viper.SetDefault("whisper.temperature", 0)
	viper.SetDefault("whisper.timeout", 30*time.Second)
	viper.SetDefault("whisper.max_file_size", 26214400)
	viper.SetDefault("whisper.default_confidence", 0.9)

	// AI (text generation) defaults
	viper.SetDefault("ai.api_url", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.temperature", 0.2)
	viper.SetDefault("ai.max_tokens", 1024)
	viper.SetDefault("ai.timeout", 60*time.Second)

	// Recording defaults
	viper.SetDefault("recording.chunk_duration", 3*time.Second)
	viper.SetDefault("recording.suggestion_interval", 30*time.Second)
	viper.SetDefault("recording.suggestion_window", 5*time.Minute)

	// Signal gate defaults ([-1,1] sample scale)
	viper.SetDefault("gate.peak_threshold", 0.01)
	viper.SetDefault("gate.mean_threshold", 0.001)
	viper.SetDefault("gate.active_threshold", 0.005)
	viper.SetDefault("gate.active_ratio", 0.01)

	// Hallucination filter defaults. Tuned against observed Whisper
	// failure modes on silence and ad bleed; expand as new ones appear.
	viper.SetDefault("hallucination.short_text_limit", 100)
	viper.SetDefault("hallucination.repeat_phrase", "thank you")
	viper.SetDefault("hallucination.repeat_limit", 3)
	viper.SetDefault("hallucination.filler_phrases", []string{
		"thank you",
		"thanks for watching",
		"bye",
		"goodbye",
		"see you next time",
		"subscribe",
		"transcribed by",
	})
	viper.SetDefault("hallucination.caption_markers", []string{
		"subtitles by the amara.org community",
		"captioning by",
		"caption credit",
	})
	viper.SetDefault("hallucination.ad_phrases", []string{
		"use code",
		"promo code",
		"limited time offer",
		"visit our website",
	})
	viper.SetDefault("hallucination.promo_phrases", []string{
		"sponsored by",
		"brought to you by",
		"check out",
		"sign up today",
	})

	// Stitch defaults
	viper.SetDefault("stitch.large_session_chunks", 600)
	viper.SetDefault("stitch.batch_size", 200)
	viper.SetDefault("stitch.timeout", 5*time.Minute)
	viper.SetDefault("stitch.download_timeout", 30*time.Second)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
}
