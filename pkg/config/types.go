package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Whisper       WhisperConfig       `mapstructure:"whisper"`
	AI            AIConfig            `mapstructure:"ai"`
	Recording     RecordingConfig     `mapstructure:"recording"`
	Gate          GateConfig          `mapstructure:"gate"`
	Hallucination HallucinationConfig `mapstructure:"hallucination"`
	Stitch        StitchConfig        `mapstructure:"stitch"`
	Security      SecurityConfig      `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// AuthConfig contains bearer-token validation settings
type AuthConfig struct {
	JWKSURL        string `mapstructure:"jwks_url"`
	DevAuthEnabled bool   `mapstructure:"dev_auth_enabled"`
	DevAuthToken   string `mapstructure:"dev_auth_token"`
}

// StorageConfig contains blob store settings
type StorageConfig struct {
	Provider     string        `mapstructure:"provider"` // "supabase" or "filesystem"
	SupabaseURL  string        `mapstructure:"supabase_url"`
	SupabaseKey  string        `mapstructure:"supabase_key"`
	Bucket       string        `mapstructure:"bucket"`
	LocalDir     string        `mapstructure:"local_dir"`
	SignedURLTTL time.Duration `mapstructure:"signed_url_ttl"`
}

// WhisperConfig contains speech-to-text API settings
type WhisperConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	APIURL            string        `mapstructure:"api_url"`
	Model             string        `mapstructure:"model"`
	Language          string        `mapstructure:"language"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	DefaultConfidence float64       `mapstructure:"default_confidence"`
}

// AIConfig contains text-generation API settings
type AIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	APIURL      string        `mapstructure:"api_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RecordingConfig contains chunk capture settings
type RecordingConfig struct {
	ChunkDuration      time.Duration `mapstructure:"chunk_duration"`
	SuggestionInterval time.Duration `mapstructure:"suggestion_interval"`
	SuggestionWindow   time.Duration `mapstructure:"suggestion_window"`
}

// GateConfig contains signal gate thresholds on a [-1,1] sample scale
type GateConfig struct {
	PeakThreshold   float64 `mapstructure:"peak_threshold"`
	MeanThreshold   float64 `mapstructure:"mean_threshold"`
	ActiveThreshold float64 `mapstructure:"active_threshold"`
	ActiveRatio     float64 `mapstructure:"active_ratio"`
}

// HallucinationConfig contains the tuned artifact blocklists.
// These lists grow with observed failures and are deliberately
// configuration, not constants.
type HallucinationConfig struct {
	ShortTextLimit int      `mapstructure:"short_text_limit"`
	RepeatPhrase   string   `mapstructure:"repeat_phrase"`
	RepeatLimit    int      `mapstructure:"repeat_limit"`
	FillerPhrases  []string `mapstructure:"filler_phrases"`
	CaptionMarkers []string `mapstructure:"caption_markers"`
	AdPhrases      []string `mapstructure:"ad_phrases"`
	PromoPhrases   []string `mapstructure:"promo_phrases"`
}

// StitchConfig contains stitching and batching settings
type StitchConfig struct {
	LargeSessionChunks int           `mapstructure:"large_session_chunks"`
	BatchSize          int           `mapstructure:"batch_size"`
	Timeout            time.Duration `mapstructure:"timeout"`
	DownloadTimeout    time.Duration `mapstructure:"download_timeout"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}
