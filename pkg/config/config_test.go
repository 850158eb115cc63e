package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	assert.Equal(t, 8080, viper.GetInt("server.port"))
	assert.Equal(t, "0.0.0.0", viper.GetString("server.host"))
	assert.Equal(t, "./data/meliora.db", viper.GetString("database.path"))
	assert.Equal(t, "filesystem", viper.GetString("storage.provider"))
	assert.Equal(t, 3*time.Second, viper.GetDuration("recording.chunk_duration"))
	assert.Equal(t, 600, viper.GetInt("stitch.large_session_chunks"))
	assert.Equal(t, 200, viper.GetInt("stitch.batch_size"))
	assert.Equal(t, 0.01, viper.GetFloat64("gate.peak_threshold"))
	assert.Equal(t, 0.001, viper.GetFloat64("gate.mean_threshold"))
	assert.Equal(t, 100, viper.GetInt("hallucination.short_text_limit"))
	assert.Contains(t, viper.GetStringSlice("hallucination.filler_phrases"), "thank you")
}

func TestValidate_DefaultsPass(t *testing.T) {
	viper.Reset()
	setDefaults()

	err := validate()
	require.NoError(t, err)
}

func TestValidate_InvalidPort(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.Set("server.port", -1)

	err := validate()
	assert.Error(t, err)
}

func TestValidate_InvalidStorageProvider(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.Set("storage.provider", "s3")

	err := validate()
	assert.Error(t, err)
}

func TestValidate_AutoCorrectsPipelineSettings(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.Set("recording.chunk_duration", 0)
	viper.Set("stitch.batch_size", -5)
	viper.Set("stitch.large_session_chunks", 0)

	err := validate()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, viper.GetDuration("recording.chunk_duration"))
	assert.Equal(t, 200, viper.GetInt("stitch.batch_size"))
	assert.Equal(t, 600, viper.GetInt("stitch.large_session_chunks"))
}

func TestConfigStruct_Validate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090

	err := cfg.Validate()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Recording.ChunkDuration)
	assert.Equal(t, 200, cfg.Stitch.BatchSize)
	assert.Equal(t, 600, cfg.Stitch.LargeSessionChunks)
}

func TestGetConfig_Unmarshal(t *testing.T) {
	viper.Reset()
	setDefaults()

	cfg, err := GetConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "session-audio", cfg.Storage.Bucket)
	assert.Equal(t, "whisper-1", cfg.Whisper.Model)
	assert.Equal(t, 5*time.Minute, cfg.Stitch.Timeout)
}
