package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// allConfigKeys lists every SELFLEARNING_ env var that Load() reads.
var allConfigKeys = []string{
	"SELFLEARNING_LISTEN_ADDR",
	"SELFLEARNING_DB_PATH",
	"SELFLEARNING_SECRET_KEY",
	"SELFLEARNING_SESSION_SECRET",
	"SELFLEARNING_MODEL_API",
	"SELFLEARNING_PROBE_TIMEOUT",
	"SELFLEARNING_MONITOR_INTERVAL",
	"SELFLEARNING_CHAT_SYSTEM_PROMPT",
	"SELFLEARNING_LOG_LEVEL",
	"SELFLEARNING_LOG_FORMAT",
}

// isolateConfigEnv saves and unsets all SELFLEARNING_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SELFLEARNING_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("SELFLEARNING_DB_PATH", "/tmp/test.db")
	t.Setenv("SELFLEARNING_SESSION_SECRET", "s3cret")
	t.Setenv("SELFLEARNING_MODEL_API", "Ollama")
	t.Setenv("SELFLEARNING_PROBE_TIMEOUT", "3s")
	t.Setenv("SELFLEARNING_MONITOR_INTERVAL", "1m")
	t.Setenv("SELFLEARNING_CHAT_SYSTEM_PROMPT", "Antworte auf Deutsch.")
	t.Setenv("SELFLEARNING_LOG_LEVEL", "debug")
	t.Setenv("SELFLEARNING_LOG_FORMAT", "JSON")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.HasSessionSecret())
	assert.Equal(t, model.ModelAPIOllama, cfg.ModelAPI)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, time.Minute, cfg.MonitorInterval)
	assert.Equal(t, "Antworte auf Deutsch.", cfg.ChatSystemPrompt)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "selflearning.db", cfg.DBPath)
	assert.Equal(t, model.ModelAPIOpenAI, cfg.ModelAPI)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout)
	assert.Zero(t, cfg.MonitorInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.HasSessionSecret())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{name: "model api", key: "SELFLEARNING_MODEL_API", value: "anthropic", wantMsg: "SELFLEARNING_MODEL_API"},
		{name: "probe timeout syntax", key: "SELFLEARNING_PROBE_TIMEOUT", value: "soon"},
		{name: "probe timeout zero", key: "SELFLEARNING_PROBE_TIMEOUT", value: "0s", wantMsg: "SELFLEARNING_PROBE_TIMEOUT"},
		{name: "monitor interval negative", key: "SELFLEARNING_MONITOR_INTERVAL", value: "-1m", wantMsg: "SELFLEARNING_MONITOR_INTERVAL"},
		{name: "log format", key: "SELFLEARNING_LOG_FORMAT", value: "xml", wantMsg: "SELFLEARNING_LOG_FORMAT"},
		{name: "log level", key: "SELFLEARNING_LOG_LEVEL", value: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_SecretKey_Absent(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("SELFLEARNING_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SELFLEARNING_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELFLEARNING_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("SELFLEARNING_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELFLEARNING_SECRET_KEY")
}
