package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/requiem-ai/hfchat/config"
)

// clearConfigEnv unsets every variable Load reads so defaults are not
// polluted by the outer process.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HF_API_KEY",
		"HF_API_URL",
		"HF_TIMEOUT",
		"HF_SHOW_RAW",
		"LOG_LEVEL",
		"TELEGRAM_SECRET",
		"USER_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// noEnvFile points Load at a path that does not exist.
func noEnvFile(t *testing.T) config.Overrides {
	return config.Overrides{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearConfigEnv(t)

	_, err := config.Load(noEnvFile(t))
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HF_API_KEY", "hf_test")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "hf_test", cfg.APIKey)
	assert.Equal(t, config.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.ShowRaw)
	assert.Empty(t, cfg.TelegramToken)
	assert.Zero(t, cfg.AllowedUserID)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "HF_API_KEY=hf_from_file\nHF_TIMEOUT=5s\nHF_SHOW_RAW=true\nUSER_ID=42\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"HF_API_KEY", "HF_TIMEOUT", "HF_SHOW_RAW", "USER_ID"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := config.Load(config.Overrides{EnvFile: path})
	require.NoError(t, err)

	assert.Equal(t, "hf_from_file", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.ShowRaw)
	assert.Equal(t, int64(42), cfg.AllowedUserID)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HF_API_KEY", "hf_env")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HF_API_KEY=hf_file\n"), 0o600))

	cfg, err := config.Load(config.Overrides{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "hf_env", cfg.APIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HF_API_KEY", "hf_test")
	t.Setenv("HF_API_URL", "https://example.invalid/env")

	o := noEnvFile(t)
	o.Endpoint = "https://example.invalid/flag"
	o.Timeout = 3 * time.Second
	o.ShowRaw = true

	cfg, err := config.Load(o)
	require.NoError(t, err)
	assert.Equal(t, "https://example.invalid/flag", cfg.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.ShowRaw)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HF_TIMEOUT", "soon"},
		{"HF_TIMEOUT", "-1s"},
		{"HF_SHOW_RAW", "maybe"},
		{"USER_ID", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("HF_API_KEY", "hf_test")
			t.Setenv(tc.key, tc.value)

			_, err := config.Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, config.ParseLogLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, config.ParseLogLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, config.ParseLogLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, config.ParseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, config.ParseLogLevel(""))
	assert.Equal(t, zerolog.InfoLevel, config.ParseLogLevel("verbose"))
}
