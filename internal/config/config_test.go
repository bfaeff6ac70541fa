package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "FATHERCLI_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "FATHERCLI_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "FATHERCLI_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FATHERCLI_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "FATHERCLI_TEST_INT_VALID", setVal: strPtr("5"), fallback: 0, want: 5},
		{name: "errors on non-numeric", key: "FATHERCLI_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "FATHERCLI_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		setVal   *string
		fallback float64
		want     float64
		wantErr  bool
	}{
		{name: "returns fallback when unset", setVal: nil, fallback: 1, want: 1},
		{name: "parses fraction", setVal: strPtr("0.5"), fallback: 1, want: 0.5},
		{name: "parses integer", setVal: strPtr("3"), fallback: 1, want: 3},
		{name: "errors on garbage", setVal: strPtr("fast"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := "FATHERCLI_TEST_FLOAT"
			if tc.setVal != nil {
				t.Setenv(key, *tc.setVal)
			}

			got, err := getEnvFloat(key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", setVal: nil, fallback: time.Minute, want: time.Minute},
		{name: "parses minutes", setVal: strPtr("2m"), want: 2 * time.Minute},
		{name: "parses compound", setVal: strPtr("1m30s"), want: 90 * time.Second},
		{name: "errors on bare number", setVal: strPtr("30"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := "FATHERCLI_TEST_DURATION"
			if tc.setVal != nil {
				t.Setenv(key, *tc.setVal)
			}

			got, err := getEnvDuration(key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvLevel(t *testing.T) {
	t.Setenv("FATHERCLI_TEST_LEVEL", "DEBUG")

	got, err := getEnvLevel("FATHERCLI_TEST_LEVEL", zerolog.WarnLevel)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, got)

	t.Setenv("FATHERCLI_TEST_LEVEL", "chatty")
	_, err = getEnvLevel("FATHERCLI_TEST_LEVEL", zerolog.WarnLevel)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Load()
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "fathercli.json", cfg.StatePath)
	assert.Equal(t, "fathercli.session", cfg.Telegram.SessionPath)
	assert.Equal(t, "BotFather", cfg.Telegram.Peer)
	assert.Empty(t, cfg.Telegram.Phone)
	assert.InDelta(t, 1.0, cfg.Telegram.RateLimit, 1e-9)
	assert.Equal(t, 3, cfg.Telegram.RateBurst)
	assert.Zero(t, cfg.FlowTimeout)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		"FATHERCLI_LOG_LEVEL":    "info",
		"FATHERCLI_LOG_FORMAT":   "json",
		"FATHERCLI_STATE_PATH":   "/tmp/state.json",
		"FATHERCLI_SESSION_PATH": "/tmp/tg.session",
		"FATHERCLI_PEER":         "TestFather",
		"FATHERCLI_PHONE":        "+15550100",
		"FATHERCLI_RATE_LIMIT":   "0.5",
		"FATHERCLI_RATE_BURST":   "1",
		"FATHERCLI_FLOW_TIMEOUT": "3m",
	}
	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/state.json", cfg.StatePath)
	assert.Equal(t, "/tmp/tg.session", cfg.Telegram.SessionPath)
	assert.Equal(t, "TestFather", cfg.Telegram.Peer)
	assert.Equal(t, "+15550100", cfg.Telegram.Phone)
	assert.InDelta(t, 0.5, cfg.Telegram.RateLimit, 1e-9)
	assert.Equal(t, 1, cfg.Telegram.RateBurst)
	assert.Equal(t, 3*time.Minute, cfg.FlowTimeout)
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		wantMsg string
	}{
		{name: "bad log level", envKey: "FATHERCLI_LOG_LEVEL", envVal: "loud", wantMsg: "FATHERCLI_LOG_LEVEL"},
		{name: "bad log format", envKey: "FATHERCLI_LOG_FORMAT", envVal: "xml", wantMsg: "FATHERCLI_LOG_FORMAT"},
		{name: "bad timeout", envKey: "FATHERCLI_FLOW_TIMEOUT", envVal: "soon", wantMsg: "FATHERCLI_FLOW_TIMEOUT"},
		{name: "negative timeout", envKey: "FATHERCLI_FLOW_TIMEOUT", envVal: "-1s", wantMsg: "must not be negative"},
		{name: "zero rate", envKey: "FATHERCLI_RATE_LIMIT", envVal: "0", wantMsg: "must be positive"},
		{name: "zero burst", envKey: "FATHERCLI_RATE_BURST", envVal: "0", wantMsg: "must be >= 1"},
		{name: "blank peer", envKey: "FATHERCLI_PEER", envVal: "  ", wantMsg: "FATHERCLI_PEER"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
