package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDurationDefaults(t *testing.T) {
	var cfg Config
	require.Equal(t, DefaultRequestTimeoutSeconds*time.Second, cfg.RequestTimeout())
	require.Equal(t, DefaultMaxWaitSeconds*time.Second, cfg.MaxWait())
	require.Equal(t, DefaultPollIntervalSeconds*time.Second, cfg.PollInterval())
	require.Equal(t, DefaultKeyCacheTTLSeconds*time.Second, cfg.KeyCacheTTL())
}

func TestConfigDurationOverrides(t *testing.T) {
	cfg := Config{MaxWaitSecs: 7, PollIntervalSecs: 1, KeyCacheTTLSecs: 60, RequestTimeoutSecs: 3}
	require.Equal(t, 7*time.Second, cfg.MaxWait())
	require.Equal(t, time.Second, cfg.PollInterval())
	require.Equal(t, time.Minute, cfg.KeyCacheTTL())
	require.Equal(t, 3*time.Second, cfg.RequestTimeout())
}

func TestTruncatedKeyNeverLeaksFullKey(t *testing.T) {
	cfg := Config{APIKey: "sk-live-abcdef1234567890"}
	truncated := cfg.TruncatedKey()
	require.Equal(t, "sk-live-****", truncated)
	require.NotContains(t, truncated, "abcdef1234567890")

	short := Config{APIKey: "tiny"}
	require.Equal(t, "****", short.TruncatedKey())
}
