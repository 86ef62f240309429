package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

func TestLoadConfigMissingKeyFails(t *testing.T) {
	t.Setenv("RAG_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Equal(t, domain.CodeConfig, domain.CodeFrom(err))
	require.Contains(t, err.Error(), "RAG_API_KEY")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RAG_API_KEY", "sk-test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, domain.DefaultAPIBase, cfg.APIBase)
	require.Equal(t, "sk-test-key", cfg.APIKey)
	require.InDelta(t, domain.DefaultScoreThreshold, cfg.ScoreThreshold, 1e-9)
	require.Equal(t, domain.DefaultMaxWaitSeconds, cfg.MaxWaitSecs)
	require.Equal(t, domain.DefaultPollIntervalSeconds, cfg.PollIntervalSecs)
	require.Equal(t, domain.DefaultKeyCacheTTLSeconds, cfg.KeyCacheTTLSecs)
	require.Empty(t, cfg.MetricsListenAddr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RAG_API_KEY", "sk-test-key")
	t.Setenv("RAG_API_BASE", "https://rag.internal.example.com/v2")
	t.Setenv("SEARCH_SCORE_THRESHOLD", "0.75")
	t.Setenv("ADD_KNOWLEDGE_MAX_WAIT", "30")
	t.Setenv("ADD_KNOWLEDGE_POLL_INTERVAL", "1")
	t.Setenv("API_KEY_CACHE_TTL", "60")
	t.Setenv("RAG_METRICS_ADDR", "127.0.0.1:9465")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://rag.internal.example.com/v2", cfg.APIBase)
	require.InDelta(t, 0.75, cfg.ScoreThreshold, 1e-9)
	require.Equal(t, 30, cfg.MaxWaitSecs)
	require.Equal(t, 1, cfg.PollIntervalSecs)
	require.Equal(t, 60, cfg.KeyCacheTTLSecs)
	require.Equal(t, "127.0.0.1:9465", cfg.MetricsListenAddr)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"relative base url", "RAG_API_BASE", "not-a-url"},
		{"threshold above one", "SEARCH_SCORE_THRESHOLD", "1.5"},
		{"negative threshold", "SEARCH_SCORE_THRESHOLD", "-0.1"},
		{"zero max wait", "ADD_KNOWLEDGE_MAX_WAIT", "0"},
		{"zero poll interval", "ADD_KNOWLEDGE_POLL_INTERVAL", "0"},
		{"zero cache ttl", "API_KEY_CACHE_TTL", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("RAG_API_KEY", "sk-test-key")
			t.Setenv(tc.key, tc.value)

			_, err := LoadConfig()
			require.Error(t, err)
			require.Equal(t, domain.CodeConfig, domain.CodeFrom(err))
		})
	}
}
