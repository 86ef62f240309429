package app

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

const (
	envAPIBase        = "RAG_API_BASE"
	envAPIKey         = "RAG_API_KEY"
	envScoreThreshold = "SEARCH_SCORE_THRESHOLD"
	envMaxWait        = "ADD_KNOWLEDGE_MAX_WAIT"
	envPollInterval   = "ADD_KNOWLEDGE_POLL_INTERVAL"
	envKeyCacheTTL    = "API_KEY_CACHE_TTL"
	envRequestTimeout = "RAG_REQUEST_TIMEOUT"
	envMetricsAddr    = "RAG_METRICS_ADDR"
)

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("apiBase", domain.DefaultAPIBase)
	v.SetDefault("scoreThreshold", domain.DefaultScoreThreshold)
	v.SetDefault("maxWaitSeconds", domain.DefaultMaxWaitSeconds)
	v.SetDefault("pollIntervalSeconds", domain.DefaultPollIntervalSeconds)
	v.SetDefault("keyCacheTTLSeconds", domain.DefaultKeyCacheTTLSeconds)
	v.SetDefault("requestTimeoutSeconds", domain.DefaultRequestTimeoutSeconds)
	v.SetDefault("metricsListenAddress", domain.DefaultMetricsListenAddress)

	_ = v.BindEnv("apiBase", envAPIBase)
	_ = v.BindEnv("apiKey", envAPIKey)
	_ = v.BindEnv("scoreThreshold", envScoreThreshold)
	_ = v.BindEnv("maxWaitSeconds", envMaxWait)
	_ = v.BindEnv("pollIntervalSeconds", envPollInterval)
	_ = v.BindEnv("keyCacheTTLSeconds", envKeyCacheTTL)
	_ = v.BindEnv("requestTimeoutSeconds", envRequestTimeout)
	_ = v.BindEnv("metricsListenAddress", envMetricsAddr)
	return v
}

// LoadConfig reads the adapter configuration from the environment. The
// result is immutable for the life of the process.
func LoadConfig() (domain.Config, error) {
	const op = "app.LoadConfig"
	v := newConfigViper()

	cfg := domain.Config{
		APIBase:            v.GetString("apiBase"),
		APIKey:             v.GetString("apiKey"),
		ScoreThreshold:     v.GetFloat64("scoreThreshold"),
		MaxWaitSecs:        v.GetInt("maxWaitSeconds"),
		PollIntervalSecs:   v.GetInt("pollIntervalSeconds"),
		KeyCacheTTLSecs:    v.GetInt("keyCacheTTLSeconds"),
		RequestTimeoutSecs: v.GetInt("requestTimeoutSeconds"),
		MetricsListenAddr:  v.GetString("metricsListenAddress"),
	}
	if err := validateConfig(cfg); err != nil {
		return domain.Config{}, domain.Wrap(domain.CodeConfig, op, err)
	}
	return cfg, nil
}

func validateConfig(cfg domain.Config) error {
	if cfg.APIKey == "" {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s is required", envAPIKey), nil)
	}
	parsed, err := url.Parse(cfg.APIBase)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be an absolute URL", envAPIBase), nil)
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 1 {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be within [0, 1]", envScoreThreshold), nil)
	}
	if cfg.MaxWaitSecs <= 0 {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be positive", envMaxWait), nil)
	}
	if cfg.PollIntervalSecs <= 0 {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be positive", envPollInterval), nil)
	}
	if cfg.KeyCacheTTLSecs <= 0 {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be positive", envKeyCacheTTL), nil)
	}
	if cfg.RequestTimeoutSecs <= 0 {
		return domain.E(domain.CodeConfig, "", fmt.Sprintf("%s must be positive", envRequestTimeout), nil)
	}
	return nil
}
