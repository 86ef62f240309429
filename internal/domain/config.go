package domain

import "time"

// Config holds the adapter's runtime configuration. It is loaded once at
// process start and never mutated afterwards.
type Config struct {
	APIBase            string
	APIKey             string
	ScoreThreshold     float64
	RequestTimeoutSecs int
	MaxWaitSecs        int
	PollIntervalSecs   int
	KeyCacheTTLSecs    int
	MetricsListenAddr  string
}

// RequestTimeout returns the per-request HTTP timeout, applying defaults.
func (c Config) RequestTimeout() time.Duration {
	seconds := c.RequestTimeoutSecs
	if seconds <= 0 {
		seconds = DefaultRequestTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// MaxWait returns the ingestion wait budget as a duration.
func (c Config) MaxWait() time.Duration {
	seconds := c.MaxWaitSecs
	if seconds <= 0 {
		seconds = DefaultMaxWaitSeconds
	}
	return time.Duration(seconds) * time.Second
}

// PollInterval returns the ingestion poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	seconds := c.PollIntervalSecs
	if seconds <= 0 {
		seconds = DefaultPollIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

// KeyCacheTTL returns the API-key validation cache TTL as a duration.
func (c Config) KeyCacheTTL() time.Duration {
	seconds := c.KeyCacheTTLSecs
	if seconds <= 0 {
		seconds = DefaultKeyCacheTTLSeconds
	}
	return time.Duration(seconds) * time.Second
}

// TruncatedKey returns a redacted form of the API key safe for logging.
func (c Config) TruncatedKey() string {
	runes := []rune(c.APIKey)
	if len(runes) <= TruncatedKeyVisibleRuneCount {
		return "****"
	}
	return string(runes[:TruncatedKeyVisibleRuneCount]) + "****"
}
