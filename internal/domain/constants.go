package domain

const (
	DefaultAPIBase = "https://api.ragstack.dev/v1"

	DefaultTopK    = 5
	MaxTopK        = 50
	MaxContentSize = 1 << 20

	DefaultScoreThreshold         = 0.4
	DefaultRequestTimeoutSeconds  = 30
	DefaultMaxWaitSeconds         = 120
	DefaultPollIntervalSeconds    = 2
	DefaultKeyCacheTTLSeconds     = 300
	DefaultShutdownTimeoutSeconds = 5

	DefaultMetricsListenAddress = ""

	TruncatedKeyVisibleRuneCount = 8
)
