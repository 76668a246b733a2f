package config

const (
	defaultServiceBaseURL        = "http://127.0.0.1:8000"
	defaultServiceRequestTimeout = 15
	defaultCacheDir              = "~/.cache/storyloom/media"
	defaultDataDir               = "~/.local/share/storyloom"
	defaultLogDir                = "~/.local/share/storyloom/logs"
	defaultStatusPollInterval    = 3
	defaultGenerationTimeout     = 0
	defaultMessageRotateInterval = 5
	defaultPrefetchItemTimeout   = 45
	defaultPrefetchMaxCacheGiB   = 10
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultServiceBaseURL,
			RequestTimeout: defaultServiceRequestTimeout,
		},
		Paths: Paths{
			CacheDir: defaultCacheDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
		},
		Workflow: Workflow{
			StatusPollInterval:    defaultStatusPollInterval,
			GenerationTimeout:     defaultGenerationTimeout,
			MessageRotateInterval: defaultMessageRotateInterval,
		},
		Prefetch: Prefetch{
			ItemTimeout: defaultPrefetchItemTimeout,
			MaxCacheGiB: defaultPrefetchMaxCacheGiB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Ready:          true,
			Errors:         true,
			Completion:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
