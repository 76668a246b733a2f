package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeService()
	c.normalizeWorkflow()
	c.normalizePrefetch()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeService() {
	if env := strings.TrimSpace(os.Getenv("STORYLOOM_SERVICE_URL")); env != "" {
		c.Service.BaseURL = env
	}
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if env := strings.TrimSpace(os.Getenv("STORYLOOM_API_TOKEN")); env != "" && strings.TrimSpace(c.Service.APIToken) == "" {
		c.Service.APIToken = env
	}
	if c.Service.RequestTimeout <= 0 {
		c.Service.RequestTimeout = defaultServiceRequestTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.StatusPollInterval <= 0 {
		c.Workflow.StatusPollInterval = defaultStatusPollInterval
	}
	if c.Workflow.GenerationTimeout < 0 {
		c.Workflow.GenerationTimeout = 0
	}
	if c.Workflow.MessageRotateInterval <= 0 {
		c.Workflow.MessageRotateInterval = defaultMessageRotateInterval
	}
}

func (c *Config) normalizePrefetch() {
	if c.Prefetch.ItemTimeout <= 0 {
		c.Prefetch.ItemTimeout = defaultPrefetchItemTimeout
	}
	if c.Prefetch.MaxCacheGiB <= 0 {
		c.Prefetch.MaxCacheGiB = defaultPrefetchMaxCacheGiB
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
