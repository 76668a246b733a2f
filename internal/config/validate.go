package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validatePrefetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateService() error {
	base := strings.TrimSpace(c.Service.BaseURL)
	if base == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/storyloom/config.toml"
		}
		return fmt.Errorf("service.base_url is required. Set STORYLOOM_SERVICE_URL or edit %s (create with 'storyloom config init')", defaultPath)
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q", base)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.StatusPollInterval <= 0 {
		return errors.New("workflow.status_poll_interval must be positive")
	}
	if c.Workflow.GenerationTimeout > 0 && c.Workflow.GenerationTimeout < c.Workflow.StatusPollInterval {
		return errors.New("workflow.generation_timeout must be at least workflow.status_poll_interval")
	}
	return nil
}

func (c *Config) validatePrefetch() error {
	if c.Prefetch.ItemTimeout <= 0 {
		return errors.New("prefetch.item_timeout must be positive")
	}
	if c.Prefetch.MaxCacheGiB <= 0 {
		return errors.New("prefetch.max_cache_gib must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
