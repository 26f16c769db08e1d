package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Email.validate(); err != nil {
		return fmt.Errorf("email: %w", err)
	}

	if err := c.Drain.validate(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (e *EmailConfig) validate() error {
	if e.SendDelay < 0 {
		return fmt.Errorf("send_delay must be >= 0 (got %s)", e.SendDelay)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", e.Timeout)
	}
	if e.Configured() && strings.TrimSpace(e.From) == "" {
		return fmt.Errorf("from is required when api_key is set")
	}
	return nil
}

func (d *DrainConfig) validate() error {
	if d.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be > 0 (got %d)", d.MaxBatchSize)
	}
	if d.BatchSize <= 0 || d.BatchSize > d.MaxBatchSize {
		return fmt.Errorf("batch_size must be in [1, %d] (got %d)", d.MaxBatchSize, d.BatchSize)
	}
	if d.StaleAfter < 0 {
		return fmt.Errorf("stale_after must be >= 0 (got %s)", d.StaleAfter)
	}
	if d.JobTimeout <= 0 {
		return fmt.Errorf("job_timeout must be > 0 (got %s)", d.JobTimeout)
	}
	// A pass still holding claims when they turn stale would be requeued
	// under it and send the same rows twice.
	if d.StaleAfter > 0 && d.JobTimeout >= d.StaleAfter {
		return fmt.Errorf("job_timeout (%s) must be shorter than stale_after (%s)", d.JobTimeout, d.StaleAfter)
	}
	return nil
}
