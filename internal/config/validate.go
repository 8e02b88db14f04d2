package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Matching.validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Embedding.validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	return nil
}

func (m *MatchingConfig) validate() error {
	if m.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %v)", m.SweepInterval)
	}
	if m.RecencyWindow <= 0 {
		return fmt.Errorf("recency_window must be > 0 (got %v)", m.RecencyWindow)
	}
	if m.ComparabilityThreshold < 0 || m.ComparabilityThreshold > 1 {
		return fmt.Errorf("comparability_threshold must be in [0,1] (got %v)", m.ComparabilityThreshold)
	}
	if m.NotificationThreshold < 0 || m.NotificationThreshold > 1 {
		return fmt.Errorf("notification_threshold must be in [0,1] (got %v)", m.NotificationThreshold)
	}
	if m.NotificationThreshold < m.ComparabilityThreshold {
		return fmt.Errorf("notification_threshold (%v) must be >= comparability_threshold (%v)",
			m.NotificationThreshold, m.ComparabilityThreshold)
	}
	return nil
}

func (e *EmbeddingConfig) validate() error {
	if e.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if e.Model == "" {
		return fmt.Errorf("model is required")
	}
	if e.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be > 0 (got %d)", e.Dimensions)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", e.Timeout)
	}
	return nil
}
