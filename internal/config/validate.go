package config

import (
	"errors"
	"fmt"
)

// Validate reports contradictory settings. Out-of-range values are repaired
// by Normalize instead, so a normalized default config always validates.
func (c *Config) Validate() error {
	var errs []error
	if c.Clip.MinSeconds > c.Clip.MaxSeconds {
		errs = append(errs, fmt.Errorf("clip.min_seconds %.2f exceeds clip.max_seconds %.2f", c.Clip.MinSeconds, c.Clip.MaxSeconds))
	}
	return errors.Join(errs...)
}
