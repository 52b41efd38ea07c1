package agent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures exponential backoff for failed turns.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         int // seconds (default 5)
	MaxRateLimitWaits int // consecutive rate-limit waits allowed (default 3)
	RateLimitWait     int // seconds to wait out a rate limit (default 900)
	OnRetry           func(attempt int, delay int)
	OnRateLimit       func(wait int)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
// A RateLimitError waits RateLimitWait instead and does not count as an
// attempt; consecutive waits are bounded by MaxRateLimitWaits.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 5
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 3
	}
	if cfg.RateLimitWait == 0 {
		cfg.RateLimitWait = 900
	}

	attempt := 0
	delay := cfg.BaseDelay
	rateLimitWaits := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			rateLimitWaits++
			if rateLimitWaits >= cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}

			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(cfg.RateLimitWait)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(cfg.RateLimitWait) * time.Second):
			}

			// Same attempt again; the wait is not a failure.
			continue
		}

		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(delay) * time.Second):
		}

		delay *= 2
		attempt++
	}
}
