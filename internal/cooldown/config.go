package cooldown

import "github.com/osse101/Underworld_Go/internal/concurrency"

// Config holds cooldown service configuration
type Config struct {
	// DevMode bypasses cooldown enforcement when true. Status windows still apply.
	DevMode bool

	// RetryAttempts bounds optimistic retries of status writes
	RetryAttempts int
}

func (c Config) attempts() int {
	if c.RetryAttempts < 1 {
		return concurrency.DefaultRetryAttempts
	}
	return c.RetryAttempts
}
