package maps

import "time"

// Config holds the settings for the mapping-service client.
type Config struct {
	// APIKey authenticates every request. An empty key disables the client.
	APIKey string
	// BaseURL is the scheme and host of the maps API, without a trailing slash.
	BaseURL string
	// TimeoutMs bounds one logical call, retries included.
	TimeoutMs int
	// MaxRetries is the number of extra attempts after a transient failure.
	MaxRetries int
}

// DefaultConfig returns the client defaults. The key is left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://maps.googleapis.com",
		TimeoutMs:  8000,
		MaxRetries: 1,
	}
}

// Enabled reports whether calls can be made at all.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// Timeout returns TimeoutMs as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
