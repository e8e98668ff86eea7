package printavo

import "errors"

// DefaultAPIBaseURL is the production Printavo v2 API endpoint. The client
// appends /graphql to it.
const DefaultAPIBaseURL = "https://www.printavo.com/api/v2"

var ErrConfigInvalidTimeout = errors.New("printavo: timeout must not be negative")

// Config holds configuration for the Printavo GraphQL API client. The API
// key is not part of the config: each merchant carries its own key and it
// travels with every call.
type Config struct {
	// APIBaseURL is the base URL of the Printavo v2 API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewConfig creates a Printavo configuration with production defaults
func NewConfig() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return ErrConfigInvalidTimeout
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
