package cli

import (
	"fmt"
	"os"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with values from the environment
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("DONATESHOP_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("DONATESHOP_OUTPUT", OutputText),
	}
}

// Validate rejects unknown output formats
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: use %s or %s", c.Output, OutputText, OutputJSON)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
