package cli

import (
	"fmt"
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	PlayerID  string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("TANKARENA_SERVER", "http://localhost:8080"),
		PlayerID:  os.Getenv("TANKARENA_PLAYER"),
		Output:    "text",
	}
}

// RequirePlayer returns the configured player id, failing when it is unset
func (c *Config) RequirePlayer() (string, error) {
	if c.PlayerID == "" {
		return "", fmt.Errorf("player id required: set --player or TANKARENA_PLAYER")
	}
	return c.PlayerID, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
