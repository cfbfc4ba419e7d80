package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAnkiConnectURL     = "http://localhost:8765"
	DefaultAnkiConnectVersion = 6
)

type Config struct {
	AnkiConnectURL     string
	AnkiConnectVersion int
	MockMode           bool
	MockFixtures       string
	LogLevel           string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the server still starts when no .env is present.
	_ = godotenv.Load()

	return Config{
		AnkiConnectURL:     envOr("ANKI_CONNECT_URL", DefaultAnkiConnectURL),
		AnkiConnectVersion: envIntOr("ANKI_CONNECT_VERSION", DefaultAnkiConnectVersion),
		MockMode:           envBoolOr("ANKI_MOCK_MODE", false),
		MockFixtures:       envOr("ANKI_MOCK_FIXTURES", ""),
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}
}

// Validate reports every problem at once so a misconfigured launch fails
// with a single actionable message.
func (c Config) Validate() error {
	var problems []string

	if c.AnkiConnectURL == "" {
		problems = append(problems, "ANKI_CONNECT_URL cannot be empty")
	} else if u, err := url.Parse(c.AnkiConnectURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("ANKI_CONNECT_URL is not a valid URL: %q", c.AnkiConnectURL))
	}

	if c.AnkiConnectVersion < 1 {
		problems = append(problems, fmt.Sprintf("ANKI_CONNECT_VERSION must be >= 1, got %d", c.AnkiConnectVersion))
	}

	switch strings.ToLower(c.LogLevel) {
	case "info", "debug", "trace":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be info, debug, or trace, got %q", c.LogLevel))
	}

	if c.MockFixtures != "" && !c.MockMode {
		problems = append(problems, "ANKI_MOCK_FIXTURES is set but ANKI_MOCK_MODE is not enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
