/* utils.go
 * Utility functions used across the application, mostly for reading the configuration from the environment
 * Authors: Zachary Bower
 */

package main

import (
	"fmt"
	"jcup-bot/api/external"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	defaultMongoDB = "jcup"
	defaultAddr    = ":8080"
)

// AppConfig is the configuration read from the environment (.env is loaded first)
type AppConfig struct {
	DiscordToken string
	BaseURL      string
	Timeout      time.Duration
	RequestRate  float64
	AllowRetry   bool
	MongoURI     string
	MongoDB      string
	HTTPAddr     string
}

// loadConfig reads the application configuration
// Preconditions: Receives a lookup function for environment variables (os.Getenv outside of tests)
// Postconditions: Returns AppConfig with defaults applied, or an error if a value cannot be parsed
func loadConfig(getenv func(string) string) (AppConfig, error) {
	cfg := AppConfig{
		DiscordToken: strings.TrimSpace(getenv("DISCORD_TOKEN")),
		BaseURL:      getenvDefault(getenv, "JCUP_BASE_URL", external.DefaultBaseURL),
		Timeout:      defaultTimeout,
		AllowRetry:   true,
		MongoURI:     strings.TrimSpace(getenv("MONGO_URI")),
		MongoDB:      getenvDefault(getenv, "MONGO_DB", defaultMongoDB),
		HTTPAddr:     getenvDefault(getenv, "HTTP_ADDR", defaultAddr),
	}

	if value := strings.TrimSpace(getenv("JCUP_TIMEOUT")); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout < 0 {
			return AppConfig{}, fmt.Errorf("invalid JCUP_TIMEOUT %q: expected a duration such as 10s", value)
		}
		cfg.Timeout = timeout
	}

	if value := strings.TrimSpace(getenv("JCUP_RATE")); value != "" {
		requestRate, err := strconv.ParseFloat(value, 64)
		if err != nil || requestRate < 0 {
			return AppConfig{}, fmt.Errorf("invalid JCUP_RATE %q: expected requests per second, 0 for unlimited", value)
		}
		cfg.RequestRate = requestRate
	}

	if value := strings.TrimSpace(getenv("JCUP_ALLOW_RETRY")); value != "" {
		allowRetry, err := convertStrToBool(value)
		if err != nil {
			return AppConfig{}, fmt.Errorf("invalid JCUP_ALLOW_RETRY %q: %w", value, err)
		}
		cfg.AllowRetry = allowRetry
	}

	return cfg, nil
}

func getenvDefault(getenv func(string) string, key string, fallback string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return fallback
}

// convertStrToBool converts a string of true or false into a boolean for comparisons
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}
