// Package fmp provides a client for the Financial Modeling Prep stock market API.
package fmp

import (
	"os"
	"time"
)

// DefaultBaseURL is used when FMP_BASE_URL is not set.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Config holds configuration for the FMP API client.
type Config struct {
	APIKey    string        // API key for authentication
	BaseURL   string        // Base URL for the API (e.g., "https://financialmodelingprep.com/api/v3")
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // Requests per second allowed against the upstream
}

// LoadConfig loads FMP configuration from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("FMP_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		APIKey:    os.Getenv("FMP_API_KEY"),
		BaseURL:   baseURL,
		Timeout:   30 * time.Second,
		RateLimit: 10,
	}
}
