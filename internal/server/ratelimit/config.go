package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/cv-shortlister/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, prefix ending in "/", or pattern with {name} segments
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds the limiter configuration from loaded settings.
func FromSettings(s config.RateLimit) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.ShortlistLimit, s.ShortlistWindow),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. Shortlisting
// re-extracts every CV of a job and gets its own, strictest limit.
func DefaultEndpointConfigs(shortlistLimit int, shortlistWindow time.Duration) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Expensive operations
		{Path: "/jobs/{id}/shortlist", Method: "POST", Limit: shortlistLimit, Window: shortlistWindow, Burst: min(shortlistLimit, 2)},
		{Path: "/extract", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 2: Write operations
		{Path: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/{id}/applications", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/{id}/criteria", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/applications/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: Read operations - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

// ipSet turns a list of client addresses into a lookup set.
func ipSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
