package ratelimit

import (
	"strings"
	"time"
)

// Tier groups endpoints that share a request budget. Limit requests are
// allowed per Window; a zero Limit means unlimited. Burst defaults to Limit.
type Tier struct {
	Name   string
	Limit  int
	Window time.Duration
	Burst  int
}

// Unlimited reports whether requests in this tier bypass the limiter.
func (t Tier) Unlimited() bool {
	return t.Limit <= 0 || t.Window <= 0
}

// EndpointRule binds a method and path pattern to a tier.
// A Path ending in "/" matches by prefix.
type EndpointRule struct {
	Method string
	Path   string
	Tier   string
}

var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// DefaultRules returns the endpoint rules used by the HTTP API.
func DefaultRules() []EndpointRule {
	return []EndpointRule{
		{Method: "POST", Path: "/descriptions", Tier: TierGenerate},
		{Method: "POST", Path: "/descriptions/stream", Tier: TierGenerate},
		{Method: "POST", Path: "/descriptions/", Tier: TierGenerate}, // regenerate
		{Method: "DELETE", Path: "/descriptions", Tier: TierWrite},
		{Method: "DELETE", Path: "/descriptions/", Tier: TierWrite},
		{Method: "POST", Path: "/score", Tier: TierScore},
	}
}

// MatchRule returns the tier name for a request, or "" when the
// default tier applies. Unlimited endpoints return TierUnlimited.
func MatchRule(method, path string, rules []EndpointRule) string {
	if method == "GET" && unlimitedPaths[path] {
		return TierUnlimited
	}

	for _, rule := range rules {
		if rule.Method == method && rule.Path == path {
			return rule.Tier
		}
	}

	for _, rule := range rules {
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule.Tier
		}
	}

	return ""
}
