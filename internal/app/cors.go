package app

import (
	"net/url"
	"strings"
)

// originHost returns host[:port] of an Origin header value.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOrigin supports exact hosts, "*.example.edu" subdomain wildcards and
// "localhost:*" any-port wildcards. A bare "*.example.edu" does not match
// the apex domain.
func matchOrigin(pattern, host string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	host = strings.ToLower(host)
	if full := originHost(pattern); full != pattern && !strings.Contains(pattern, "*") {
		pattern = full
	}
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
