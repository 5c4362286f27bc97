// Package clientip normalizes the caller's address before geolocation.
// Local clients hand the server a loopback or private address which the
// geolocation provider cannot place, so outside production those are swapped
// for a configured public placeholder.
package clientip

import "net"

// Normalizer rewrites a client IP according to the run mode.
// The strategy is picked once at startup, not per request.
type Normalizer interface {
	Normalize(ip string) string
}

// Passthrough returns the observed address unmodified. Used in production.
type Passthrough struct{}

func (Passthrough) Normalize(ip string) string { return ip }

// PlaceholderSubstitution replaces non-routable addresses with a fixed public
// placeholder. Used in development and tests.
type PlaceholderSubstitution struct {
	Placeholder string
}

func (s PlaceholderSubstitution) Normalize(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return s.Placeholder
	}
	if isNonRoutable(parsed) {
		return s.Placeholder
	}
	return ip
}

// ForMode selects the normalizer for the given run mode.
func ForMode(production bool, placeholder string) Normalizer {
	if production {
		return Passthrough{}
	}
	return PlaceholderSubstitution{Placeholder: placeholder}
}

func isNonRoutable(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}
