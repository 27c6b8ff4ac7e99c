package engine

import (
	"net/http"
	"slices"
	"strings"
)

// internalHeaderPrefix is the edge-platform header namespace that must never
// reach the upstream endpoint.
const internalHeaderPrefix = "cf-"

// RealIPHeader is the dedicated header the caller's real IP is injected
// under after sanitization.
const RealIPHeader = "X-Real-IP"

// forwardingHeaders is the deny-list of trace and forwarding headers that
// would reveal the relay chain.
var forwardingHeaders = []string{
	"x-forwarded-for",
	"x-forwarded-proto",
	"x-forwarded-host",
	"x-client-ip",
	"true-client-ip",
	"x-real-ip",
	"via",
	"forwarded",
	"x-request-id",
}

// SanitizeHeaders returns a new header set with every internal-prefix and
// forwarding header removed, and the real client IP injected under
// RealIPHeader when supplied. The input is never mutated.
func SanitizeHeaders(headers http.Header, realClientIP string) http.Header {
	sanitized := make(http.Header, len(headers))

	for name, values := range headers {
		if isStrippedHeader(name) {
			continue
		}
		sanitized[http.CanonicalHeaderKey(name)] = slices.Clone(values)
	}

	if realClientIP != "" {
		sanitized.Set(RealIPHeader, realClientIP)
	}

	return sanitized
}

func isStrippedHeader(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, internalHeaderPrefix) {
		return true
	}
	return slices.Contains(forwardingHeaders, lower)
}
