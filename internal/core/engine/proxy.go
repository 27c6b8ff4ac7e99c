package engine

import (
	"math/rand"
	"net/url"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/translay/translay/internal/core"
)

// ProxySelector picks an egress endpoint from a comma-delimited pool.
// Selection is stateless and uniform; there is no stickiness or load
// tracking.
type ProxySelector struct {
	Rand   *rand.Rand
	Logger *logging.Logger
}

// ListEndpoints parses the configured pool. Blank entries are skipped and
// invalid URLs are logged, never raised.
func (s *ProxySelector) ListEndpoints(config string) []core.ProxyEndpoint {
	parts := strings.Split(config, ",")
	endpoints := make([]core.ProxyEndpoint, 0, len(parts))

	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}

		parsed, err := url.Parse(value)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			if s != nil && s.Logger != nil {
				s.Logger.Warn("skipping invalid proxy endpoint", zap.String("endpoint", value))
			}
			continue
		}

		endpoints = append(endpoints, core.ProxyEndpoint{URL: value})
	}

	return endpoints
}

// Select uniformly chooses one endpoint at random, or nil when the pool is
// empty.
func (s *ProxySelector) Select(config string) *core.ProxyEndpoint {
	endpoints := s.ListEndpoints(config)
	if len(endpoints) == 0 {
		return nil
	}
	return &endpoints[s.intn(len(endpoints))]
}

func (s *ProxySelector) intn(n int) int {
	if s != nil && s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}
