package cmd

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fulmenhq/gofulmen/logging"

	"github.com/translay/translay/internal/config"
	"github.com/translay/translay/internal/core/engine"
	"github.com/translay/translay/internal/core/store"
	"github.com/translay/translay/internal/core/upstream"
)

// buildPipeline assembles the full relay pipeline from configuration. The
// returned store must be closed by the caller.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*engine.Orchestrator, store.StateStore, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	limiter := engine.NewRateLimiter(st,
		cfg.RateLimit.Capacity,
		cfg.RateLimit.CacheSize,
		cfg.RateLimit.CacheTTL,
		cfg.RateLimit.StateTTL)
	limiter.Logger = logger

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec // not used for crypto

	orchestrator := &engine.Orchestrator{
		Limiter:      limiter,
		Selector:     &engine.ProxySelector{Rand: rng, Logger: logger},
		Fingerprints: &engine.FingerprintGenerator{Rand: rng},
		Builder: &upstream.BodyBuilder{
			MaxTextLength:   cfg.Upstream.MaxTextLength,
			MaxPayloadBytes: cfg.Upstream.MaxPayloadBytes,
			Clock:           clock.New(),
			Rand:            rng,
		},
		Client:         &http.Client{},
		UpstreamURL:    cfg.Upstream.URL,
		ProxyEndpoints: cfg.Proxy.Endpoints,
		RequestTimeout: cfg.Upstream.RequestTimeout,
		Retry: engine.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
			Jitter:      cfg.Retry.Jitter,
		},
		Logger: logger,
	}

	return orchestrator, st, nil
}
