package core

import "time"

// RateLimitState is the durable per-identity token-bucket record. One logical
// record exists per identity; it is shared across all concurrent requests for
// that identity with best-effort, not linearizable, consistency.
type RateLimitState struct {
	Identity   string    `json:"identity"`
	Tokens     float64   `json:"tokens"`
	LastRefill time.Time `json:"last_refill"`
}
