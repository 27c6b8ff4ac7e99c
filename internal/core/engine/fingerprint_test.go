package engine

import (
	"math/rand"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSamplesFromPools(t *testing.T) {
	g := &FingerprintGenerator{Rand: rand.New(rand.NewSource(1))}

	h := g.Generate()
	require.Contains(t, userAgents, h.Get("User-Agent"))
	require.Contains(t, acceptLanguages, h.Get("Accept-Language"))
	require.NotEmpty(t, h.Get("Accept"))
	require.Equal(t, "gzip, deflate, br", h.Get("Accept-Encoding"))
	require.Equal(t, "1", h.Get("DNT"))
	require.Equal(t, "keep-alive", h.Get("Connection"))
	require.Equal(t, "1", h.Get("Upgrade-Insecure-Requests"))
}

func TestGenerateIsSeedDeterministic(t *testing.T) {
	a := &FingerprintGenerator{Rand: rand.New(rand.NewSource(9))}
	b := &FingerprintGenerator{Rand: rand.New(rand.NewSource(9))}

	for i := 0; i < 20; i++ {
		ha := a.Generate()
		hb := b.Generate()
		require.Equal(t, ha.Get("User-Agent"), hb.Get("User-Agent"))
		require.Equal(t, ha.Get("Accept-Language"), hb.Get("Accept-Language"))
	}
}

func TestSanitizeHeadersStripsInternalAndForwarding(t *testing.T) {
	input := make(http.Header)
	input.Set("CF-Connecting-IP", "198.51.100.9")
	input.Set("Cf-Ray", "8abc123")
	input.Set("X-Forwarded-For", "10.0.0.1")
	input.Set("True-Client-IP", "10.0.0.2")
	input.Set("X-Real-IP", "10.0.0.3")
	input.Set("Via", "1.1 relay")
	input.Set("Forwarded", "for=10.0.0.4")
	input.Set("User-Agent", "test-agent")
	input.Set("Accept", "*/*")

	out := SanitizeHeaders(input, "203.0.113.50")

	require.Empty(t, out.Get("CF-Connecting-IP"))
	require.Empty(t, out.Get("Cf-Ray"))
	require.Empty(t, out.Get("X-Forwarded-For"))
	require.Empty(t, out.Get("True-Client-IP"))
	require.Empty(t, out.Get("Via"))
	require.Empty(t, out.Get("Forwarded"))

	require.Equal(t, "test-agent", out.Get("User-Agent"))
	require.Equal(t, "*/*", out.Get("Accept"))
	require.Equal(t, "203.0.113.50", out.Get(RealIPHeader))

	// The input collection must not be mutated.
	require.Equal(t, "198.51.100.9", input.Get("CF-Connecting-IP"))
	require.Equal(t, "10.0.0.3", input.Get("X-Real-IP"))
}

func TestSanitizeHeadersNoMatches(t *testing.T) {
	input := make(http.Header)
	input.Set("Accept", "application/json")

	out := SanitizeHeaders(input, "203.0.113.50")
	require.Equal(t, "application/json", out.Get("Accept"))
	require.Equal(t, "203.0.113.50", out.Get(RealIPHeader))
}

func TestSanitizeHeadersWithoutRealIP(t *testing.T) {
	input := make(http.Header)
	input.Set("X-Real-IP", "10.0.0.3")

	out := SanitizeHeaders(input, "")
	require.Empty(t, out.Get(RealIPHeader))
}

func TestSanitizeHeadersEmptyInput(t *testing.T) {
	out := SanitizeHeaders(nil, "203.0.113.50")
	require.Equal(t, "203.0.113.50", out.Get(RealIPHeader))
}
