package engine

import (
	"math/rand"
	"net/http"
)

// userAgents and acceptLanguages are the candidate pools sampled per
// outbound attempt. Successive attempts present different fingerprints.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Edg/125.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.8",
	"de-DE,de;q=0.9,en;q=0.7",
	"fr-FR,fr;q=0.9,en;q=0.6",
	"es-ES,es;q=0.9,en;q=0.6",
	"ja-JP,ja;q=0.9,en;q=0.5",
}

// FingerprintGenerator produces a randomized, self-consistent set of
// browser-like headers. Rand is injectable for deterministic tests.
type FingerprintGenerator struct {
	Rand *rand.Rand
}

// Generate returns a fresh browser fingerprint. Callers re-roll it on every
// outbound attempt, including retries.
func (g *FingerprintGenerator) Generate() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", userAgents[g.intn(len(userAgents))])
	h.Set("Accept-Language", acceptLanguages[g.intn(len(acceptLanguages))])
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("DNT", "1")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

func (g *FingerprintGenerator) intn(n int) int {
	if g != nil && g.Rand != nil {
		return g.Rand.Intn(n)
	}
	return rand.Intn(n)
}
