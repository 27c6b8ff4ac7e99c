package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListEndpointsParsesDelimitedConfig(t *testing.T) {
	s := &ProxySelector{}

	endpoints := s.ListEndpoints("https://a.example.com, https://b.example.com:8443/path ,")
	require.Len(t, endpoints, 2)
	require.Equal(t, "https://a.example.com", endpoints[0].URL)
	require.Equal(t, "https://b.example.com:8443/path", endpoints[1].URL)
}

func TestListEndpointsSkipsInvalidEntries(t *testing.T) {
	s := &ProxySelector{}

	endpoints := s.ListEndpoints("https://good.example.com,not a url,ftp://wrong.example.com,://broken")
	require.Len(t, endpoints, 1)
	require.Equal(t, "https://good.example.com", endpoints[0].URL)
}

func TestListEndpointsEmptyConfig(t *testing.T) {
	s := &ProxySelector{}

	require.Empty(t, s.ListEndpoints(""))
	require.Empty(t, s.ListEndpoints("  ,  , "))
}

func TestSelectReturnsNilForEmptyPool(t *testing.T) {
	s := &ProxySelector{}
	require.Nil(t, s.Select(""))
	require.Nil(t, s.Select("garbage,,"))
}

func TestSelectIsUniformAndSeedDeterministic(t *testing.T) {
	config := "https://a.example.com,https://b.example.com,https://c.example.com"

	first := &ProxySelector{Rand: rand.New(rand.NewSource(7))}
	second := &ProxySelector{Rand: rand.New(rand.NewSource(7))}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		a := first.Select(config)
		b := second.Select(config)
		require.NotNil(t, a)
		require.Equal(t, a.URL, b.URL, "same seed must make the same choices")
		seen[a.URL] = true
	}

	// All three endpoints should show up across 200 draws.
	require.Len(t, seen, 3)
}
