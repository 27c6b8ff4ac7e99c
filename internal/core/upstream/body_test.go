package upstream

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/translay/translay/internal/core"
	apperrors "github.com/translay/translay/internal/errors"
)

func newTestBuilder(t *testing.T, at time.Time) *BodyBuilder {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(at)
	return &BodyBuilder{
		MaxTextLength:   5000,
		MaxPayloadBytes: 131072,
		Clock:           mock,
		Rand:            rand.New(rand.NewSource(42)),
	}
}

func TestBuildRejectsEmptyText(t *testing.T) {
	b := newTestBuilder(t, time.UnixMilli(1700000000000))

	_, err := b.Build(core.TranslateRequest{Text: "   "})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestBuildRejectsOversizeText(t *testing.T) {
	b := newTestBuilder(t, time.UnixMilli(1700000000000))
	b.MaxTextLength = 5

	_, err := b.Build(core.TranslateRequest{Text: "this text is too long"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "maximum length")
}

func TestBuildRejectsOversizePayload(t *testing.T) {
	b := newTestBuilder(t, time.UnixMilli(1700000000000))
	b.MaxPayloadBytes = 64

	_, err := b.Build(core.TranslateRequest{Text: "hello"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "maximum size")
}

func TestBuildEnvelopeShape(t *testing.T) {
	b := newTestBuilder(t, time.UnixMilli(1700000000000))

	built, err := b.Build(core.TranslateRequest{Text: "Hello", SourceLang: "english", TargetLang: "german"})
	require.NoError(t, err)
	require.Equal(t, "EN", built.SourceLang)
	require.Equal(t, "DE", built.TargetLang)

	// Spaces around the method colon are still valid JSON, so the final
	// bytes must decode back into the envelope regardless of the variant.
	var decoded rpcRequest
	require.NoError(t, json.Unmarshal(built.Body, &decoded))
	require.Equal(t, "2.0", decoded.JSONRPC)
	require.Equal(t, "LMT_handle_texts", decoded.Method)
	require.Equal(t, built.ID, decoded.ID)
	require.Len(t, decoded.Params.Texts, 1)
	require.Equal(t, "Hello", decoded.Params.Texts[0].Text)
	require.Equal(t, "newlines", decoded.Params.Splitting)
	require.Equal(t, "EN", decoded.Params.Lang.SourceLangUserSelected)
	require.Equal(t, "DE", decoded.Params.Lang.TargetLang)

	spaced := strings.Contains(string(built.Body), `"method" : "`)
	compact := strings.Contains(string(built.Body), `"method": "`)
	require.True(t, spaced != compact, "exactly one spacing form must be applied")
}

func TestRequestIDMagnitude(t *testing.T) {
	b := newTestBuilder(t, time.UnixMilli(1700000000000))

	for i := 0; i < 50; i++ {
		built, err := b.Build(core.TranslateRequest{Text: "hello"})
		require.NoError(t, err)
		require.GreaterOrEqual(t, built.ID, int64(0))
		require.Less(t, built.ID, int64(200_000_000))
	}
}

func TestAlignTimestampNoLetterI(t *testing.T) {
	now := int64(1700000000123)
	require.Equal(t, now, alignTimestamp(now, "hello world"))
}

func TestAlignTimestampResidue(t *testing.T) {
	texts := []string{"Hi", "initial", "identification", "i", "iiii"}
	now := int64(1700000000123)

	for _, text := range texts {
		n := int64(strings.Count(text, "i"))
		require.Positive(t, n)

		aligned := alignTimestamp(now, text)
		require.Zero(t, aligned%(n+1), "timestamp residue for %q", text)

		skew := aligned - now
		if skew < 0 {
			skew = -skew
		}
		require.LessOrEqual(t, skew, int64(1000))
	}
}

func TestSpacedMethodFormTriggers(t *testing.T) {
	// 24+5 = 29, divisible by 29.
	require.True(t, spacedMethodForm(24))
	// 10+3 = 13, divisible by 13.
	require.True(t, spacedMethodForm(10))
	require.False(t, spacedMethodForm(1))
	require.False(t, spacedMethodForm(2))
}

func TestApplyMethodSpacing(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","method":"LMT_handle_texts","id":24}`)

	spaced := applyMethodSpacing(raw, 24)
	require.Contains(t, string(spaced), `"method" : "LMT_handle_texts"`)

	compact := applyMethodSpacing(raw, 1)
	require.Contains(t, string(compact), `"method": "LMT_handle_texts"`)
	require.NotContains(t, string(compact), `"method" : "`)
}

func TestBuildTimestampMatchesClock(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	b := newTestBuilder(t, at)

	built, err := b.Build(core.TranslateRequest{Text: "no letter here"})
	require.NoError(t, err)

	var decoded rpcRequest
	require.NoError(t, json.Unmarshal(built.Body, &decoded))
	require.Equal(t, at.UnixMilli(), decoded.Params.Timestamp)
}
