// Package upstream builds and parses the JSON-RPC documents exchanged with
// the translation endpoint. The builder reproduces the reference browser
// client byte-for-byte, including its request-id derivation, timestamp
// alignment, and serializer spacing quirk; the endpoint rejects requests that
// get any of these wrong.
package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/translay/translay/internal/core"
	apperrors "github.com/translay/translay/internal/errors"
)

const (
	methodHandleTexts = "LMT_handle_texts"

	// maxTimestampSkewMillis bounds how far timestamp alignment may move the
	// timestamp from the real clock before the raw value is used instead.
	maxTimestampSkewMillis = 1000
)

// BuiltRequest is the outcome of building one outbound envelope. Body is the
// final byte sequence to send; it is rebuilt fresh per attempt, so ID and the
// embedded timestamp legitimately differ across retries.
type BuiltRequest struct {
	Body       []byte
	ID         int64
	SourceLang string
	TargetLang string
}

// BodyBuilder constructs the outbound JSON-RPC payload. Clock and Rand are
// injectable for deterministic tests; nil values use the system clock and the
// shared math/rand source.
type BodyBuilder struct {
	MaxTextLength   int
	MaxPayloadBytes int
	Clock           clock.Clock
	Rand            *rand.Rand
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	ID      int64     `json:"id"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Texts     []rpcRequestText `json:"texts"`
	Splitting string           `json:"splitting"`
	Lang      rpcLang          `json:"lang"`
	Timestamp int64            `json:"timestamp"`
}

type rpcRequestText struct {
	Text                string `json:"text"`
	RequestAlternatives int    `json:"requestAlternatives"`
}

type rpcLang struct {
	SourceLangUserSelected string `json:"source_lang_user_selected"`
	TargetLang             string `json:"target_lang"`
}

// Build validates the request and produces the exact envelope bytes.
func (b *BodyBuilder) Build(req core.TranslateRequest) (*BuiltRequest, error) {
	if b == nil {
		return nil, apperrors.NewValidation("body builder is not configured")
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.NewValidation("text is required")
	}
	if b.MaxTextLength > 0 && len(req.Text) > b.MaxTextLength {
		return nil, apperrors.NewValidation(fmt.Sprintf("text exceeds maximum length of %d", b.MaxTextLength))
	}

	source := NormalizeLang(req.SourceLang, "auto")
	target := NormalizeLang(req.TargetLang, "EN")

	nowMillis := b.now().UnixMilli()
	id := deriveRequestID(nowMillis, b.randInt63n(1_000_000))
	timestamp := alignTimestamp(nowMillis, req.Text)

	envelope := rpcRequest{
		JSONRPC: "2.0",
		Method:  methodHandleTexts,
		ID:      id,
		Params: rpcParams{
			Texts: []rpcRequestText{
				{Text: req.Text, RequestAlternatives: 3},
			},
			Splitting: "newlines",
			Lang: rpcLang{
				SourceLangUserSelected: source,
				TargetLang:             target,
			},
			Timestamp: timestamp,
		},
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, apperrors.NewValidation("request could not be encoded")
	}

	body := applyMethodSpacing(raw, id)

	if b.MaxPayloadBytes > 0 && len(body) > b.MaxPayloadBytes {
		return nil, apperrors.NewValidation(fmt.Sprintf("payload exceeds maximum size of %d bytes", b.MaxPayloadBytes))
	}

	return &BuiltRequest{Body: body, ID: id, SourceLang: source, TargetLang: target}, nil
}

// deriveRequestID shapes the id to the magnitude the endpoint expects. It is
// not cryptographically meaningful.
func deriveRequestID(nowMillis int64, random int64) int64 {
	return (nowMillis % 100_000_000) + (random % 100_000_000)
}

// alignTimestamp encodes the count of the letter "i" in the text into the
// timestamp: the endpoint validates that timestamp mod (count+1) is zero.
// The aligned value is only used when it stays within one second of the real
// clock and remains positive; otherwise the raw timestamp is sent.
func alignTimestamp(nowMillis int64, text string) int64 {
	n := int64(strings.Count(text, "i"))
	if n == 0 {
		return nowMillis
	}

	m := n + 1
	aligned := nowMillis - nowMillis%m + m

	skew := aligned - nowMillis
	if skew < 0 {
		skew = -skew
	}
	if aligned <= 0 || skew > maxTimestampSkewMillis {
		return nowMillis
	}
	return aligned
}

// spacedMethodForm reports whether id selects the space-padded serializer
// variant. The arithmetic mirrors the reference client and must not be
// changed: (id+5) mod 29 == 0 or (id+3) mod 13 == 0.
func spacedMethodForm(id int64) bool {
	return (id+5)%29 == 0 || (id+3)%13 == 0
}

// applyMethodSpacing rewrites the serialized "method" key into exactly one of
// the two spacing forms the endpoint accepts.
func applyMethodSpacing(raw []byte, id int64) []byte {
	needle := []byte(`"method":"`)
	if spacedMethodForm(id) {
		return bytes.Replace(raw, needle, []byte(`"method" : "`), 1)
	}
	return bytes.Replace(raw, needle, []byte(`"method": "`), 1)
}

func (b *BodyBuilder) now() time.Time {
	if b != nil && b.Clock != nil {
		return b.Clock.Now()
	}
	return time.Now()
}

func (b *BodyBuilder) randInt63n(n int64) int64 {
	if b != nil && b.Rand != nil {
		return b.Rand.Int63n(n)
	}
	return rand.Int63n(n)
}
