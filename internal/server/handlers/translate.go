// Package handlers implements the HTTP endpoints of the relay.
package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/translay/translay/internal/core"
	"github.com/translay/translay/internal/server/middleware"
)

// maxRequestBodyBytes bounds inbound translation request bodies.
const maxRequestBodyBytes = 1 << 20

// Translator runs one resilient translation call.
type Translator interface {
	Translate(ctx context.Context, req core.TranslateRequest, call core.CallContext) *core.TranslateResult
}

// TranslateResponse is the success payload of POST /translate.
type TranslateResponse struct {
	TranslatedText string   `json:"translated_text"`
	SourceLang     string   `json:"source_lang"`
	TargetLang     string   `json:"target_lang"`
	Alternatives   []string `json:"alternatives,omitempty"`
	RequestID      int64    `json:"request_id"`
}

// TranslateHandler serves POST /translate.
type TranslateHandler struct {
	Translator Translator
}

func (h *TranslateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Translator == nil {
		middleware.WriteErrorEnvelope(w, r, http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE", "translator not initialized")
		return
	}

	var req core.TranslateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorEnvelope(w, r, http.StatusBadRequest,
			"INVALID_REQUEST", "request body must be a JSON object with a text field")
		return
	}

	call := core.CallContext{
		ClientIdentity: clientIP(r),
		RealClientIP:   clientIP(r),
		ExtraHeaders:   r.Header.Clone(),
	}

	result := h.Translator.Translate(r.Context(), req, call)

	if result.HTTPStatus != http.StatusOK || result.TranslatedText == nil {
		message := result.Message
		if message == "" {
			message = "translation failed"
		}
		middleware.WriteErrorEnvelope(w, r, result.HTTPStatus, errorCode(result.HTTPStatus), message)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(TranslateResponse{
		TranslatedText: *result.TranslatedText,
		SourceLang:     result.SourceLang,
		TargetLang:     result.TargetLang,
		Alternatives:   result.Alternatives,
		RequestID:      result.RequestID,
	})
}

// clientIP trusts chi's RealIP middleware to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusRequestTimeout:
		return "UPSTREAM_TIMEOUT"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusBadGateway:
		return "UPSTREAM_ERROR"
	default:
		if status >= 500 {
			return "UPSTREAM_ERROR"
		}
		return "REQUEST_FAILED"
	}
}
