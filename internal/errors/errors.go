// Package errors defines the closed set of error variants the relay produces.
// Every failure carries its HTTP status as part of the structure so the
// orchestrator boundary can collapse any error into a typed result.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the error variants.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is bad caller input. Surfaced as 400, never retried.
	KindValidation
	// KindRateLimit is a local admission rejection. Surfaced as 429, not
	// retried within the same call.
	KindRateLimit
	// KindTimeout is an upstream request timeout. Surfaced as 408, retryable.
	KindTimeout
	// KindTransport is a network-level failure. Retryable.
	KindTransport
	// KindUpstreamHTTP is a non-2xx upstream status. Retryable only for
	// 429 and 5xx.
	KindUpstreamHTTP
	// KindUpstreamProtocol is malformed JSON or missing result fields.
	// A contract break, not transient load, so never retried.
	KindUpstreamProtocol
	// KindUpstreamApplication is a structured upstream error code. Not
	// retried.
	KindUpstreamApplication
)

// RelayError is the single error type crossing component boundaries.
type RelayError struct {
	Kind       Kind
	HTTPStatus int
	Message    string

	// Code is the upstream application error code, when present.
	Code int64

	// Err is the wrapped cause, when any.
	Err error
}

func (e *RelayError) Error() string {
	if e == nil {
		return "relay error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewValidation reports invalid caller input.
func NewValidation(message string) *RelayError {
	return &RelayError{Kind: KindValidation, HTTPStatus: http.StatusBadRequest, Message: message}
}

// NewRateLimit reports a local admission rejection with its reason.
func NewRateLimit(reason string) *RelayError {
	return &RelayError{Kind: KindRateLimit, HTTPStatus: http.StatusTooManyRequests, Message: "rate limited: " + reason}
}

// NewTimeout reports an upstream request timeout.
func NewTimeout(err error) *RelayError {
	return &RelayError{Kind: KindTimeout, HTTPStatus: http.StatusRequestTimeout, Message: "upstream request timed out", Err: err}
}

// NewTransport reports a network-level failure.
func NewTransport(err error) *RelayError {
	return &RelayError{Kind: KindTransport, HTTPStatus: http.StatusBadGateway, Message: "upstream request failed", Err: err}
}

// NewUpstreamHTTP reports a non-2xx upstream status.
func NewUpstreamHTTP(status int, message string) *RelayError {
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", status)
	}
	return &RelayError{Kind: KindUpstreamHTTP, HTTPStatus: status, Message: message}
}

// NewUpstreamProtocol reports a malformed or incomplete upstream response.
func NewUpstreamProtocol(message string, err error) *RelayError {
	return &RelayError{Kind: KindUpstreamProtocol, HTTPStatus: http.StatusBadGateway, Message: message, Err: err}
}

// NewUpstreamApplication reports a structured upstream error code.
func NewUpstreamApplication(code int64, message string) *RelayError {
	return &RelayError{Kind: KindUpstreamApplication, HTTPStatus: http.StatusBadGateway, Message: message, Code: code}
}

// KindOf returns the variant of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Kind
	}
	return KindUnknown
}

// HTTPStatusOf maps err to the status surfaced to the caller. Foreign errors
// map to 500.
func HTTPStatusOf(err error) int {
	var relayErr *RelayError
	if errors.As(err, &relayErr) && relayErr.HTTPStatus > 0 {
		return relayErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Retryable is the default retry classification: network failures, timeouts,
// and upstream 429/5xx are retryable; everything else indicates a request the
// retry loop cannot repair.
func Retryable(err error) bool {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		return false
	}
	switch relayErr.Kind {
	case KindTransport, KindTimeout:
		return true
	case KindUpstreamHTTP:
		return relayErr.HTTPStatus == http.StatusTooManyRequests || relayErr.HTTPStatus >= 500
	default:
		return false
	}
}
