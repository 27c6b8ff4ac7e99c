// Package engine implements the resilient relay pipeline: proxy selection,
// two-tier rate limiting, browser fingerprinting, header sanitization, and
// the retrying orchestrator that composes them.
package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/translay/translay/internal/core"
	"github.com/translay/translay/internal/core/upstream"
	apperrors "github.com/translay/translay/internal/errors"
	"github.com/translay/translay/internal/metrics"
)

const defaultRequestTimeout = 10 * time.Second

// maxErrorSnippet bounds how much upstream body text is carried into error
// messages.
const maxErrorSnippet = 256

// Orchestrator composes one resilient translation call. Every retried
// attempt re-runs proxy selection, admission, body building, and fingerprint
// generation from scratch; no attempt reuses another attempt's identity or
// body.
type Orchestrator struct {
	Limiter      *RateLimiter
	Selector     *ProxySelector
	Fingerprints *FingerprintGenerator
	Builder      *upstream.BodyBuilder

	Client         *http.Client
	UpstreamURL    string
	ProxyEndpoints string
	RequestTimeout time.Duration
	Retry          RetryPolicy
	Logger         *logging.Logger
}

// Translate runs the full pipeline for one request. It never returns an
// error: every failure collapses into a typed result carrying the mapped
// HTTP status and a nil translated text.
func (o *Orchestrator) Translate(ctx context.Context, req core.TranslateRequest, call core.CallContext) *core.TranslateResult {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := ExecuteWithRetry(ctx, o.Retry, func(ctx context.Context) (*core.TranslateResult, error) {
		return o.attempt(ctx, req, call)
	})
	if err != nil {
		result = o.resultFromError(err, req)
	}

	metrics.RecordTranslation(result.HTTPStatus)
	return result
}

func (o *Orchestrator) attempt(ctx context.Context, req core.TranslateRequest, call core.CallContext) (*core.TranslateResult, error) {
	target, egressIdentity := o.resolveEgress(call)

	if adm := o.Limiter.AdmitCombined(ctx, call.ClientIdentity, egressIdentity); !adm.Allowed {
		return nil, apperrors.NewRateLimit(adm.Reason)
	}

	built, err := o.builder().Build(req)
	if err != nil {
		return nil, err
	}

	headers := o.fingerprints().Generate()
	for name, values := range call.ExtraHeaders {
		for _, value := range values {
			headers.Add(name, value)
		}
	}
	headers = SanitizeHeaders(headers, call.RealClientIP)
	headers.Set("Content-Type", "application/json")

	attemptCtx, cancel := context.WithTimeout(ctx, o.requestTimeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, target, bytes.NewReader(built.Body))
	if err != nil {
		return nil, apperrors.NewTransport(err)
	}
	httpReq.Header = headers

	resp, err := o.client().Do(httpReq)
	if err != nil {
		metrics.RecordUpstreamAttempt(false)
		if isTimeout(err) {
			return nil, apperrors.NewTimeout(err)
		}
		return nil, apperrors.NewTransport(err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamAttempt(false)
		if isTimeout(err) {
			return nil, apperrors.NewTimeout(err)
		}
		return nil, apperrors.NewTransport(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordUpstreamAttempt(false)
		if resp.StatusCode == http.StatusTooManyRequests && o.Logger != nil {
			o.Logger.Warn("upstream rate limited the relay",
				zap.String("endpoint", target),
				zap.Duration("retry_after", retryAfterHeader(resp)))
		}
		return nil, apperrors.NewUpstreamHTTP(resp.StatusCode, errorSnippet(respBody))
	}

	translation, err := upstream.ParseTranslation(respBody)
	if err != nil {
		metrics.RecordUpstreamAttempt(false)
		return nil, err
	}
	metrics.RecordUpstreamAttempt(true)

	source := translation.DetectedLang
	if source == "" {
		source = built.SourceLang
	}

	text := translation.Text
	return &core.TranslateResult{
		HTTPStatus:     http.StatusOK,
		TranslatedText: &text,
		RequestID:      built.ID,
		SourceLang:     source,
		TargetLang:     built.TargetLang,
		Alternatives:   translation.Alternatives,
	}, nil
}

// resolveEgress picks the attempt's target URL and the identity its rate
// bucket is tracked under. An explicit override wins; otherwise a proxy is
// drawn from the pool, falling back to the direct upstream endpoint.
func (o *Orchestrator) resolveEgress(call core.CallContext) (string, string) {
	if override := strings.TrimSpace(call.EgressOverride); override != "" {
		return override, override
	}

	if endpoint := o.selector().Select(o.ProxyEndpoints); endpoint != nil {
		return endpoint.URL, endpoint.URL
	}

	return o.UpstreamURL, o.UpstreamURL
}

func (o *Orchestrator) resultFromError(err error, req core.TranslateRequest) *core.TranslateResult {
	status := apperrors.HTTPStatusOf(err)

	message := "translation failed"
	var relayErr *apperrors.RelayError
	if errors.As(err, &relayErr) {
		message = relayErr.Message
	}

	if o.Logger != nil {
		o.Logger.Warn("translation failed",
			zap.Int("http_status", status),
			zap.Error(err))
	}

	return &core.TranslateResult{
		HTTPStatus:     status,
		TranslatedText: nil,
		SourceLang:     upstream.NormalizeLang(req.SourceLang, "auto"),
		TargetLang:     upstream.NormalizeLang(req.TargetLang, "EN"),
		Message:        message,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func errorSnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet]
	}
	return snippet
}

func retryAfterHeader(resp *http.Response) time.Duration {
	retry := resp.Header.Get("Retry-After")
	if retry == "" {
		return 0
	}

	if seconds, err := time.ParseDuration(retry + "s"); err == nil {
		return seconds
	}
	if parsed, err := http.ParseTime(retry); err == nil {
		return time.Until(parsed)
	}
	return 0
}

func (o *Orchestrator) builder() *upstream.BodyBuilder {
	if o != nil && o.Builder != nil {
		return o.Builder
	}
	return &upstream.BodyBuilder{}
}

func (o *Orchestrator) selector() *ProxySelector {
	if o != nil && o.Selector != nil {
		return o.Selector
	}
	return &ProxySelector{}
}

func (o *Orchestrator) fingerprints() *FingerprintGenerator {
	if o != nil && o.Fingerprints != nil {
		return o.Fingerprints
	}
	return &FingerprintGenerator{}
}

func (o *Orchestrator) client() *http.Client {
	if o != nil && o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

func (o *Orchestrator) requestTimeout() time.Duration {
	if o != nil && o.RequestTimeout > 0 {
		return o.RequestTimeout
	}
	return defaultRequestTimeout
}
