package core

import "net/http"

// TranslateRequest is the caller's input for one translation.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
}

// CallContext carries per-call identity and header context supplied by the
// outer entrypoint (HTTP handler or CLI).
type CallContext struct {
	// ClientIdentity keys the client-side rate-limit bucket, usually the
	// caller's IP address.
	ClientIdentity string

	// RealClientIP, when set, is injected into outbound headers under the
	// dedicated real-IP header after sanitization.
	RealClientIP string

	// EgressOverride forces a specific egress endpoint URL instead of
	// random proxy selection.
	EgressOverride string

	// ExtraHeaders are caller-supplied headers merged into the outbound
	// request before sanitization.
	ExtraHeaders http.Header
}

// TranslateResult is the terminal output of a translation call. It is never
// mutated after construction; failures collapse into it with a nil
// TranslatedText and the mapped HTTP status.
type TranslateResult struct {
	HTTPStatus     int      `json:"http_status"`
	TranslatedText *string  `json:"translated_text"`
	RequestID      int64    `json:"request_id,omitempty"`
	SourceLang     string   `json:"source_lang,omitempty"`
	TargetLang     string   `json:"target_lang,omitempty"`
	Alternatives   []string `json:"alternatives,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// ProxyEndpoint is one egress endpoint parsed from configuration.
type ProxyEndpoint struct {
	URL string `json:"url"`
}
