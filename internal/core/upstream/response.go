package upstream

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/translay/translay/internal/errors"
)

// Translation is the parsed upstream result.
type Translation struct {
	Text         string
	DetectedLang string
	Alternatives []string
	ID           int64
}

type rpcResponse struct {
	JSONRPC string     `json:"jsonrpc"`
	ID      int64      `json:"id"`
	Result  *rpcResult `json:"result"`
	Error   *rpcError  `json:"error"`
}

type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

type rpcResult struct {
	Texts []rpcResponseText `json:"texts"`
	Lang  string            `json:"lang"`
}

type rpcResponseText struct {
	Text         string           `json:"text"`
	Alternatives []rpcAlternative `json:"alternatives"`
}

type rpcAlternative struct {
	Text string `json:"text"`
}

// knownErrorMessages enriches upstream application error codes observed in
// the wild. Unknown codes pass through with a generic message; the code is
// preserved either way for classification.
var knownErrorMessages = map[int64]string{
	-32600:  "upstream rejected the request structure",
	1042911: "upstream rate limit reached for this client",
	1156049: "unsupported language pair",
}

// ParseTranslation decodes the upstream response body. Malformed JSON or a
// missing result payload is a protocol error; an embedded error object is an
// application error with its code preserved.
func ParseTranslation(body []byte) (*Translation, error) {
	var parsed rpcResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewUpstreamProtocol("upstream response is not valid JSON", err)
	}

	if parsed.Error != nil {
		message, ok := knownErrorMessages[parsed.Error.Code]
		if !ok {
			message = fmt.Sprintf("upstream error (code %d)", parsed.Error.Code)
			if parsed.Error.Message != "" {
				message = fmt.Sprintf("upstream error (code %d): %s", parsed.Error.Code, parsed.Error.Message)
			}
		}
		return nil, apperrors.NewUpstreamApplication(parsed.Error.Code, message)
	}

	if parsed.Result == nil || len(parsed.Result.Texts) == 0 {
		return nil, apperrors.NewUpstreamProtocol("upstream response is missing a result payload", nil)
	}

	first := parsed.Result.Texts[0]
	translation := &Translation{
		Text:         first.Text,
		DetectedLang: NormalizeLang(parsed.Result.Lang, ""),
		ID:           parsed.ID,
	}
	for _, alt := range first.Alternatives {
		if alt.Text != "" && alt.Text != first.Text {
			translation.Alternatives = append(translation.Alternatives, alt.Text)
		}
	}

	return translation, nil
}
