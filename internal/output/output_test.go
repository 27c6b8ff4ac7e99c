package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/translay/translay/internal/core"
)

func sampleResult() *core.TranslateResult {
	text := "Hallo Welt"
	return &core.TranslateResult{
		HTTPStatus:     200,
		TranslatedText: &text,
		RequestID:      77,
		SourceLang:     "EN",
		TargetLang:     "DE",
		Alternatives:   []string{"Hallo, Welt"},
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	rendered, err := (&TableFormatter{}).FormatResult(sampleResult())
	require.NoError(t, err)
	require.Contains(t, rendered, "Hallo Welt")
	require.Contains(t, rendered, "DE")
	require.Contains(t, rendered, "Alternative 1")
}

func TestTableFormatterFailure(t *testing.T) {
	rendered, err := (&TableFormatter{}).FormatResult(&core.TranslateResult{
		HTTPStatus: 429,
		Message:    "rate limited: client limit",
	})
	require.NoError(t, err)
	require.Contains(t, rendered, "failed (429)")
	require.Contains(t, rendered, "client limit")
}

func TestJSONFormatter(t *testing.T) {
	rendered, err := (&JSONFormatter{Indent: true}).FormatResult(sampleResult())
	require.NoError(t, err)

	var decoded core.TranslateResult
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.NotNil(t, decoded.TranslatedText)
	require.Equal(t, "Hallo Welt", *decoded.TranslatedText)
}

func TestFormattersHandleNil(t *testing.T) {
	rendered, err := (&TableFormatter{}).FormatResult(nil)
	require.NoError(t, err)
	require.Empty(t, rendered)

	rendered, err = (&JSONFormatter{}).FormatResult(nil)
	require.NoError(t, err)
	require.Empty(t, rendered)
}
