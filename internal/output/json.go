package output

import (
	"encoding/json"

	"github.com/translay/translay/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatResult renders one translation result as JSON.
func (f *JSONFormatter) FormatResult(result *core.TranslateResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
