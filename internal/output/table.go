package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/translay/translay/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatResult renders one translation result as a table.
func (f *TableFormatter) FormatResult(result *core.TranslateResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})

	t.AppendRow(table.Row{"Status", statusLabel(result)})
	t.AppendRow(table.Row{"Source", result.SourceLang})
	t.AppendRow(table.Row{"Target", result.TargetLang})

	if result.TranslatedText != nil {
		t.AppendRow(table.Row{"Translation", *result.TranslatedText})
	} else if result.Message != "" {
		t.AppendRow(table.Row{"Error", result.Message})
	}

	for i, alt := range result.Alternatives {
		t.AppendRow(table.Row{fmt.Sprintf("Alternative %d", i+1), truncate(alt, 120)})
	}

	return t.Render(), nil
}

func statusLabel(result *core.TranslateResult) string {
	if result.HTTPStatus == 200 && result.TranslatedText != nil {
		return "ok"
	}
	return fmt.Sprintf("failed (%d)", result.HTTPStatus)
}

// Truncate long alternatives so the table stays readable in a terminal.
func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return strings.TrimSpace(value[:limit]) + "..."
}
