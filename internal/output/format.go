// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"todo/internal/intent"
	"todo/internal/taskstore"
)

const (
	// BarWidth is the number of cells in the text progress bar.
	BarWidth = 20

	// Supported list formats.
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatTask formats a task line.
// Format: "[x] {ID:>4}  {TEXT}\n" (checkbox, 4-wide right-aligned id, two spaces, text)
func FormatTask(w io.Writer, task taskstore.Task) {
	fmt.Fprintf(w, "%s %4d  %s\n", checkbox(task.Completed), task.ID, normalizeText(task.Text))
}

// FormatProgress formats the progress line.
// Format: "[######--------------]  3 / 10  30%\n"
func FormatProgress(w io.Writer, p intent.Progress) {
	fmt.Fprintf(w, "[%s]  %s  %d%%\n", Bar(p.Ratio, BarWidth), p.Label(), p.Percent())
}

// Bar renders ratio as a width-cell bar of '#' and '-'.
func Bar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}

// Listing is the structured form of the list command output.
type Listing struct {
	Tasks    []taskstore.Task `json:"tasks" yaml:"tasks"`
	Progress intent.Progress  `json:"progress" yaml:"progress"`
}

// Encode writes l in the given structured format (json or yaml).
func Encode(w io.Writer, format string, l Listing) error {
	if l.Tasks == nil {
		l.Tasks = []taskstore.Task{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// normalizeText normalizes task text for display.
// - Newlines are replaced with spaces
// - Empty or whitespace-only text becomes "(untitled)"
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
