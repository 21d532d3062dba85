package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/toastd/internal/display"
)

// JSONFormatter formats frames as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes the whole frame as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, frame display.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(frame)
}

// FormatItem writes a single item as JSON.
func (f *JSONFormatter) FormatItem(w io.Writer, item display.Item) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(item)
}
