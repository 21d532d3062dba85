package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastd/internal/display"
)

// YAMLFormatter formats frames as YAML.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes the whole frame as YAML.
func (f *YAMLFormatter) Format(w io.Writer, frame display.Frame) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(frame); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return encoder.Close()
}
