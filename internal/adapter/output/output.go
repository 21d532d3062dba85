// Package output provides output formatters for render frames.
package output

import (
	"io"
	"time"

	"github.com/jmylchreest/toastd/internal/display"
)

// Formatter formats a frame for output.
type Formatter interface {
	// Format writes the formatted frame to the writer.
	Format(w io.Writer, frame display.Frame) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
	FormatIDs   FormatType = "ids"
)

// FormatTypes lists every supported format.
func FormatTypes() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatDmenu, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template       string           // Custom template for dmenu/plain format
	ShowIndex      bool             // Show 0-based stack index prefix
	ShowExpiry     bool             // Show time until expiry
	ShowPlacement  bool             // Show x offset, scale and side
	DescMaxLen     int              // Maximum description length (0 = unlimited)
	Separator      string           // Field separator for dmenu format
	IncludeNewline bool             // Include newlines in description (default: replace with space)
	Now            func() time.Time // Clock for expiry rendering; nil uses time.Now
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:      true,
		ShowExpiry:     true,
		DescMaxLen:     80,
		Separator:      " | ",
		IncludeNewline: false,
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
