package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toastd/internal/display"
)

// IDsFormatter outputs just the notification IDs, front first, one per line.
// Useful for piping to other commands (e.g., toastctl dismiss).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes notification IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, frame display.Frame) error {
	for _, it := range frame.Items {
		if _, err := fmt.Fprintln(w, it.Notification.ID); err != nil {
			return err
		}
	}
	return nil
}
