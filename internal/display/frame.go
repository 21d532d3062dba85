package display

import (
	"time"

	"github.com/jmylchreest/toastd/internal/model"
	"github.com/jmylchreest/toastd/internal/theme"
)

// Item is a notification together with everything needed to draw it.
type Item struct {
	Notification model.Notification `json:"notification" yaml:"notification"`
	Placement    Placement          `json:"placement" yaml:"placement"`
	Style        theme.Style        `json:"style" yaml:"style"`
	Remaining    float64            `json:"remaining" yaml:"remaining"` // Countdown bar fill, 1 → 0
}

// Frame is a render snapshot of the whole page.
type Frame struct {
	Visible     bool      `json:"visible" yaml:"visible"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
	Items       []Item    `json:"items" yaml:"items"`
}

// Front returns the front (newest) item.
func (f Frame) Front() (Item, bool) {
	if len(f.Items) == 0 {
		return Item{}, false
	}
	return f.Items[0], true
}

// Empty reports whether the frame has no items.
func (f Frame) Empty() bool {
	return len(f.Items) == 0
}
