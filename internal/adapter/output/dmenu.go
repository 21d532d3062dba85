package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// DmenuFormatter formats items for dmenu/rofi/fuzzel, one per line.
// The id is always the last field so a selection can be cut back out.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs(opts.now)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes the frame's items in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, frame display.Frame) error {
	now := f.opts.now()
	for _, it := range frame.Items {
		if _, err := fmt.Fprintln(w, f.formatLine(it, now)); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(it display.Item, now time.Time) string {
	n := &it.Notification

	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(it, now)); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, strconv.Itoa(it.Placement.Index))
	}
	parts = append(parts, string(n.Type))
	if f.opts.ShowExpiry {
		parts = append(parts, expiresIn(n.ExpiresAt, now))
	}

	content := n.Title
	if n.Description != "" {
		desc := sanitizeDescription(n.Description, f.opts.DescMaxLen, f.opts.IncludeNewline)
		if desc != "" {
			content += ": " + desc
		}
	}
	parts = append(parts, content, n.ID)

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Notification *model.Notification
	Placement    display.Placement
	Remaining    float64
	ExpiresIn    string
}

func newTemplateData(it display.Item, now time.Time) templateData {
	return templateData{
		Index:        it.Placement.Index,
		Notification: &it.Notification,
		Placement:    it.Placement,
		Remaining:    it.Remaining,
		ExpiresIn:    expiresIn(it.Notification.ExpiresAt, now),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"expires": func(t time.Time) string {
			return expiresIn(t, now())
		},
		"percent": func(f float64) string {
			return strconv.Itoa(int(f*100+0.5)) + "%"
		},
		"typeIcon": func(t model.Type) string {
			switch t {
			case model.TypeSuccess:
				return "+"
			case model.TypeWarning:
				return "!"
			case model.TypeError:
				return "x"
			default:
				return "i"
			}
		},
	}
}

// expiresIn renders the time left until t, e.g. "3 seconds".
func expiresIn(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if !t.After(now) {
		return "expired"
	}
	return humanize.RelTime(now, t, "", "")
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// sanitizeDescription cleans up description text for single-line display.
func sanitizeDescription(desc string, maxLen int, includeNewline bool) string {
	if !includeNewline {
		desc = strings.ReplaceAll(desc, "\n", " ")
		desc = strings.ReplaceAll(desc, "\r", "")
	}

	for strings.Contains(desc, "  ") {
		desc = strings.ReplaceAll(desc, "  ", " ")
	}

	return truncate(strings.TrimSpace(desc), maxLen)
}
