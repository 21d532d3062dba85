package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/toastd/internal/display"
)

// PlainFormatter formats frames as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.now)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes a page header followed by every item, front first.
func (f *PlainFormatter) Format(w io.Writer, frame display.Frame) error {
	now := f.opts.now()

	if f.template == nil {
		state := "hidden"
		if frame.Visible {
			state = "visible"
		}
		if _, err := fmt.Fprintf(w, "page %s, %d notification(s)\n", state, len(frame.Items)); err != nil {
			return err
		}
	}

	for _, it := range frame.Items {
		if err := f.formatItem(w, it, now); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatItem(w io.Writer, it display.Item, now time.Time) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(it, now))
	}

	n := &it.Notification
	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", it.Placement.Index))
	}
	sb.WriteString(fmt.Sprintf("%s %s <%s>", it.Style.Icon, n.Title, n.Type))

	if f.opts.ShowExpiry {
		sb.WriteString(fmt.Sprintf(" (%s)", expiresIn(n.ExpiresAt, now)))
	}
	if f.opts.ShowPlacement {
		p := it.Placement
		sb.WriteString(fmt.Sprintf(" x=%d scale=%.2f opacity=%.2f z=%d %s", p.X, p.Scale, p.Opacity, p.ZIndex, p.Side))
	}
	sb.WriteString("\n")

	if n.Description != "" {
		desc := n.Description
		if !f.opts.IncludeNewline {
			desc = strings.ReplaceAll(desc, "\n", " ")
		}
		sb.WriteString("    " + truncate(desc, f.opts.DescMaxLen) + "\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from an item.
func FormatField(it display.Item, field string) string {
	n := &it.Notification
	switch strings.ToLower(field) {
	case "id":
		return n.ID
	case "type":
		return string(n.Type)
	case "title":
		return n.Title
	case "description", "desc":
		return n.Description
	case "icon":
		return it.Style.Icon
	case "color":
		return it.Style.Primary
	case "side":
		return string(it.Placement.Side)
	case "all", "full":
		return fmt.Sprintf("%s\n%s", n.Title, n.Description)
	default:
		return n.Title
	}
}
