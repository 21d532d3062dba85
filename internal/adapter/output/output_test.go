package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
	"github.com/jmylchreest/toastd/internal/theme"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testFrame() display.Frame {
	layout := display.DefaultLayout()
	palette := theme.DefaultPalette()

	notifications := []model.Notification{
		{
			ID:          "notification-01",
			Type:        model.TypeError,
			Title:       "Build failed",
			Description: "exit status 2\nsee log",
			Expiry:      5000,
			CreatedAt:   testNow.Add(-2 * time.Second),
			ExpiresAt:   testNow.Add(3 * time.Second),
		},
		{
			ID:        "notification-00",
			Type:      model.TypeSuccess,
			Title:     "Saved",
			Expiry:    300000,
			CreatedAt: testNow.Add(-time.Minute),
			ExpiresAt: testNow.Add(2 * time.Minute),
		},
	}

	f := display.Frame{Visible: true, GeneratedAt: testNow}
	for i, n := range notifications {
		f.Items = append(f.Items, display.Item{
			Notification: n,
			Placement:    layout.Place(i),
			Style:        palette.Resolve(n),
			Remaining:    n.Remaining(testNow),
		})
	}
	return f
}

func testOptions() FormatterOptions {
	opts := DefaultFormatterOptions()
	opts.Now = func() time.Time { return testNow }
	return opts
}

func TestDmenuFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(testOptions()).Format(&buf, testFrame()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "0 | error | 3 seconds | Build failed: exit status 2 see log | notification-01", lines[0])
	assert.Equal(t, "1 | success | 2 minutes | Saved | notification-00", lines[1])
}

func TestDmenuFormatter_NoIndexNoExpiry(t *testing.T) {
	opts := testOptions()
	opts.ShowIndex = false
	opts.ShowExpiry = false
	opts.Separator = "\t"

	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testFrame()))
	assert.True(t, strings.HasPrefix(buf.String(), "error\tBuild failed"))
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	opts := testOptions()
	opts.Template = `{{typeIcon .Notification.Type}} {{.Notification.Title}} {{percent .Remaining}} {{expires .Notification.ExpiresAt}}`

	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testFrame()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "x Build failed 60% 3 seconds", lines[0])
	assert.Equal(t, "+ Saved 67% 2 minutes", lines[1])
}

func TestDmenuFormatter_TruncateDescription(t *testing.T) {
	opts := testOptions()
	opts.DescMaxLen = 10

	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testFrame()))
	assert.Contains(t, buf.String(), "Build failed: exit st...")
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(testOptions()).Format(&buf, testFrame()))

	var f display.Frame
	require.NoError(t, json.Unmarshal(buf.Bytes(), &f))
	assert.True(t, f.Visible)
	require.Len(t, f.Items, 2)
	assert.Equal(t, "notification-01", f.Items[0].Notification.ID)
	assert.Equal(t, -260, f.Items[1].Placement.X)
}

func TestJSONFormatter_FormatItem(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(testOptions()).FormatItem(&buf, testFrame().Items[0]))

	var it display.Item
	require.NoError(t, json.Unmarshal(buf.Bytes(), &it))
	assert.Equal(t, "Build failed", it.Notification.Title)
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(testOptions()).Format(&buf, testFrame()))

	var f display.Frame
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &f))
	require.Len(t, f.Items, 2)
	assert.Equal(t, model.TypeSuccess, f.Items[1].Notification.Type)
	assert.Equal(t, display.SideLeft, f.Items[1].Placement.Side)
	assert.Contains(t, buf.String(), "title: Build failed")
}

func TestPlainFormatter_Format(t *testing.T) {
	opts := testOptions()
	opts.ShowPlacement = true

	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testFrame()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "page visible, 2 notification(s)\n"))
	assert.Contains(t, out, "[0] "+theme.IconFor(model.TypeError)+" Build failed <error> (3 seconds) x=0 scale=1.00 opacity=1.00 z=50 center")
	assert.Contains(t, out, "    exit status 2 see log\n")
	assert.Contains(t, out, "x=-260 scale=0.80 opacity=0.60 z=49 left")
}

func TestPlainFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(testOptions()).Format(&buf, display.Frame{}))
	assert.Equal(t, "page hidden, 0 notification(s)\n", buf.String())
}

func TestIDsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIDsFormatter().Format(&buf, testFrame()))
	assert.Equal(t, "notification-01\nnotification-00\n", buf.String())
}

func TestFormatField(t *testing.T) {
	it := testFrame().Items[0]

	tests := []struct {
		field    string
		expected string
	}{
		{"id", "notification-01"},
		{"type", "error"},
		{"title", "Build failed"},
		{"desc", "exit status 2\nsee log"},
		{"color", theme.ColorError},
		{"side", "center"},
		{"unknown", "Build failed"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatField(it, tt.field))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	opts := testOptions()

	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, opts))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML, opts))
	assert.IsType(t, &DmenuFormatter{}, NewFormatter(FormatDmenu, opts))
	assert.IsType(t, &IDsFormatter{}, NewFormatter(FormatIDs, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter("bogus", opts))
	assert.Len(t, FormatTypes(), 5)
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		newline  bool
		expected string
	}{
		{"collapse", "a  \n  b", 0, false, "a b"},
		{"keep newline", "a\nb", 0, true, "a\nb"},
		{"truncate", "abcdefghij", 6, false, "abc..."},
		{"tiny limit", "abcdef", 2, false, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeDescription(tt.input, tt.maxLen, tt.newline))
		})
	}
}

func TestExpiresIn(t *testing.T) {
	assert.Equal(t, "unknown", expiresIn(time.Time{}, testNow))
	assert.Equal(t, "expired", expiresIn(testNow, testNow))
	assert.Equal(t, "3 seconds", expiresIn(testNow.Add(3*time.Second), testNow))
}
