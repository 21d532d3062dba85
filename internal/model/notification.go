// Package model defines the core data structures for toastd.
package model

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type selects the icon glyph and color preset of a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// ValidTypes returns all recognized notification types.
func ValidTypes() []Type {
	return []Type{TypeSuccess, TypeWarning, TypeError, TypeInfo}
}

// IconPosition places the icon relative to the content panel.
type IconPosition string

const (
	IconTop    IconPosition = "top"
	IconBottom IconPosition = "bottom"
	IconLeft   IconPosition = "left"
	IconRight  IconPosition = "right"
)

// DefaultExpiry is used when a payload carries no usable expiry.
const DefaultExpiry = 5000 * time.Millisecond

// MaxExpiry is the longest expiry in milliseconds that still fits a
// time.Duration. Larger values are clamped to it.
const MaxExpiry = math.MaxInt64 / int64(time.Millisecond)

// IDPrefix prefixes every generated notification id.
const IDPrefix = "notification-"

// Notification is a single admitted toast.
type Notification struct {
	ID            string       `json:"id" yaml:"id"`
	Type          Type         `json:"type" yaml:"type"`
	Title         string       `json:"title" yaml:"title"`
	Description   string       `json:"description" yaml:"description"`
	Expiry        int64        `json:"expiry" yaml:"expiry"` // milliseconds
	Icon          string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconAnimation string       `json:"iconAnimation,omitempty" yaml:"iconAnimation,omitempty"`
	IconColor     string       `json:"iconColor,omitempty" yaml:"iconColor,omitempty"`
	BorderColor   string       `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	PositionIcon  IconPosition `json:"positionIcon" yaml:"positionIcon"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`
}

// Payload is the inbound shape of a "show notification" request.
// Every field is optional.
type Payload struct {
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Expiry        int64  `json:"expiry,omitempty" yaml:"expiry,omitempty"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconAnimation string `json:"iconAnimation,omitempty" yaml:"iconAnimation,omitempty"`
	IconColor     string `json:"iconColor,omitempty" yaml:"iconColor,omitempty"`
	BorderColor   string `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	PositionIcon  string `json:"positionIcon,omitempty" yaml:"positionIcon,omitempty"`
}

// UnmarshalJSON decodes a payload leniently. A field whose value has the
// wrong JSON type is left empty instead of failing the whole payload:
// numbers and booleans are accepted as text, expiry accepts fractional
// numbers and numeric strings, and type must be a string.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Well-formed but not an object (null, array, scalar).
		*p = Payload{}
		return nil
	}

	*p = Payload{
		Type:          stringField(fields["type"]),
		Title:         textField(fields["title"]),
		Description:   textField(fields["description"]),
		Expiry:        millisField(fields["expiry"]),
		Icon:          textField(fields["icon"]),
		IconAnimation: stringField(fields["iconAnimation"]),
		IconColor:     stringField(fields["iconColor"]),
		BorderColor:   stringField(fields["borderColor"]),
		PositionIcon:  stringField(fields["positionIcon"]),
	}
	return nil
}

// stringField returns raw as a string, or "" when it is not a JSON string.
func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// textField is like stringField but also renders numbers and booleans.
func textField(raw json.RawMessage) string {
	if s := stringField(raw); s != "" {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// millisField reads a millisecond count from a number or a numeric string.
// Fractions are truncated; anything unusable yields 0 so the default applies.
func millisField(raw json.RawMessage) int64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		s := stringField(raw)
		if s == "" {
			return 0
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0
		}
	}
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= float64(MaxExpiry):
		return MaxExpiry
	}
	return int64(f)
}

// ParsePayload decodes a JSON payload. Missing or mistyped fields are left
// empty; defaults are applied on admission by Normalize. Only malformed JSON
// is an error.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to decode notification payload: %w", err)
	}
	return p, nil
}

// ParseType maps a type name onto a known Type, falling back to info.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeSuccess:
		return TypeSuccess
	case TypeWarning:
		return TypeWarning
	case TypeError:
		return TypeError
	default:
		return TypeInfo
	}
}

// ParseIconPosition maps a position name onto a known IconPosition, falling back to top.
func ParseIconPosition(s string) IconPosition {
	switch IconPosition(strings.ToLower(strings.TrimSpace(s))) {
	case IconBottom:
		return IconBottom
	case IconLeft:
		return IconLeft
	case IconRight:
		return IconRight
	default:
		return IconTop
	}
}

// Normalize builds a Notification from a payload without assigning an id.
// A non-positive expiry falls back to defaultExpiry (or DefaultExpiry when that is zero).
func (p Payload) Normalize(defaultExpiry time.Duration) Notification {
	if defaultExpiry <= 0 {
		defaultExpiry = DefaultExpiry
	}
	expiry := min(p.Expiry, MaxExpiry)
	if expiry <= 0 {
		expiry = defaultExpiry.Milliseconds()
	}

	return Notification{
		Type:          ParseType(p.Type),
		Title:         sanitizeText(p.Title),
		Description:   sanitizeText(p.Description),
		Expiry:        expiry,
		Icon:          strings.TrimSpace(p.Icon),
		IconAnimation: strings.TrimSpace(p.IconAnimation),
		IconColor:     strings.TrimSpace(p.IconColor),
		BorderColor:   strings.TrimSpace(p.BorderColor),
		PositionIcon:  ParseIconPosition(p.PositionIcon),
	}
}

// sanitizeText replaces control characters other than newline and tab
// with spaces and trims the result.
func sanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ExpiryDuration returns the lifetime of the notification.
func (n *Notification) ExpiryDuration() time.Duration {
	return time.Duration(n.Expiry) * time.Millisecond
}

// Remaining returns the fraction of lifetime left at now, in [0, 1].
func (n *Notification) Remaining(now time.Time) float64 {
	total := n.ExpiresAt.Sub(n.CreatedAt)
	if total <= 0 {
		return 0
	}
	left := n.ExpiresAt.Sub(now)
	switch {
	case left <= 0:
		return 0
	case left >= total:
		return 1
	}
	return float64(left) / float64(total)
}

// Payload converts the notification back to its inbound shape.
func (n *Notification) Payload() Payload {
	return Payload{
		Type:          string(n.Type),
		Title:         n.Title,
		Description:   n.Description,
		Expiry:        n.Expiry,
		Icon:          n.Icon,
		IconAnimation: n.IconAnimation,
		IconColor:     n.IconColor,
		BorderColor:   n.BorderColor,
		PositionIcon:  string(n.PositionIcon),
	}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh notification id. ULIDs are time-ordered and
// monotonic within the same millisecond, so ids never collide in-process.
func NewID(now time.Time) (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return IDPrefix + id.String(), nil
}
