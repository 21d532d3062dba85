package display

import "fmt"

// CloseReason represents why a notification left the active sequence.
type CloseReason uint32

const (
	// ReasonExpired indicates the notification's expiry timer fired.
	ReasonExpired CloseReason = 1
	// ReasonDismissed indicates an explicit removal.
	ReasonDismissed CloseReason = 2
	// ReasonEvicted indicates the notification was dropped to respect capacity.
	ReasonEvicted CloseReason = 3
	// ReasonCleared indicates the whole stack was torn down.
	ReasonCleared CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonEvicted:
		return "evicted"
	case ReasonCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r CloseReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *CloseReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "expired":
		*r = ReasonExpired
	case "dismissed":
		*r = ReasonDismissed
	case "evicted":
		*r = ReasonEvicted
	case "cleared":
		*r = ReasonCleared
	default:
		return fmt.Errorf("unknown close reason %q", text)
	}
	return nil
}
