package core

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// FilterOptions specifies criteria for filtering frame items.
type FilterOptions struct {
	Types  []model.Type // Keep only these types (empty = all)
	Side   display.Side // Keep only items on this side (empty = all)
	Search string       // Substring of title or description
	Limit  int          // Maximum results (0=unlimited)
}

// ParseTypes parses a comma-separated list of type names. Unlike
// model.ParseType it rejects unknown names instead of falling back to info.
func ParseTypes(s string) ([]model.Type, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var types []model.Type
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		known := false
		for _, t := range model.ValidTypes() {
			if string(t) == name {
				types = append(types, t)
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown notification type %q", part)
		}
	}
	return types, nil
}

// Filter returns the items matching opts, preserving stack order.
func Filter(items []display.Item, opts FilterOptions) []display.Item {
	result := make([]display.Item, 0, len(items))

	for _, it := range Search(items, opts.Search) {
		if len(opts.Types) > 0 && !containsType(opts.Types, it.Notification.Type) {
			continue
		}
		if opts.Side != "" && it.Placement.Side != opts.Side {
			continue
		}
		result = append(result, it)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}

	return result
}

// FilterFrame returns a copy of f holding only the matching items.
func FilterFrame(f display.Frame, opts FilterOptions) display.Frame {
	f.Items = Filter(f.Items, opts)
	return f
}

func containsType(types []model.Type, t model.Type) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}
