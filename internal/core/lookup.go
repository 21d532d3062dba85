// Package core provides lookup and filtering over render frames.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// Lookup errors.
var (
	ErrNotFound  = errors.New("notification not found")
	ErrAmbiguous = errors.New("ambiguous notification id")
)

// LookupByID finds an item by its full id.
func LookupByID(items []display.Item, id string) (display.Item, bool) {
	for _, it := range items {
		if it.Notification.ID == id {
			return it, true
		}
	}
	return display.Item{}, false
}

// LookupByIndex finds an item by its stack index (0 = front).
func LookupByIndex(items []display.Item, index int) (display.Item, bool) {
	if index < 0 || index >= len(items) {
		return display.Item{}, false
	}
	return items[index], true
}

// Resolve finds a single item from a user reference: a stack index, a full
// id, or a unique prefix of the id with or without the "notification-" prefix.
func Resolve(items []display.Item, ref string) (display.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return display.Item{}, ErrNotFound
	}

	if idx, err := strconv.Atoi(ref); err == nil {
		if it, ok := LookupByIndex(items, idx); ok {
			return it, nil
		}
		return display.Item{}, fmt.Errorf("%w: no item at index %d", ErrNotFound, idx)
	}

	if it, ok := LookupByID(items, ref); ok {
		return it, nil
	}

	prefix := strings.ToUpper(strings.TrimPrefix(ref, model.IDPrefix))
	var match *display.Item
	for i := range items {
		id := strings.TrimPrefix(items[i].Notification.ID, model.IDPrefix)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != nil {
			return display.Item{}, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
		}
		match = &items[i]
	}
	if match == nil {
		return display.Item{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return *match, nil
}

// Search finds items whose title or description contains term.
// Case-insensitive substring match.
func Search(items []display.Item, term string) []display.Item {
	if term == "" {
		return items
	}

	term = strings.ToLower(term)
	var result []display.Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Notification.Title), term) ||
			strings.Contains(strings.ToLower(it.Notification.Description), term) {
			result = append(result, it)
		}
	}
	return result
}
