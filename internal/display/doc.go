// Package display owns the active notification sequence.
// It handles admission, per-item expiry timers, explicit removal,
// capacity eviction, stacked placement and render frame computation.
package display
