// Package theme derives the visual parameters of a toast: type color presets,
// translucent color variants, icon glyphs, icon animations and icon layout.
package theme
