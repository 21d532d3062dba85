package theme

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/jmylchreest/toastd/internal/model"
)

// Preset colors per notification type.
const (
	ColorSuccess = "#22c55e"
	ColorWarning = "#eab308"
	ColorError   = "#ef4444"
	ColorInfo    = "#3b82f6"
)

// PanelBackground is the translucent black behind icon and content.
const PanelBackground = "rgba(0, 0, 0, 0.5)"

// Alpha values used for derived colors.
const (
	IconBackgroundAlpha = 0.2
	GlowAlpha           = 0.2
	ProgressTailAlpha   = 0.8
)

// Palette maps each notification type to its primary color.
type Palette map[model.Type]string

// DefaultPalette returns the built-in presets.
func DefaultPalette() Palette {
	return Palette{
		model.TypeSuccess: ColorSuccess,
		model.TypeWarning: ColorWarning,
		model.TypeError:   ColorError,
		model.TypeInfo:    ColorInfo,
	}
}

// NewPalette returns the built-in presets with overrides applied.
// Override keys are type names; unknown keys are ignored.
func NewPalette(overrides map[string]string) Palette {
	p := DefaultPalette()
	for name, color := range overrides {
		typ := model.Type(name)
		if _, ok := p[typ]; ok && color != "" {
			p[typ] = color
		}
	}
	return p
}

// Clone returns a copy of the palette.
func (p Palette) Clone() Palette {
	return maps.Clone(p)
}

// Primary returns the preset color of a type, falling back to info.
func (p Palette) Primary(typ model.Type) string {
	if c, ok := p[typ]; ok {
		return c
	}
	if c, ok := p[model.TypeInfo]; ok {
		return c
	}
	return ColorInfo
}

// Style holds the derived visual parameters of one notification.
type Style struct {
	Primary        string   `json:"primary" yaml:"primary"`
	BorderColor    string   `json:"borderColor" yaml:"borderColor"`
	IconColor      string   `json:"iconColor" yaml:"iconColor"`
	IconBackground string   `json:"iconBackground" yaml:"iconBackground"`
	Glow           string   `json:"glow" yaml:"glow"`
	Background     string   `json:"background" yaml:"background"`
	ProgressFrom   string   `json:"progressFrom" yaml:"progressFrom"`
	ProgressTo     string   `json:"progressTo" yaml:"progressTo"`
	Icon           string   `json:"icon" yaml:"icon"`
	CustomIcon     bool     `json:"customIcon" yaml:"customIcon"`
	Animation      []Motion `json:"animation,omitempty" yaml:"animation,omitempty"`
	IconLayout     Layout   `json:"iconLayout" yaml:"iconLayout"`
}

// Resolve derives the style of n. Per-item overrides win over the type preset.
func (p Palette) Resolve(n model.Notification) Style {
	primary := p.Primary(n.Type)

	border := primary
	if n.BorderColor != "" {
		border = n.BorderColor
	}
	iconColor := primary
	if n.IconColor != "" {
		iconColor = n.IconColor
	}

	icon, custom := IconFor(n.Type), false
	if n.Icon != "" {
		icon, custom = n.Icon, true
	}

	return Style{
		Primary:        primary,
		BorderColor:    border,
		IconColor:      iconColor,
		IconBackground: HexToRGBA(border, IconBackgroundAlpha),
		Glow:           "0 0 1px " + HexToRGBA(border, GlowAlpha),
		Background:     PanelBackground,
		ProgressFrom:   border,
		ProgressTo:     HexToRGBA(border, ProgressTailAlpha),
		Icon:           icon,
		CustomIcon:     custom,
		Animation:      AnimationFor(n.IconAnimation),
		IconLayout:     LayoutFor(n.PositionIcon),
	}
}

// ParseHex decomposes "#rrggbb" (or "#rgb") into its channels.
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// HexToRGBA recombines a hex color with an alpha channel as a CSS rgba() value.
// Unparseable colors come out black.
func HexToRGBA(hex string, alpha float64) string {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		r, g, b = 0, 0, 0
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
