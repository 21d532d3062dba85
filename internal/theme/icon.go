package theme

import "github.com/jmylchreest/toastd/internal/model"

// Default glyph names.
const (
	GlyphCheck    = "check"
	GlyphTriangle = "triangle"
	GlyphCross    = "cross"
	GlyphInfo     = "info"
	GlyphBell     = "bell"
)

// IconFor returns the default glyph of a notification type.
func IconFor(typ model.Type) string {
	switch typ {
	case model.TypeSuccess:
		return GlyphCheck
	case model.TypeWarning:
		return GlyphTriangle
	case model.TypeError:
		return GlyphCross
	case model.TypeInfo:
		return GlyphInfo
	default:
		return GlyphBell
	}
}

// Motion is a single icon motion effect.
type Motion string

const (
	MotionSpin      Motion = "spin"
	MotionPulse     Motion = "pulse"
	MotionBounce    Motion = "bounce"
	MotionFadePulse Motion = "fade-pulse"
)

// animations maps animation names to motion effects.
// shake has no dedicated effect and renders as a bounce.
var animations = map[string][]Motion{
	"spin":      {MotionSpin},
	"spinPulse": {MotionSpin, MotionPulse},
	"pulse":     {MotionPulse},
	"beat":      {MotionBounce},
	"fade":      {MotionFadePulse},
	"beatFade":  {MotionBounce, MotionPulse},
	"bounce":    {MotionBounce},
	"shake":     {MotionBounce},
}

// AnimationFor returns the motion effects of an animation name.
// Unrecognized names produce no motion.
func AnimationFor(name string) []Motion {
	m, ok := animations[name]
	if !ok {
		return nil
	}
	out := make([]Motion, len(m))
	copy(out, m)
	return out
}

// Layout is the flex arrangement of icon and content.
type Layout string

const (
	LayoutColumn        Layout = "column"
	LayoutColumnReverse Layout = "column-reverse"
	LayoutRow           Layout = "row"
	LayoutRowReverse    Layout = "row-reverse"
)

// LayoutFor returns the arrangement for an icon position.
func LayoutFor(pos model.IconPosition) Layout {
	switch pos {
	case model.IconBottom:
		return LayoutColumnReverse
	case model.IconLeft:
		return LayoutRow
	case model.IconRight:
		return LayoutRowReverse
	default:
		return LayoutColumn
	}
}
