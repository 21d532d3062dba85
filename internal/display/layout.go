package display

// Default placement parameters.
const (
	DefaultGap              = 260
	DefaultSecondaryScale   = 0.8
	DefaultSecondaryOpacity = 0.6
	DefaultBaseZIndex       = 50
)

// Side is the horizontal side an item is pushed to.
type Side string

const (
	SideCenter Side = "center"
	SideRight  Side = "right"
	SideLeft   Side = "left"
)

// Layout holds the parameters of the stacked placement.
type Layout struct {
	Gap              int
	SecondaryScale   float64
	SecondaryOpacity float64
	BaseZIndex       int
}

// DefaultLayout returns the built-in placement parameters.
func DefaultLayout() Layout {
	return Layout{
		Gap:              DefaultGap,
		SecondaryScale:   DefaultSecondaryScale,
		SecondaryOpacity: DefaultSecondaryOpacity,
		BaseZIndex:       DefaultBaseZIndex,
	}
}

// Placement is the render position of the item at a given index.
type Placement struct {
	Index   int     `json:"index" yaml:"index"`
	X       int     `json:"x" yaml:"x"`
	Scale   float64 `json:"scale" yaml:"scale"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	ZIndex  int     `json:"zIndex" yaml:"zIndex"`
	Side    Side    `json:"side" yaml:"side"`
}

// Place computes the placement of the item at index (0 = newest).
// The front item is centered at full scale. Older items fan out
// alternately right (even index) and left (odd index), one gap further
// for every pair, shrunk, dimmed and pushed back in stacking order.
func (l Layout) Place(index int) Placement {
	if index <= 0 {
		return Placement{
			Index:   0,
			Scale:   1,
			Opacity: 1,
			ZIndex:  l.BaseZIndex,
			Side:    SideCenter,
		}
	}

	x := OffsetX(index, l.Gap)
	side := SideRight
	if index%2 == 1 {
		side = SideLeft
	}

	return Placement{
		Index:   index,
		X:       x,
		Scale:   l.SecondaryScale,
		Opacity: l.SecondaryOpacity,
		ZIndex:  l.BaseZIndex - index,
		Side:    side,
	}
}

// OffsetX returns the signed horizontal offset of the item at index.
func OffsetX(index, gap int) int {
	if index <= 0 {
		return 0
	}
	sign := -1
	if index%2 == 0 {
		sign = 1
	}
	step := (index + 1) / 2
	return sign * step * gap
}
