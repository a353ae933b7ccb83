package models

// AnchorMode selects how the horizontal offset of a placement box is computed
type AnchorMode string

const (
	AnchorCentered AnchorMode = "centered"
	AnchorFixed    AnchorMode = "fixed"
)

// Anchor describes horizontal anchoring. FixedHorizontalFraction is only
// meaningful when Mode is AnchorFixed.
type Anchor struct {
	Mode                    AnchorMode `json:"mode" yaml:"mode"`
	FixedHorizontalFraction float64    `json:"fixedHorizontalFraction,omitempty" yaml:"fixedHorizontalFraction,omitempty"`
}

// PlacementSpec is the geometric placement rule for one product type.
// All fractions are relative to the canvas.
type PlacementSpec struct {
	RepositionRequired     bool    `json:"repositionRequired" yaml:"repositionRequired"`
	MaxWidthFraction       float64 `json:"maxWidthFraction" yaml:"maxWidthFraction"`
	MaxHeightFraction      float64 `json:"maxHeightFraction" yaml:"maxHeightFraction"`
	VerticalOffsetFraction float64 `json:"verticalOffsetFraction" yaml:"verticalOffsetFraction"`
	Anchor                 Anchor  `json:"anchor" yaml:"anchor"`
}

// NoRepositionSpec is used for the base product type: the design is composited as delivered
var NoRepositionSpec = PlacementSpec{
	RepositionRequired:     false,
	MaxWidthFraction:       1,
	MaxHeightFraction:      1,
	VerticalOffsetFraction: 0,
	Anchor:                 Anchor{Mode: AnchorCentered},
}

// Canvas is the fixed coordinate space placements are expressed against
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultCanvas is the template size used by the product photos
var DefaultCanvas = Canvas{Width: 826, Height: 1011}

// Position is the target box of a design on the canvas
type Position struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Fits reports whether the box lies entirely within the canvas
func (p Position) Fits(c Canvas) bool {
	return p.Left >= 0 && p.Top >= 0 &&
		p.Width > 0 && p.Height > 0 &&
		p.Left+p.Width <= c.Width &&
		p.Top+p.Height <= c.Height
}
