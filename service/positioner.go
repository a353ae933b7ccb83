package service

import (
	"fmt"
	"math"

	"armario-mascota-mockups/models"
)

// Positioner computes where a design lands on the canvas.
// Scaling is fit-inside and never upscales: the scale factor is clamped to 1.
// Implements PositionerInterface
type Positioner struct{}

// Ensure Positioner implements PositionerInterface
var _ PositionerInterface = (*Positioner)(nil)

func NewPositioner() *Positioner {
	return &Positioner{}
}

// PlaceOn scales a design of width x height into the placement box and
// positions it according to the placement's anchor.
func (p *Positioner) PlaceOn(width, height int, spec models.PlacementSpec, canvas models.Canvas) (models.Position, error) {
	if width <= 0 || height <= 0 {
		return models.Position{}, fmt.Errorf("%w: design size %dx%d", models.ErrExtractionFailed, width, height)
	}

	if !spec.RepositionRequired {
		// designs for the base product are delivered at their canvas location
		return models.Position{Left: 0, Top: 0, Width: width, Height: height}, nil
	}

	maxW, maxH := boxSize(spec, canvas)
	targetW, targetH := fitInside(width, height, maxW, maxH)
	return p.Anchor(targetW, targetH, spec, canvas), nil
}

// Anchor positions an already scaled design of targetW x targetH
func (p *Positioner) Anchor(targetW, targetH int, spec models.PlacementSpec, canvas models.Canvas) models.Position {
	if !spec.RepositionRequired {
		return models.Position{Left: 0, Top: 0, Width: targetW, Height: targetH}
	}

	top := roundInt(float64(canvas.Height) * spec.VerticalOffsetFraction)

	var left int
	if spec.Anchor.Mode == models.AnchorFixed {
		left = roundInt(float64(canvas.Width) * spec.Anchor.FixedHorizontalFraction)
	} else {
		left = roundInt(float64(canvas.Width-targetW) / 2)
	}

	return models.Position{Left: left, Top: top, Width: targetW, Height: targetH}
}

// boxSize returns the placement box size in canvas pixels
func boxSize(spec models.PlacementSpec, canvas models.Canvas) (int, int) {
	return roundInt(float64(canvas.Width) * spec.MaxWidthFraction),
		roundInt(float64(canvas.Height) * spec.MaxHeightFraction)
}

// fitInside returns the largest aspect-preserving size of w x h within maxW x maxH,
// never larger than w x h itself
func fitInside(w, h, maxW, maxH int) (int, int) {
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)

	if scaleW >= 1 && scaleH >= 1 {
		return w, h
	}

	// compute the bound axis exactly and derive the other from integer ratios
	if scaleW <= scaleH {
		return maxW, max(1, roundInt(float64(h*maxW)/float64(w)))
	}
	return max(1, roundInt(float64(w*maxH)/float64(h))), maxH
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
