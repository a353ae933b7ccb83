package service

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"armario-mascota-mockups/models"
)

// PlacementTableVersion identifies the built-in placement geometry
const PlacementTableVersion = "2024.2"

// DefaultPlacementTable is the built-in per-product placement geometry.
// The base product type (tee) ships designs pre-positioned on the canvas and is not listed.
var DefaultPlacementTable = map[models.ProductType]models.PlacementSpec{
	models.ProductHoodie: {
		RepositionRequired: true, MaxWidthFraction: 0.50, MaxHeightFraction: 0.38,
		VerticalOffsetFraction: 0.24, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductHoodieBack: {
		RepositionRequired: true, MaxWidthFraction: 0.56, MaxHeightFraction: 0.46,
		VerticalOffsetFraction: 0.20, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductSweatshirt: {
		RepositionRequired: true, MaxWidthFraction: 0.52, MaxHeightFraction: 0.40,
		VerticalOffsetFraction: 0.22, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductCoachJacket: {
		RepositionRequired: true, MaxWidthFraction: 0.20, MaxHeightFraction: 0.15,
		VerticalOffsetFraction: 0.25, Anchor: models.Anchor{Mode: models.AnchorFixed, FixedHorizontalFraction: 0.56},
	},
	models.ProductOnesie: {
		RepositionRequired: true, MaxWidthFraction: 0.42, MaxHeightFraction: 0.32,
		VerticalOffsetFraction: 0.30, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductLunchbox: {
		RepositionRequired: true, MaxWidthFraction: 0.62, MaxHeightFraction: 0.44,
		VerticalOffsetFraction: 0.30, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductSportBag: {
		RepositionRequired: true, MaxWidthFraction: 0.55, MaxHeightFraction: 0.30,
		VerticalOffsetFraction: 0.42, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductHat: {
		RepositionRequired: true, MaxWidthFraction: 0.36, MaxHeightFraction: 0.18,
		VerticalOffsetFraction: 0.32, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
	models.ProductTote: {
		RepositionRequired: true, MaxWidthFraction: 0.55, MaxHeightFraction: 0.45,
		VerticalOffsetFraction: 0.36, Anchor: models.Anchor{Mode: models.AnchorCentered},
	},
}

// PlacementRegistry is an immutable, versioned product type -> placement table.
// Implements PlacementRegistryInterface
type PlacementRegistry struct {
	version string
	canvas  models.Canvas
	table   map[models.ProductType]models.PlacementSpec
}

// Ensure PlacementRegistry implements PlacementRegistryInterface
var _ PlacementRegistryInterface = (*PlacementRegistry)(nil)

// NewPlacementRegistry validates every entry against the canvas and copies the table
func NewPlacementRegistry(version string, canvas models.Canvas, table map[models.ProductType]models.PlacementSpec) (*PlacementRegistry, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", models.ErrInvalidPlacement, canvas.Width, canvas.Height)
	}

	copied := make(map[models.ProductType]models.PlacementSpec, len(table))
	for productType, spec := range table {
		if productType == models.ProductUnclassified {
			return nil, fmt.Errorf("%w: entry for the unclassified product type", models.ErrInvalidPlacement)
		}
		if err := ValidatePlacementSpec(spec, canvas); err != nil {
			return nil, fmt.Errorf("product type %s: %w", productType, err)
		}
		copied[productType] = spec
	}

	return &PlacementRegistry{version: version, canvas: canvas, table: copied}, nil
}

// NewDefaultPlacementRegistry builds the registry over the built-in table and canvas
func NewDefaultPlacementRegistry() *PlacementRegistry {
	r, err := NewPlacementRegistry(PlacementTableVersion, models.DefaultCanvas, DefaultPlacementTable)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the placement for productType; types without an entry
// (including ProductUnclassified) get the no-reposition spec.
func (r *PlacementRegistry) Lookup(productType models.ProductType) models.PlacementSpec {
	if spec, ok := r.table[productType]; ok {
		return spec
	}
	return models.NoRepositionSpec
}

func (r *PlacementRegistry) Version() string {
	return r.version
}

func (r *PlacementRegistry) Canvas() models.Canvas {
	return r.canvas
}

// ProductTypes returns the product types with an explicit entry, sorted
func (r *PlacementRegistry) ProductTypes() []models.ProductType {
	out := make([]models.ProductType, 0, len(r.table))
	for t := range r.table {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidatePlacementSpec checks the placement invariants: fractions in (0,1], the anchor
// fraction present only for fixed anchors, and the placement box inside the canvas.
func ValidatePlacementSpec(spec models.PlacementSpec, canvas models.Canvas) error {
	if !spec.RepositionRequired {
		return nil
	}

	inRange := func(name string, v float64) error {
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s %v not in (0,1]", models.ErrInvalidPlacement, name, v)
		}
		return nil
	}
	if err := inRange("maxWidthFraction", spec.MaxWidthFraction); err != nil {
		return err
	}
	if err := inRange("maxHeightFraction", spec.MaxHeightFraction); err != nil {
		return err
	}
	if math.IsNaN(spec.VerticalOffsetFraction) || spec.VerticalOffsetFraction < 0 || spec.VerticalOffsetFraction > 1 {
		return fmt.Errorf("%w: verticalOffsetFraction %v not in [0,1]", models.ErrInvalidPlacement, spec.VerticalOffsetFraction)
	}

	maxW, maxH := boxSize(spec, canvas)
	top := roundInt(float64(canvas.Height) * spec.VerticalOffsetFraction)
	if top+maxH > canvas.Height {
		return fmt.Errorf("%w: box bottom %d exceeds canvas height %d", models.ErrInvalidPlacement, top+maxH, canvas.Height)
	}

	switch spec.Anchor.Mode {
	case models.AnchorCentered:
		if spec.Anchor.FixedHorizontalFraction != 0 {
			return fmt.Errorf("%w: fixedHorizontalFraction set on a centered anchor", models.ErrInvalidPlacement)
		}
	case models.AnchorFixed:
		if err := inRange("fixedHorizontalFraction", spec.Anchor.FixedHorizontalFraction); err != nil {
			return err
		}
		left := roundInt(float64(canvas.Width) * spec.Anchor.FixedHorizontalFraction)
		if left+maxW > canvas.Width {
			return fmt.Errorf("%w: box right edge %d exceeds canvas width %d", models.ErrInvalidPlacement, left+maxW, canvas.Width)
		}
	default:
		return fmt.Errorf("%w: unknown anchor mode %q", models.ErrInvalidPlacement, spec.Anchor.Mode)
	}
	return nil
}

// placementFile is the YAML layout of a placement table override
type placementFile struct {
	Version    string                                      `yaml:"version"`
	Canvas     *models.Canvas                              `yaml:"canvas"`
	Placements map[models.ProductType]models.PlacementSpec `yaml:"placements"`
}

// LoadPlacementTable reads and validates a YAML placement table. The canvas in the
// file, when present, must match the configured canvas.
func LoadPlacementTable(path string, canvas models.Canvas) (*PlacementRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read placement table: %w", err)
	}

	var file placementFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse placement table %s: %w", path, err)
	}
	if file.Version == "" {
		return nil, fmt.Errorf("%w: placement table %s has no version", models.ErrInvalidPlacement, path)
	}
	if file.Canvas != nil && *file.Canvas != canvas {
		return nil, fmt.Errorf("%w: placement table canvas %dx%d does not match %dx%d",
			models.ErrInvalidPlacement, file.Canvas.Width, file.Canvas.Height, canvas.Width, canvas.Height)
	}

	return NewPlacementRegistry(file.Version, canvas, file.Placements)
}
