package service

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"armario-mascota-mockups/models"
)

const (
	// MinExtractedSize is the smallest usable trimmed width or height in pixels
	MinExtractedSize = 10
	// trimTolerance is the per-channel distance under which a pixel counts as background
	trimTolerance = 10
	// transparentAlpha is the alpha at or below which a pixel counts as transparent
	transparentAlpha = 0
)

// DesignExtractor trims transparent or uniform borders off design assets.
// Implements DesignExtractorInterface
type DesignExtractor struct {
	minSize int
}

// Ensure DesignExtractor implements DesignExtractorInterface
var _ DesignExtractorInterface = (*DesignExtractor)(nil)

func NewDesignExtractor() *DesignExtractor {
	return &DesignExtractor{minSize: MinExtractedSize}
}

// Extract decodes the asset with its EXIF orientation applied and crops it to its visible content
func (e *DesignExtractor) Extract(asset models.DesignAsset) (*models.ExtractedDesign, error) {
	img, err := DecodeImage(asset.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode design %s: %v", models.ErrExtractionFailed, asset.Number, err)
	}

	trimmed, err := e.Trim(img)
	if err != nil {
		return nil, fmt.Errorf("design %s: %w", asset.Number, err)
	}

	b := trimmed.Bounds()
	log.Printf("✂️  Design %s trimmed: %dx%d -> %dx%d", asset.Number, img.Bounds().Dx(), img.Bounds().Dy(), b.Dx(), b.Dy())
	return &models.ExtractedDesign{
		Image:  trimmed,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Trim crops img to the bounding box of its non-background pixels.
// Images with transparency use alpha as the background signal; opaque images use
// the top-left pixel's colour.
func (e *DesignExtractor) Trim(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", models.ErrExtractionFailed)
	}

	isBackground := backgroundPredicate(src)

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isBackground(src.NRGBAAt(x, y)) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return nil, fmt.Errorf("%w: no visible content", models.ErrExtractionFailed)
	}

	rect := image.Rect(minX, minY, maxX+1, maxY+1)
	if rect.Dx() < e.minSize || rect.Dy() < e.minSize {
		return nil, fmt.Errorf("%w: trimmed content %dx%d below %dpx", models.ErrExtractionFailed, rect.Dx(), rect.Dy(), e.minSize)
	}

	return imaging.Crop(src, rect), nil
}

func backgroundPredicate(img *image.NRGBA) func(color.NRGBA) bool {
	b := img.Bounds()
	corners := []color.NRGBA{
		img.NRGBAAt(b.Min.X, b.Min.Y),
		img.NRGBAAt(b.Max.X-1, b.Min.Y),
		img.NRGBAAt(b.Min.X, b.Max.Y-1),
		img.NRGBAAt(b.Max.X-1, b.Max.Y-1),
	}
	for _, c := range corners {
		if c.A <= transparentAlpha {
			return func(p color.NRGBA) bool { return p.A <= transparentAlpha }
		}
	}

	bg := corners[0]
	return func(p color.NRGBA) bool {
		return near(p.R, bg.R) && near(p.G, bg.G) && near(p.B, bg.B) && near(p.A, bg.A)
	}
}

func near(a, b uint8) bool {
	if a > b {
		return a-b <= trimTolerance
	}
	return b-a <= trimTolerance
}
