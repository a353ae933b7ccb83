package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"armario-mascota-mockups/models"
)

// Compositor overlays positioned designs onto template images. Composite work
// shares the pipeline's WorkLimiter to bound image memory.
// Implements CompositorInterface
type Compositor struct {
	canvas  models.Canvas
	limiter *WorkLimiter
}

// Ensure Compositor implements CompositorInterface
var _ CompositorInterface = (*Compositor)(nil)

// NewCompositor creates a compositor whose work is bounded by limiter
func NewCompositor(canvas models.Canvas, limiter *WorkLimiter) *Compositor {
	if limiter == nil {
		limiter = NewWorkLimiter(1)
	}
	return &Compositor{
		canvas:  canvas,
		limiter: limiter,
	}
}

// Composite alpha-blends overlay onto base at pos and encodes the opaque result
// in the format implied by ext. The overlay must already be pos.Width x pos.Height.
func (c *Compositor) Composite(ctx context.Context, base image.Image, overlay image.Image, pos models.Position, ext string) ([]byte, error) {
	var data []byte
	err := c.limiter.Do(ctx, func() error {
		var err error
		data, err = c.composite(ctx, base, overlay, pos, ext)
		return err
	})
	return data, err
}

func (c *Compositor) composite(ctx context.Context, base image.Image, overlay image.Image, pos models.Position, ext string) ([]byte, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: no base template", models.ErrCompositionFailed)
	}
	if !pos.Fits(c.canvas) {
		return nil, fmt.Errorf("%w: position %+v outside canvas %dx%d", models.ErrCompositionFailed, pos, c.canvas.Width, c.canvas.Height)
	}
	ob := overlay.Bounds()
	if ob.Dx() != pos.Width || ob.Dy() != pos.Height {
		return nil, fmt.Errorf("%w: overlay %dx%d does not match position %dx%d",
			models.ErrCompositionFailed, ob.Dx(), ob.Dy(), pos.Width, pos.Height)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGenerationTimeout, err)
	}

	canvas := c.flatten(base)
	out := imaging.Overlay(canvas, overlay, image.Pt(pos.Left, pos.Top), 1.0)

	data, err := EncodeImage(out, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCompositionFailed, err)
	}

	log.Printf("🎨 Composited %dx%d design at (%d,%d), output_size=%d bytes", pos.Width, pos.Height, pos.Left, pos.Top, len(data))
	return data, nil
}

// flatten draws base onto an opaque white canvas, resizing it to the canvas when its size differs
func (c *Compositor) flatten(base image.Image) *image.NRGBA {
	b := base.Bounds()
	if b.Dx() != c.canvas.Width || b.Dy() != c.canvas.Height {
		log.Printf("⚠️  Template is %dx%d, resizing to canvas %dx%d", b.Dx(), b.Dy(), c.canvas.Width, c.canvas.Height)
		base = imaging.Resize(base, c.canvas.Width, c.canvas.Height, imaging.Lanczos)
	}
	white := imaging.New(c.canvas.Width, c.canvas.Height, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return imaging.Overlay(white, base, image.Pt(0, 0), 1.0)
}
