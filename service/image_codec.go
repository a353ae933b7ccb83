package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/utils"
)

const (
	// Quality settings
	qualityComposite = 90
)

// DecodeImage decodes raw image bytes (PNG, JPEG, etc.), applying EXIF orientation
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodeImage encodes img in the format implied by ext ("png", "jpg", "jpeg")
func EncodeImage(img image.Image, ext string) ([]byte, error) {
	format, ok := utils.MapExtensionToFormat(ext)
	if !ok {
		return nil, fmt.Errorf("unsupported output extension %q", ext)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(qualityComposite)); err != nil {
		return nil, fmt.Errorf("failed to encode to %s: %w", ext, err)
	}
	return buf.Bytes(), nil
}

// ResizeDesign scales img to exactly width x height
func ResizeDesign(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	log.Printf("🔄 Resizing design: %dx%d -> %dx%d", b.Dx(), b.Dy(), width, height)
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// RenderPlaceholder renders a flat placeholder image of the canvas size
func RenderPlaceholder(canvas models.Canvas) ([]byte, error) {
	img := imaging.New(canvas.Width, canvas.Height, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	return EncodeImage(img, "png")
}
