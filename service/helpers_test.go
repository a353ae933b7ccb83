package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"armario-mascota-mockups/models"
)

// solidPNG encodes a w x h image filled with c
func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodePNG(t, img)
}

// framedPNG encodes a w x h image with background bg and an opaque noisy block of
// contentW x contentH at (left, top). The noise keeps the encoded size realistic.
func framedPNG(t *testing.T, w, h, left, top, contentW, contentH int, bg color.NRGBA) []byte {
	t.Helper()
	return encodePNG(t, framedImage(w, h, left, top, contentW, contentH, bg))
}

func framedImage(w, h, left, top, contentW, contentH int, bg color.NRGBA) *image.NRGBA {
	rng := rand.New(rand.NewSource(int64(w*31 + h)))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= left && x < left+contentW && y >= top && y < top+contentH {
				img.SetNRGBA(x, y, color.NRGBA{
					R: uint8(rng.Intn(256)),
					G: uint8(rng.Intn(256)),
					B: uint8(rng.Intn(200)),
					A: 0xff,
				})
				continue
			}
			img.SetNRGBA(x, y, bg)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

var (
	transparent = color.NRGBA{}
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	templateRed = color.NRGBA{R: 0xc0, G: 0x20, B: 0x20, A: 0xff}
)

// fakeFetcher serves design assets from a map and counts calls
type fakeFetcher struct {
	mu      sync.Mutex
	designs map[string][]byte
	calls   atomic.Int32
	block   chan struct{}
	minimum int
}

func (f *fakeFetcher) Fetch(ctx context.Context, designNumber string) (*models.DesignAsset, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	data, ok := f.designs[designNumber]
	f.mu.Unlock()
	if !ok {
		return nil, models.ErrAssetFetchFailed
	}

	validator := NewDesignAssetFetcher(nil, nil, 0, f.minimum)
	return validator.Validate(designNumber, data)
}

// fakeRemoteClient serves downloads from a map
type fakeRemoteClient struct {
	files map[string][]byte
	keys  []string
}

func (c *fakeRemoteClient) Download(ctx context.Context, key string) ([]byte, error) {
	c.keys = append(c.keys, key)
	data, ok := c.files[key]
	if !ok {
		return nil, models.ErrArtifactNotFound
	}
	return data, nil
}

// fakeSourceRepository resolves design numbers from a map
type fakeSourceRepository struct {
	sources map[string]models.DesignSource
}

func (r *fakeSourceRepository) GetByDesignNumber(ctx context.Context, designNumber string) (*models.DesignSource, error) {
	src, ok := r.sources[designNumber]
	if !ok {
		return nil, models.ErrAssetFetchFailed
	}
	return &src, nil
}

// blockImage is a w x h white image with a solid dark block of contentW x contentH at (left, top)
func blockImage(w, h, left, top, contentW, contentH int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := white
			if x >= left && x < left+contentW && y >= top && y < top+contentH {
				c = color.NRGBA{R: 0x20, G: 0x30, B: 0x90, A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// orientedJPEG encodes img as a JPEG carrying an EXIF orientation tag, the way phone cameras store rotated shots
func orientedJPEG(t *testing.T, img image.Image, orientation uint16) []byte {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, jpeg.Encode(&body, img, &jpeg.Options{Quality: 100}))
	data := body.Bytes()
	require.Equal(t, []byte{0xff, 0xd8}, data[:2])

	var exif bytes.Buffer
	exif.WriteString("Exif\x00\x00")
	exif.Write([]byte{'M', 'M', 0x00, 0x2a})   // big-endian TIFF header
	exif.Write([]byte{0x00, 0x00, 0x00, 0x08}) // first IFD offset
	exif.Write([]byte{0x00, 0x01})             // one entry
	exif.Write([]byte{0x01, 0x12, 0x00, 0x03}) // orientation, SHORT
	exif.Write([]byte{0x00, 0x00, 0x00, 0x01}) // count
	exif.Write([]byte{byte(orientation >> 8), byte(orientation), 0x00, 0x00})
	exif.Write([]byte{0x00, 0x00, 0x00, 0x00}) // no next IFD

	size := exif.Len() + 2
	var out bytes.Buffer
	out.Write([]byte{0xff, 0xd8, 0xff, 0xe1, byte(size >> 8), byte(size)})
	out.Write(exif.Bytes())
	out.Write(data[2:])
	return out.Bytes()
}
