// Package imaging decodes and encodes BMP, TGA and ICO containers into
// pixel buffers.
package imaging

import (
	"fmt"
	"image"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

// Image is a decoded single-surface image that owns its pixel memory.
type Image struct {
	Description pixel.ImageDescription
	Buffer      *pixel.Buffer
}

// NewImage allocates a zeroed, tightly packed image.
func NewImage(width, height int, format pixel.Format) *Image {
	return &Image{
		Description: pixel.Describe2D(width, height, format),
		Buffer:      pixel.Allocate(width, height, format),
	}
}

func (img *Image) Width() int           { return img.Description.Width }
func (img *Image) Height() int          { return img.Description.Height }
func (img *Image) Format() pixel.Format { return img.Description.Format }

// Pix returns the pixel bytes.
func (img *Image) Pix() []byte { return img.Buffer.Data() }

// ToNRGBA converts the image for use with the standard image packages.
func (img *Image) ToNRGBA() (*image.NRGBA, error) {
	return img.Buffer.ToNRGBA()
}

// FromImage converts any standard library image into an R8G8B8A8 Image.
func FromImage(src image.Image) *Image {
	buf := pixel.FromImage(src)
	return &Image{
		Description: pixel.Describe2D(buf.Width(), buf.Height(), buf.Format()),
		Buffer:      buf,
	}
}

// Convert returns img re-encoded as R8G8B8A8, or img itself if it already is.
func Convert(img *Image) (*Image, error) {
	if img.Format() == pixel.R8G8B8A8UNorm {
		return img, nil
	}
	nrgba, err := img.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", img.Format(), err)
	}
	return FromImage(nrgba), nil
}
