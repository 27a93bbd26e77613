package pixel

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA converts the surface into a standard library image with
// straight alpha.
func (b *Buffer) ToNRGBA() (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		out := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		in := b.Row(y)

		switch b.format {
		case R8G8B8A8UNorm, R8G8B8A8UNormSRGB, R8G8B8A8Typeless, R8G8B8A8UInt:
			copy(out, in[:b.width*4])
		case B8G8R8A8UNorm, B8G8R8A8UNormSRGB, B8G8R8A8Typeless:
			SwizzleScanline(out, in[:b.width*4], b.format, ScanlineNone)
		case B8G8R8X8UNorm, B8G8R8X8UNormSRGB, B8G8R8X8Typeless:
			SwizzleScanline(out, in[:b.width*4], b.format, ScanlineSetAlpha)
		case B5G6R5UNorm, B5G5R5A1UNorm, B4G4R4A4UNorm:
			if err := ExpandScanline(out, in[:b.width*2], b.format, ScanlineNone); err != nil {
				return nil, err
			}
		case R8G8B8UNorm, B8G8R8UNorm, B8G8R8UNormSRGB:
			for x := 0; x < b.width; x++ {
				p := in[x*3 : x*3+3]
				if b.format == R8G8B8UNorm {
					out[x*4], out[x*4+1], out[x*4+2] = p[0], p[1], p[2]
				} else {
					out[x*4], out[x*4+1], out[x*4+2] = p[2], p[1], p[0]
				}
				out[x*4+3] = 0xff
			}
		case R8UNorm, A8UNorm, R8UInt, R8Typeless:
			for x := 0; x < b.width; x++ {
				v := in[x]
				if b.format == A8UNorm {
					out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = 0, 0, 0, v
					continue
				}
				out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = v, v, v, 0xff
			}
		default:
			return nil, fmt.Errorf("%w: no image conversion for %s", ErrInvalidFormat, b.format)
		}
	}
	return img, nil
}

// FromImage returns a tightly packed R8G8B8A8 buffer with straight alpha.
// A tightly packed *image.NRGBA at the origin is wrapped without copying.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}
	b, _ := NewBuffer(bounds.Dx(), bounds.Dy(), R8G8B8A8UNorm, nrgba.Stride, nrgba.Pix)
	return b
}
