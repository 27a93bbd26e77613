package pixel

import "fmt"

// FlipMode selects the axes Flip mirrors.
type FlipMode uint8

const (
	FlipVertical FlipMode = 1 << iota
	FlipHorizontal

	FlipBoth = FlipVertical | FlipHorizontal
)

// Flip mirrors the surface in place. Pixels are moved whole and row
// padding is left untouched.
func (b *Buffer) Flip(mode FlipMode) error {
	if IsCompressed(b.format) || b.pixelSize == 0 {
		return fmt.Errorf("%w: cannot flip %s", ErrInvalidFormat, b.format)
	}
	if mode&FlipBoth == 0 {
		return nil
	}

	src := make([]byte, b.bufferStride)
	copy(src, b.data[:b.bufferStride])

	rowBytes := b.width * b.pixelSize
	ps := b.pixelSize
	for y := 0; y < b.height; y++ {
		srcY := y
		if mode&FlipVertical != 0 {
			srcY = b.height - 1 - y
		}
		srcRow := src[srcY*b.rowStride : srcY*b.rowStride+rowBytes]
		dstRow := b.data[y*b.rowStride : y*b.rowStride+rowBytes]

		if mode&FlipHorizontal == 0 {
			copy(dstRow, srcRow)
			continue
		}
		last := rowBytes - ps
		for x := 0; x < rowBytes; x += ps {
			copy(dstRow[x:x+ps], srcRow[last-x:last-x+ps])
		}
	}
	return nil
}
