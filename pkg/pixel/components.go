package pixel

import "fmt"

// Components splits interleaved pixels into one plane per byte channel.
// Each plane holds width*height bytes in row-major order.
func (b *Buffer) Components() ([][]byte, error) {
	if err := b.checkPlanar(); err != nil {
		return nil, err
	}
	channels := b.pixelSize

	planes := make([][]byte, channels)
	for c := range planes {
		planes[c] = make([]byte, b.width*b.height)
	}
	for y := 0; y < b.height; y++ {
		row := b.data[y*b.rowStride:]
		for x := 0; x < b.width; x++ {
			px := row[x*channels : x*channels+channels]
			for c := 0; c < channels; c++ {
				planes[c][y*b.width+x] = px[c]
			}
		}
	}
	return planes, nil
}

// SetComponents interleaves planes produced by Components back into the
// surface.
func (b *Buffer) SetComponents(planes [][]byte) error {
	if err := b.checkPlanar(); err != nil {
		return err
	}
	channels := b.pixelSize
	if len(planes) != channels {
		return fmt.Errorf("%w: %d planes for %d channels", ErrFormatMismatch, len(planes), channels)
	}
	for c, p := range planes {
		if len(p) < b.width*b.height {
			return fmt.Errorf("%w: plane %d has %d bytes", ErrBufferTooSmall, c, len(p))
		}
	}
	for y := 0; y < b.height; y++ {
		row := b.data[y*b.rowStride:]
		for x := 0; x < b.width; x++ {
			for c := 0; c < channels; c++ {
				row[x*channels+c] = planes[c][y*b.width+x]
			}
		}
	}
	return nil
}

// checkPlanar rejects block formats and pixels wider than four bytes.
func (b *Buffer) checkPlanar() error {
	if IsCompressed(b.format) {
		return fmt.Errorf("%w: %s is block compressed", ErrInvalidFormat, b.format)
	}
	if b.pixelSize < 1 || b.pixelSize > 4 {
		return fmt.Errorf("%w: %s has %d bytes per pixel", ErrInvalidFormat, b.format, b.pixelSize)
	}
	return nil
}
