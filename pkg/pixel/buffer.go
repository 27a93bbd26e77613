// Package pixel describes pixel formats and provides views over raw pixel
// memory together with the scanline conversions used by the image codecs.
package pixel

import (
	"fmt"
	"unsafe"
)

// Buffer is a view over a single 2D surface. The backing slice is borrowed:
// the Buffer never copies or reallocates it.
type Buffer struct {
	width        int
	height       int
	format       Format
	rowStride    int
	bufferStride int
	pixelSize    int
	strict       bool
	data         []byte
}

// NewBuffer wraps data as a surface of the given size and format.
// A rowStride <= 0 selects the tightly packed pitch for the format.
func NewBuffer(width, height int, format Format, rowStride int, data []byte) (*Buffer, error) {
	if data == nil {
		return nil, ErrNilData
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSizeMismatch, width, height)
	}
	if rowStride <= 0 {
		rowStride, _ = ComputePitch(format, width, height)
	}

	bufferStride := rowStride * ComputeScanlineCount(format, height)
	if len(data) < bufferStride {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, bufferStride, len(data))
	}

	pixelSize := SizeOfInBytes(format)
	return &Buffer{
		width:        width,
		height:       height,
		format:       format,
		rowStride:    rowStride,
		bufferStride: bufferStride,
		pixelSize:    pixelSize,
		strict:       pixelSize*width == rowStride,
		data:         data,
	}, nil
}

// Allocate creates a tightly packed buffer with its own zeroed memory.
func Allocate(width, height int, format Format) *Buffer {
	rowPitch, slicePitch := ComputePitch(format, width, height)
	b, _ := NewBuffer(width, height, format, rowPitch, make([]byte, slicePitch))
	return b
}

func (b *Buffer) Width() int        { return b.width }
func (b *Buffer) Height() int       { return b.height }
func (b *Buffer) Format() Format    { return b.format }
func (b *Buffer) RowStride() int    { return b.rowStride }
func (b *Buffer) BufferStride() int { return b.bufferStride }
func (b *Buffer) PixelSize() int    { return b.pixelSize }

// Data returns the borrowed backing memory, bufferStride bytes long.
func (b *Buffer) Data() []byte { return b.data[:b.bufferStride] }

// IsStrictRowStride reports whether rows are packed without padding.
func (b *Buffer) IsStrictRowStride() bool { return b.strict }

// SetFormat reinterprets the pixels as another format of identical size.
func (b *Buffer) SetFormat(f Format) error {
	if SizeOfInBytes(f) != b.pixelSize {
		return fmt.Errorf("%w: %s (%d bytes) vs %s (%d bytes)",
			ErrFormatMismatch, f, SizeOfInBytes(f), b.format, b.pixelSize)
	}
	b.format = f
	return nil
}

// Row returns scanline y including any trailing padding.
func (b *Buffer) Row(y int) []byte {
	off := y * b.rowStride
	return b.data[off : off+b.rowStride]
}

// Pixel returns the bytes of the pixel at (x, y). Coordinates are not
// validated against the surface size.
func (b *Buffer) Pixel(x, y int) []byte {
	off := y*b.rowStride + x*b.pixelSize
	return b.data[off : off+b.pixelSize]
}

// Texel is any fixed-size value a pixel can be read as.
type Texel interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~float32 | ~float64 |
		~[2]uint8 | ~[3]uint8 | ~[4]uint8 | ~[4]uint16 | ~[4]float32
}

// GetPixel reads the value at (x, y) without validating coordinates
// against the surface; only the slice bound is enforced.
func GetPixel[T Texel](b *Buffer, x, y int) T {
	var v T
	size := int(unsafe.Sizeof(v))
	off := y*b.rowStride + x*b.pixelSize
	p := b.data[off : off+size]
	return *(*T)(unsafe.Pointer(&p[0]))
}

// SetPixel writes the value at (x, y) without validating coordinates.
func SetPixel[T Texel](b *Buffer, x, y int, v T) {
	size := int(unsafe.Sizeof(v))
	off := y*b.rowStride + x*b.pixelSize
	p := b.data[off : off+size]
	*(*T)(unsafe.Pointer(&p[0])) = v
}

func texelBytes[T Texel](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var v T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(v)))
}

// GetPixels copies count values starting at row yOffset into dst[index:].
// Rows are read width values at a time, honouring the row stride.
func GetPixels[T Texel](b *Buffer, dst []T, yOffset, index, count int) error {
	if index < 0 || count < 0 || index+count > len(dst) {
		return fmt.Errorf("%w: %d values at %d into %d", ErrBufferTooSmall, count, index, len(dst))
	}
	return b.transfer(texelBytes(dst[index:index+count]), yOffset, elemSize[T](), false)
}

// SetPixels copies count values from src[index:] into the surface starting
// at row yOffset.
func SetPixels[T Texel](b *Buffer, src []T, yOffset, index, count int) error {
	if index < 0 || count < 0 || index+count > len(src) {
		return fmt.Errorf("%w: %d values at %d from %d", ErrBufferTooSmall, count, index, len(src))
	}
	return b.transfer(texelBytes(src[index:index+count]), yOffset, elemSize[T](), true)
}

func elemSize[T Texel]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// transfer moves packed bytes between buf and the surface.
func (b *Buffer) transfer(buf []byte, yOffset, elem int, write bool) error {
	offset := yOffset * b.rowStride
	if yOffset < 0 || offset > b.bufferStride {
		return fmt.Errorf("%w: row %d", ErrBufferTooSmall, yOffset)
	}

	move := func(packed []byte, surface []byte) {
		if write {
			copy(surface, packed)
		} else {
			copy(packed, surface)
		}
	}

	if b.strict {
		if offset+len(buf) > b.bufferStride {
			return fmt.Errorf("%w: %d bytes from row %d", ErrBufferTooSmall, len(buf), yOffset)
		}
		move(buf, b.data[offset:offset+len(buf)])
		return nil
	}

	rowBytes := elem * b.width
	if rowBytes == 0 {
		return nil
	}
	rows := len(buf) / rowBytes
	remainder := len(buf) % rowBytes
	need := rows * b.rowStride
	if remainder > 0 {
		need += remainder
	}
	if offset+need > b.bufferStride || rowBytes > b.rowStride {
		return fmt.Errorf("%w: %d rows from row %d", ErrBufferTooSmall, rows, yOffset)
	}

	pos := 0
	for i := 0; i < rows; i++ {
		move(buf[pos:pos+rowBytes], b.data[offset:offset+rowBytes])
		pos += rowBytes
		offset += b.rowStride
	}
	if remainder > 0 {
		move(buf[pos:], b.data[offset:offset+remainder])
	}
	return nil
}

// CopyTo copies every pixel into dst, which must have the same dimensions
// and pixel size.
func (b *Buffer) CopyTo(dst *Buffer) error {
	if b.width != dst.width || b.height != dst.height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, b.width, b.height, dst.width, dst.height)
	}
	if b.pixelSize != dst.pixelSize {
		return fmt.Errorf("%w: %d vs %d bytes per pixel", ErrFormatMismatch, b.pixelSize, dst.pixelSize)
	}

	if b.bufferStride == dst.bufferStride && b.rowStride == dst.rowStride {
		copy(dst.data[:dst.bufferStride], b.data[:b.bufferStride])
		return nil
	}

	n := min(b.rowStride, dst.rowStride)
	rows := ComputeScanlineCount(b.format, b.height)
	for y := 0; y < rows; y++ {
		copy(dst.data[y*dst.rowStride:y*dst.rowStride+n], b.data[y*b.rowStride:y*b.rowStride+n])
	}
	return nil
}
