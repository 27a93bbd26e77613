package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

const (
	bmpMagic          = 0x4D42 // "BM"
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpColorHdrSize   = 84
	bmpV5HeaderSize   = bmpInfoHeaderSize + bmpColorHdrSize

	biRGB       = 0
	biBitfields = 3

	lcsSRGB = 0x73524742 // "sRGB"
)

// Channel masks of a 32-bit sRGB BGRA bitmap.
const (
	bmpRedMask   = 0x00ff0000
	bmpGreenMask = 0x0000ff00
	bmpBlueMask  = 0x000000ff
	bmpAlphaMask = 0xff000000
)

type bmpFileHeader struct {
	Magic      uint16
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32
}

type bmpInfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

type bmpColorHeader struct {
	RedMask        uint32
	GreenMask      uint32
	BlueMask       uint32
	AlphaMask      uint32
	ColorSpaceType uint32
	Unused         [16]uint32
}

// BMPHeader is the parsed, validated header of a bitmap file.
type BMPHeader struct {
	FileSize    uint32
	DataOffset  uint32
	InfoSize    uint32
	Width       int
	Height      int
	BitCount    int
	Compression uint32

	// Channel masks, zero when the file declares none.
	RedMask, GreenMask, BlueMask, AlphaMask uint32
	ColorSpace                              uint32

	// Format is the layout of the stored pixels.
	Format pixel.Format
	// TopDown is set for a negative stored height.
	TopDown bool
}

// RowStride returns the stored row size, padded to 4 bytes.
func (h *BMPHeader) RowStride() int {
	return (h.Width*h.BitCount + 31) / 32 * 4
}

// DecodeBMPHeader parses and validates the headers of a bitmap file.
func DecodeBMPHeader(data []byte) (*BMPHeader, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: BMP file too short", ErrTruncated)
	}
	if binary.LittleEndian.Uint16(data) != bmpMagic {
		return nil, fmt.Errorf("%w: missing BMP magic", ErrUnrecognized)
	}
	if len(data) < bmpFileHeaderSize+bmpInfoHeaderSize {
		return nil, fmt.Errorf("%w: BMP headers", ErrTruncated)
	}

	r := bytes.NewReader(data)

	var fh bmpFileHeader
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return nil, fmt.Errorf("%w: reading BMP file header", ErrTruncated)
	}
	var ih bmpInfoHeader
	if err := binary.Read(r, binary.LittleEndian, &ih); err != nil {
		return nil, fmt.Errorf("%w: reading BMP info header", ErrTruncated)
	}
	if ih.Size < bmpInfoHeaderSize {
		return nil, fmt.Errorf("%w: BMP info header of %d bytes", ErrUnsupported, ih.Size)
	}

	h := &BMPHeader{
		FileSize:    fh.FileSize,
		DataOffset:  fh.DataOffset,
		InfoSize:    ih.Size,
		Width:       int(ih.Width),
		Height:      int(ih.Height),
		BitCount:    int(ih.BitCount),
		Compression: ih.Compression,
	}
	if h.Height < 0 {
		h.Height = -h.Height
		h.TopDown = true
	}
	if h.Width <= 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: BMP dimensions %dx%d", ErrUnsupported, ih.Width, ih.Height)
	}
	if h.Compression != biRGB && h.Compression != biBitfields {
		return nil, fmt.Errorf("%w: BMP compression %d", ErrUnsupported, h.Compression)
	}

	// Masks follow the 40-byte header: inside it for V4/V5 headers, or as
	// a separate block for BI_BITFIELDS with a plain info header.
	if ih.Size >= bmpV5HeaderSize {
		var ch bmpColorHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return nil, fmt.Errorf("%w: reading BMP color header", ErrTruncated)
		}
		h.RedMask, h.GreenMask, h.BlueMask, h.AlphaMask = ch.RedMask, ch.GreenMask, ch.BlueMask, ch.AlphaMask
		h.ColorSpace = ch.ColorSpaceType
	} else if ih.Compression == biBitfields || ih.Size >= bmpInfoHeaderSize+16 {
		masks := make([]uint32, 3, 4)
		if ih.Size >= bmpInfoHeaderSize+16 {
			masks = masks[:4]
		}
		if err := binary.Read(r, binary.LittleEndian, masks); err != nil {
			return nil, fmt.Errorf("%w: reading BMP channel masks", ErrTruncated)
		}
		h.RedMask, h.GreenMask, h.BlueMask = masks[0], masks[1], masks[2]
		if len(masks) == 4 {
			h.AlphaMask = masks[3]
		}
	}

	switch h.BitCount {
	case 32:
		h.Format = pixel.B8G8R8A8UNorm
		if ih.Size >= bmpV5HeaderSize {
			if h.RedMask != bmpRedMask || h.GreenMask != bmpGreenMask ||
				h.BlueMask != bmpBlueMask || h.AlphaMask != bmpAlphaMask {
				return nil, fmt.Errorf("%w: expected BGRA, got R=%#08x G=%#08x B=%#08x A=%#08x",
					ErrColorMask, h.RedMask, h.GreenMask, h.BlueMask, h.AlphaMask)
			}
			if h.ColorSpace != lcsSRGB {
				return nil, fmt.Errorf("%w: color space %#08x is not sRGB", ErrColorMask, h.ColorSpace)
			}
		}
	case 24:
		h.Format = pixel.B8G8R8UNorm
	case 16:
		h.Format = pixel.B5G5R5A1UNorm
		if h.Compression == biBitfields && h.GreenMask == 0x07e0 {
			h.Format = pixel.B5G6R5UNorm
		}
	default:
		return nil, fmt.Errorf("%w: BMP bit count %d", ErrUnsupported, h.BitCount)
	}
	return h, nil
}

// DecodeBMP decodes a 16, 24 or 32-bit bitmap into an R8G8B8A8 image.
func DecodeBMP(data []byte) (*Image, error) {
	h, err := DecodeBMPHeader(data)
	if err != nil {
		return nil, err
	}

	stride := h.RowStride()
	end := int64(h.DataOffset) + int64(stride)*int64(h.Height)
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: BMP pixel data needs %d bytes, have %d", ErrTruncated, end, len(data))
	}

	img := NewImage(h.Width, h.Height, pixel.R8G8B8A8UNorm)
	src := data[h.DataOffset:end]

	// BI_RGB 32-bit files commonly leave the unused byte zero.
	forceOpaque := h.BitCount == 32 && h.AlphaMask == 0
	if forceOpaque {
		for y := 0; y < h.Height && forceOpaque; y++ {
			row := src[y*stride:]
			for x := 0; x < h.Width; x++ {
				if row[x*4+3] != 0 {
					forceOpaque = false
					break
				}
			}
		}
	}

	for y := 0; y < h.Height; y++ {
		in := src[y*stride : y*stride+stride]
		out := img.Buffer.Row(y)

		switch h.BitCount {
		case 32:
			flags := pixel.ScanlineNone
			if forceOpaque {
				flags = pixel.ScanlineSetAlpha
			}
			pixel.SwizzleScanline(out, in[:h.Width*4], h.Format, flags)
		case 24:
			for x := 0; x < h.Width; x++ {
				out[x*4] = in[x*3+2]
				out[x*4+1] = in[x*3+1]
				out[x*4+2] = in[x*3]
				out[x*4+3] = 0xff
			}
		case 16:
			decodeBMP16(out, in, h.Width, h.Format == pixel.B5G6R5UNorm)
		}
	}

	if !h.TopDown {
		if err := img.Buffer.Flip(pixel.FlipVertical); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func decodeBMP16(out, in []byte, width int, is565 bool) {
	for x := 0; x < width; x++ {
		t := uint32(binary.LittleEndian.Uint16(in[x*2:]))
		var r, g uint32
		if is565 {
			r = scale5(t >> 11)
			g = (t>>5&0x3f*255 + 31) / 63
		} else {
			r = scale5(t >> 10)
			g = scale5(t >> 5)
		}
		out[x*4] = byte(r)
		out[x*4+1] = byte(g)
		out[x*4+2] = byte(scale5(t))
		out[x*4+3] = 0xff
	}
}

// scale5 maps the low 5 bits of c onto 0..255, rounding to nearest.
func scale5(c uint32) uint32 {
	return ((c&0x1f)*255 + 15) / 31
}

// BMPOptions controls bitmap encoding.
type BMPOptions struct {
	// BitCount is 24 or 32. Zero picks 24 for three-channel sources and
	// 32 otherwise.
	BitCount int
}

// EncodeBMP writes img as a bottom-up bitmap. Four-channel sources are
// written as 32-bit BGRA with a 124-byte header carrying the channel
// masks, three-channel sources as 24-bit BGR with a 40-byte header.
func EncodeBMP(w io.Writer, img *Image) error {
	return EncodeBMPWithOptions(w, img, BMPOptions{})
}

// EncodeBMPWithOptions is EncodeBMP with an explicit output depth.
func EncodeBMPWithOptions(w io.Writer, img *Image, opts BMPOptions) error {
	src, err := bmpSource(img)
	if err != nil {
		return err
	}

	bits := opts.BitCount
	if bits == 0 {
		bits = 32
		if pixel.SizeOfInBits(src.Format()) == 24 {
			bits = 24
		}
	}
	if bits != 24 && bits != 32 {
		return fmt.Errorf("%w: BMP bit count %d", ErrUnsupported, bits)
	}

	width, height := src.Width(), src.Height()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: BMP dimensions %dx%d", ErrUnsupported, width, height)
	}
	stride := (width*bits + 31) / 32 * 4
	imageSize := int64(stride) * int64(height)

	infoSize := uint32(bmpInfoHeaderSize)
	compression := uint32(biRGB)
	if bits == 32 {
		infoSize = bmpV5HeaderSize
		compression = biBitfields
	}
	dataOffset := bmpFileHeaderSize + infoSize
	if int64(dataOffset)+imageSize > 0xffffffff {
		return fmt.Errorf("%w: %dx%d bitmap", ErrTooLarge, width, height)
	}

	fh := bmpFileHeader{
		Magic:      bmpMagic,
		FileSize:   dataOffset + uint32(imageSize),
		DataOffset: dataOffset,
	}
	ih := bmpInfoHeader{
		Size:        infoSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      1,
		BitCount:    uint16(bits),
		Compression: compression,
		SizeImage:   uint32(imageSize),
	}

	var buf bytes.Buffer
	buf.Grow(int(dataOffset) + int(imageSize))
	_ = binary.Write(&buf, binary.LittleEndian, &fh)
	_ = binary.Write(&buf, binary.LittleEndian, &ih)
	if bits == 32 {
		ch := bmpColorHeader{
			RedMask:        bmpRedMask,
			GreenMask:      bmpGreenMask,
			BlueMask:       bmpBlueMask,
			AlphaMask:      bmpAlphaMask,
			ColorSpaceType: lcsSRGB,
		}
		_ = binary.Write(&buf, binary.LittleEndian, &ch)
	}

	row := make([]byte, stride)
	for y := height - 1; y >= 0; y-- {
		in := src.Buffer.Row(y)
		writeBMPRow(row, in, src.Format(), width, bits)
		buf.Write(row)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// bmpSource returns an image whose format writeBMPRow understands,
// converting through NRGBA when needed.
func bmpSource(img *Image) (*Image, error) {
	switch img.Format() {
	case pixel.R8G8B8A8UNorm, pixel.R8G8B8A8UNormSRGB,
		pixel.B8G8R8A8UNorm, pixel.B8G8R8A8UNormSRGB,
		pixel.R8G8B8UNorm, pixel.B8G8R8UNorm, pixel.B8G8R8UNormSRGB:
		return img, nil
	}
	return Convert(img)
}

// writeBMPRow converts one source row into BGR or BGRA, leaving the
// padding bytes zero.
func writeBMPRow(row, in []byte, format pixel.Format, width, bits int) {
	var r, g, b, a byte
	for x := 0; x < width; x++ {
		switch format {
		case pixel.R8G8B8A8UNorm, pixel.R8G8B8A8UNormSRGB:
			p := in[x*4:]
			r, g, b, a = p[0], p[1], p[2], p[3]
		case pixel.B8G8R8A8UNorm, pixel.B8G8R8A8UNormSRGB:
			p := in[x*4:]
			r, g, b, a = p[2], p[1], p[0], p[3]
		case pixel.R8G8B8UNorm:
			p := in[x*3:]
			r, g, b, a = p[0], p[1], p[2], 0xff
		default:
			p := in[x*3:]
			r, g, b, a = p[2], p[1], p[0], 0xff
		}
		if bits == 32 {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = b, g, r, a
		} else {
			row[x*3], row[x*3+1], row[x*3+2] = b, g, r
		}
	}
}
