package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

const tgaHeaderSize = 18

// TGAImageType is the image type field of a TGA header.
type TGAImageType uint8

const (
	TGANoImage          TGAImageType = 0
	TGAColorMapped      TGAImageType = 1
	TGATrueColor        TGAImageType = 2
	TGABlackAndWhite    TGAImageType = 3
	TGAColorMappedRLE   TGAImageType = 9
	TGATrueColorRLE     TGAImageType = 10
	TGABlackAndWhiteRLE TGAImageType = 11
)

// Descriptor bits.
const (
	tgaInvertX      = 0x10
	tgaInvertY      = 0x20
	tgaInterleaved2 = 0x40
	tgaInterleaved4 = 0x80
)

// TGAFlags describe how stored pixels are converted.
type TGAFlags uint8

const (
	// TGAExpand widens 24-bit BGR to 32-bit RGBA.
	TGAExpand TGAFlags = 1 << iota
	// TGAInvertX means rows are stored right to left.
	TGAInvertX
	// TGAInvertY means rows are stored top to bottom.
	TGAInvertY
	TGARLE
	TGASwizzle
	// TGAFormat888 means rows are stored 3 bytes per pixel.
	TGAFormat888
)

// TGAHeader is the 18-byte TGA file header.
type TGAHeader struct {
	IDLength       uint8
	ColorMapType   uint8
	ImageType      uint8
	ColorMapFirst  uint16
	ColorMapLength uint16
	ColorMapSize   uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	BitsPerPixel   uint8
	Descriptor     uint8
}

// TGAInfo is a validated TGA header with the decoded layout.
type TGAInfo struct {
	Header      TGAHeader
	Description pixel.ImageDescription
	Flags       TGAFlags
	// Offset is where pixel data starts, past the ID field.
	Offset int
}

// DecodeTGAHeader parses and validates a TGA header. TGA has no magic,
// so headers that cannot be TGA report ErrUnrecognized.
func DecodeTGAHeader(data []byte) (*TGAInfo, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: TGA header", ErrTruncated)
	}

	var h TGAHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: reading TGA header", ErrTruncated)
	}

	imageType := TGAImageType(h.ImageType)
	switch imageType {
	case TGATrueColor, TGATrueColorRLE, TGABlackAndWhite, TGABlackAndWhiteRLE:
	case TGAColorMapped, TGAColorMappedRLE:
		if h.ColorMapType != 1 {
			return nil, fmt.Errorf("%w: color-mapped TGA without a color map", ErrUnrecognized)
		}
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: TGA image type %d", ErrUnrecognized, h.ImageType)
	}
	if h.ColorMapType > 1 {
		return nil, fmt.Errorf("%w: TGA color map type %d", ErrUnrecognized, h.ColorMapType)
	}
	if h.ColorMapType != 0 || h.ColorMapLength != 0 {
		return nil, fmt.Errorf("%w: TGA with color map", ErrUnsupported)
	}
	if h.Descriptor&(tgaInterleaved2|tgaInterleaved4) != 0 {
		return nil, fmt.Errorf("%w: interleaved TGA", ErrUnrecognized)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: TGA dimensions %dx%d", ErrUnrecognized, h.Width, h.Height)
	}

	var (
		format pixel.Format
		flags  TGAFlags
	)
	switch imageType {
	case TGATrueColor, TGATrueColorRLE:
		switch h.BitsPerPixel {
		case 16:
			format = pixel.B5G5R5A1UNorm
		case 24:
			format = pixel.R8G8B8A8UNorm
			flags |= TGAExpand
		case 32:
			format = pixel.R8G8B8A8UNorm
		default:
			return nil, fmt.Errorf("%w: TGA true-color depth %d", ErrUnsupported, h.BitsPerPixel)
		}
	default:
		if h.BitsPerPixel != 8 {
			return nil, fmt.Errorf("%w: TGA grayscale depth %d", ErrUnsupported, h.BitsPerPixel)
		}
		format = pixel.R8UNorm
	}
	if imageType == TGATrueColorRLE || imageType == TGABlackAndWhiteRLE {
		flags |= TGARLE
	}
	if h.Descriptor&tgaInvertX != 0 {
		flags |= TGAInvertX
	}
	if h.Descriptor&tgaInvertY != 0 {
		flags |= TGAInvertY
	}

	return &TGAInfo{
		Header:      h,
		Description: pixel.Describe2D(int(h.Width), int(h.Height), format),
		Flags:       flags,
		Offset:      tgaHeaderSize + int(h.IDLength),
	}, nil
}

// DecodeTGA decodes an uncompressed or RLE TGA. True-color images come
// back as R8G8B8A8 (or B5G5R5A1 for 16-bit), grayscale as R8.
func DecodeTGA(data []byte) (*Image, error) {
	info, err := DecodeTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if info.Offset > len(data) {
		return nil, fmt.Errorf("%w: TGA ID field", ErrTruncated)
	}

	desc := info.Description
	if err := checkTGAPayload(info, len(data)-info.Offset); err != nil {
		return nil, err
	}
	img := NewImage(desc.Width, desc.Height, desc.Format)
	d := &tgaDecoder{
		src:   data[info.Offset:],
		img:   img,
		flags: info.Flags,
	}
	d.setup(int(info.Header.BitsPerPixel))

	if info.Flags&TGARLE != 0 {
		err = d.decodeRLE()
	} else {
		err = d.decodeRaw()
	}
	if err != nil {
		return nil, err
	}

	// Writers that leave alpha zero-filled mean opaque.
	if d.hasAlpha && !d.nonzeroAlpha {
		for y := 0; y < desc.Height; y++ {
			row := img.Buffer.Row(y)
			pixel.CopyScanline(row, row, desc.Format, pixel.ScanlineSetAlpha)
		}
	}
	return img, nil
}

// checkTGAPayload rejects headers whose pixel count the payload cannot
// possibly cover, before the output is allocated. An RLE packet is at least
// two bytes and yields at most 128 pixels.
func checkTGAPayload(info *TGAInfo, payload int) error {
	pixels := int64(info.Description.Width) * int64(info.Description.Height)
	if info.Flags&TGARLE != 0 {
		if pixels > 128*int64(payload) {
			return fmt.Errorf("%w: %d pixels from %d RLE bytes", ErrUnexpectedEnd, pixels, payload)
		}
		return nil
	}
	need := pixels * int64(info.Header.BitsPerPixel/8)
	if need > int64(payload) {
		return fmt.Errorf("%w: TGA needs %d pixel bytes, has %d", ErrUnexpectedEnd, need, payload)
	}
	return nil
}

type tgaDecoder struct {
	src   []byte
	pos   int
	img   *Image
	flags TGAFlags

	srcSize  int
	dstSize  int
	hasAlpha bool
	convert  func(dst, src []byte) (alpha bool)

	nonzeroAlpha bool
}

func (d *tgaDecoder) setup(bits int) {
	d.srcSize = bits / 8
	d.dstSize = d.img.Buffer.PixelSize()
	switch bits {
	case 8:
		d.convert = func(dst, src []byte) bool {
			dst[0] = src[0]
			return false
		}
	case 16:
		d.hasAlpha = true
		d.convert = func(dst, src []byte) bool {
			dst[0], dst[1] = src[0], src[1]
			return src[1]&0x80 != 0
		}
	case 24:
		d.convert = func(dst, src []byte) bool {
			dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], 0xff
			return true
		}
	case 32:
		d.hasAlpha = true
		d.convert = func(dst, src []byte) bool {
			dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], src[3]
			return src[3] != 0
		}
	}
}

// target returns the destination bytes of the x-th stored pixel of the
// y-th stored row.
func (d *tgaDecoder) target(x, y int) []byte {
	w, h := d.img.Width(), d.img.Height()
	if d.flags&TGAInvertY == 0 {
		y = h - 1 - y
	}
	if d.flags&TGAInvertX != 0 {
		x = w - 1 - x
	}
	return d.img.Buffer.Row(y)[x*d.dstSize : (x+1)*d.dstSize]
}

func (d *tgaDecoder) next() ([]byte, error) {
	if d.pos+d.srcSize > len(d.src) {
		return nil, fmt.Errorf("%w: TGA pixel at offset %d", ErrUnexpectedEnd, d.pos)
	}
	p := d.src[d.pos : d.pos+d.srcSize]
	d.pos += d.srcSize
	return p, nil
}

func (d *tgaDecoder) put(x, y int, src []byte) {
	if d.convert(d.target(x, y), src) {
		d.nonzeroAlpha = true
	}
}

func (d *tgaDecoder) decodeRaw() error {
	w, h := d.img.Width(), d.img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p, err := d.next()
			if err != nil {
				return err
			}
			d.put(x, y, p)
		}
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	w, h := d.img.Width(), d.img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			if d.pos >= len(d.src) {
				return fmt.Errorf("%w: TGA packet header at offset %d", ErrUnexpectedEnd, d.pos)
			}
			packet := d.src[d.pos]
			d.pos++

			count := int(packet&0x7f) + 1
			if x+count > w {
				return fmt.Errorf("%w: TGA packet of %d pixels crosses row %d", ErrUnexpectedEnd, count, y)
			}

			if packet&0x80 != 0 {
				p, err := d.next()
				if err != nil {
					return err
				}
				for ; count > 0; count-- {
					d.put(x, y, p)
					x++
				}
				continue
			}

			for ; count > 0; count-- {
				p, err := d.next()
				if err != nil {
					return err
				}
				d.put(x, y, p)
				x++
			}
		}
	}
	return nil
}

// TGAOptions controls TGA encoding.
type TGAOptions struct {
	// RLE writes run-length encoded packets.
	RLE bool
}

// EncodeTGA writes img as an uncompressed top-down TGA.
func EncodeTGA(w io.Writer, img *Image) error {
	return EncodeTGAWithOptions(w, img, TGAOptions{})
}

// EncodeTGAWithOptions writes img as a top-down TGA. R8G8B8A8 and B8G8R8A8
// are stored as 32-bit BGRA, R8G8B8 and B8G8R8 as 24-bit BGR, R8 as
// grayscale and B5G5R5A1 as 16-bit. Other formats are converted to
// R8G8B8A8 first.
func EncodeTGAWithOptions(w io.Writer, img *Image, opts TGAOptions) error {
	h, flags, err := encodeTGAHeader(img.Description)
	if err != nil {
		converted, cerr := Convert(img)
		if cerr != nil {
			return err
		}
		img = converted
		if h, flags, err = encodeTGAHeader(img.Description); err != nil {
			return err
		}
	}
	if opts.RLE {
		h.ImageType += 8
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, &h)

	format := img.Format()
	rowPitch := img.Width() * pixel.SizeOfInBytes(format)
	if flags&TGAFormat888 != 0 {
		rowPitch = img.Width() * 3
	}
	row := make([]byte, rowPitch)

	for y := 0; y < img.Height(); y++ {
		in := img.Buffer.Row(y)[:rowPitch]
		if flags&TGASwizzle != 0 {
			pixel.SwizzleScanline(row, in, format, pixel.ScanlineNone)
		} else {
			pixel.CopyScanline(row, in, format, pixel.ScanlineNone)
		}
		if opts.RLE {
			writeTGARLE(&buf, row, int(h.BitsPerPixel)/8)
		} else {
			buf.Write(row)
		}
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func encodeTGAHeader(desc pixel.ImageDescription) (TGAHeader, TGAFlags, error) {
	var (
		h     TGAHeader
		flags TGAFlags
	)
	if desc.Width > 0xffff || desc.Height > 0xffff {
		return h, 0, fmt.Errorf("%w: %dx%d TGA", ErrTooLarge, desc.Width, desc.Height)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return h, 0, fmt.Errorf("%w: TGA dimensions %dx%d", ErrUnsupported, desc.Width, desc.Height)
	}
	h.Width = uint16(desc.Width)
	h.Height = uint16(desc.Height)
	h.ImageType = uint8(TGATrueColor)

	switch desc.Format {
	case pixel.R8G8B8A8UNorm, pixel.R8G8B8A8UNormSRGB:
		h.BitsPerPixel = 32
		h.Descriptor = tgaInvertY | 8
		flags |= TGASwizzle
	case pixel.B8G8R8A8UNorm, pixel.B8G8R8A8UNormSRGB:
		h.BitsPerPixel = 32
		h.Descriptor = tgaInvertY | 8
	case pixel.R8G8B8UNorm:
		h.BitsPerPixel = 24
		h.Descriptor = tgaInvertY
		flags |= TGAFormat888 | TGASwizzle
	case pixel.B8G8R8UNorm, pixel.B8G8R8UNormSRGB:
		h.BitsPerPixel = 24
		h.Descriptor = tgaInvertY
		flags |= TGAFormat888
	case pixel.R8UNorm:
		h.ImageType = uint8(TGABlackAndWhite)
		h.BitsPerPixel = 8
		h.Descriptor = tgaInvertY
	case pixel.B5G5R5A1UNorm:
		h.BitsPerPixel = 16
		h.Descriptor = tgaInvertY | 1
	default:
		return h, 0, fmt.Errorf("%w: cannot store %s in TGA", ErrUnsupported, desc.Format)
	}
	return h, flags, nil
}

// writeTGARLE packs one row into run and raw packets of at most 128 pixels.
func writeTGARLE(buf *bytes.Buffer, row []byte, size int) {
	n := len(row) / size
	at := func(i int) []byte { return row[i*size : (i+1)*size] }

	for i := 0; i < n; {
		run := 1
		for i+run < n && run < 128 && bytes.Equal(at(i), at(i+run)) {
			run++
		}
		if run > 1 {
			buf.WriteByte(0x80 | byte(run-1))
			buf.Write(at(i))
			i += run
			continue
		}

		raw := 1
		for i+raw < n && raw < 128 {
			if i+raw+1 < n && bytes.Equal(at(i+raw), at(i+raw+1)) {
				break
			}
			raw++
		}
		buf.WriteByte(byte(raw - 1))
		buf.Write(row[i*size : (i+raw)*size])
		i += raw
	}
}
