package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
	"io"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

const (
	icoDirSize   = 6
	icoEntrySize = 16
	icoMaxSize   = 256

	icoTypeIcon   = 1
	icoTypeCursor = 2
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ICOEntry is one 16-byte icon directory entry.
type ICOEntry struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// Size returns the entry dimensions; a stored 0 means 256.
func (e ICOEntry) Size() (width, height int) {
	width, height = int(e.Width), int(e.Height)
	if width == 0 {
		width = icoMaxSize
	}
	if height == 0 {
		height = icoMaxSize
	}
	return width, height
}

// ICODir is the icon directory at the start of an ICO or CUR file.
type ICODir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
	Entries  []ICOEntry
}

// DecodeICOHeader parses the icon directory and its entries.
func DecodeICOHeader(data []byte) (*ICODir, error) {
	if len(data) < icoDirSize {
		return nil, fmt.Errorf("%w: ICO directory", ErrTruncated)
	}

	r := bytes.NewReader(data)
	var dir ICODir
	if err := binary.Read(r, binary.LittleEndian, &dir.Reserved); err != nil {
		return nil, fmt.Errorf("%w: reading ICO directory", ErrTruncated)
	}
	_ = binary.Read(r, binary.LittleEndian, &dir.Type)
	_ = binary.Read(r, binary.LittleEndian, &dir.Count)

	if dir.Reserved != 0 || (dir.Type != icoTypeIcon && dir.Type != icoTypeCursor) {
		return nil, fmt.Errorf("%w: ICO reserved=%d type=%d", ErrUnrecognized, dir.Reserved, dir.Type)
	}
	if dir.Count == 0 {
		return nil, fmt.Errorf("%w: ICO without images", ErrUnrecognized)
	}

	dir.Entries = make([]ICOEntry, dir.Count)
	if err := binary.Read(r, binary.LittleEndian, dir.Entries); err != nil {
		return nil, fmt.Errorf("%w: reading %d ICO entries", ErrTruncated, dir.Count)
	}
	return &dir, nil
}

// SelectBestImage returns the index of the entry with the largest area,
// preferring the higher bit count and then the earlier entry. It returns
// -1 for no entries.
func SelectBestImage(entries []ICOEntry) int {
	best := -1
	bestArea, bestBits := 0, 0
	for i, e := range entries {
		w, h := e.Size()
		area, bits := w*h, int(e.BitCount)
		if best < 0 || area > bestArea || (area == bestArea && bits > bestBits) {
			best, bestArea, bestBits = i, area, bits
		}
	}
	return best
}

// DecodeICO decodes the best image of an icon file into R8G8B8A8.
func DecodeICO(data []byte) (*Image, error) {
	dir, err := DecodeICOHeader(data)
	if err != nil {
		return nil, err
	}
	return DecodeICOEntry(data, dir.Entries[SelectBestImage(dir.Entries)])
}

// DecodeICOAll decodes every image of an icon file in directory order.
func DecodeICOAll(data []byte) ([]*Image, error) {
	dir, err := DecodeICOHeader(data)
	if err != nil {
		return nil, err
	}
	images := make([]*Image, 0, len(dir.Entries))
	for i, e := range dir.Entries {
		img, err := DecodeICOEntry(data, e)
		if err != nil {
			return nil, fmt.Errorf("ICO entry %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// DecodeICOEntry decodes the image an entry points at. Entries hold either
// a PNG stream or a headerless bitmap followed by a 1-bit AND mask.
func DecodeICOEntry(data []byte, e ICOEntry) (*Image, error) {
	start, end := int64(e.ImageOffset), int64(e.ImageOffset)+int64(e.BytesInRes)
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: ICO image at %d+%d", ErrTruncated, e.ImageOffset, e.BytesInRes)
	}
	res := data[start:end]

	if bytes.HasPrefix(res, pngSignature) {
		m, err := png.Decode(bytes.NewReader(res))
		if err != nil {
			return nil, fmt.Errorf("%w: ICO PNG entry: %v", ErrUnsupported, err)
		}
		return FromImage(m), nil
	}
	return decodeICODIB(res, e)
}

func decodeICODIB(res []byte, e ICOEntry) (*Image, error) {
	var ih bmpInfoHeader
	if err := binary.Read(bytes.NewReader(res), binary.LittleEndian, &ih); err != nil {
		return nil, fmt.Errorf("%w: reading ICO bitmap header", ErrTruncated)
	}
	if ih.Size < bmpInfoHeaderSize || int64(ih.Size) > int64(len(res)) {
		return nil, fmt.Errorf("%w: ICO bitmap header of %d bytes", ErrUnsupported, ih.Size)
	}
	if ih.Compression != biRGB {
		return nil, fmt.Errorf("%w: ICO bitmap compression %d", ErrUnsupported, ih.Compression)
	}

	_, entryHeight := e.Size()
	width, height := int(ih.Width), int(ih.Height)
	hasMask := false
	if height == 2*entryHeight || height == 2*width {
		height /= 2
		hasMask = true
	}
	if width <= 0 || height <= 0 || width > icoMaxSize || height > icoMaxSize {
		return nil, fmt.Errorf("%w: ICO bitmap %dx%d", ErrUnsupported, ih.Width, ih.Height)
	}

	bits := int(ih.BitCount)
	pos := int(ih.Size)

	var palette [][4]byte
	switch bits {
	case 1, 4, 8:
		colors := int(ih.ColorsUsed)
		if colors == 0 || colors > 1<<bits {
			colors = 1 << bits
		}
		if pos+colors*4 > len(res) {
			return nil, fmt.Errorf("%w: ICO palette", ErrTruncated)
		}
		palette = make([][4]byte, colors)
		for i := range palette {
			p := res[pos+i*4:]
			palette[i] = [4]byte{p[2], p[1], p[0], 0xff}
		}
		pos += colors * 4
	case 24, 32:
	default:
		return nil, fmt.Errorf("%w: ICO bit count %d", ErrUnsupported, bits)
	}

	stride := (width*bits + 31) / 32 * 4
	if pos+stride*height > len(res) {
		return nil, fmt.Errorf("%w: ICO pixel data", ErrTruncated)
	}
	xor := res[pos : pos+stride*height]
	pos += stride * height

	img := NewImage(width, height, pixel.R8G8B8A8UNorm)
	for y := 0; y < height; y++ {
		in := xor[y*stride:]
		out := img.Buffer.Row(height - 1 - y)
		for x := 0; x < width; x++ {
			px := out[x*4 : x*4+4]
			switch bits {
			case 32:
				px[0], px[1], px[2], px[3] = in[x*4+2], in[x*4+1], in[x*4], in[x*4+3]
			case 24:
				px[0], px[1], px[2], px[3] = in[x*3+2], in[x*3+1], in[x*3], 0xff
			default:
				copy(px, paletteColor(palette, paletteIndex(in, x, bits)))
			}
		}
	}

	// Legacy 32-bit icons leave alpha zero and rely on the mask.
	if bits == 32 && allAlphaZero(img) {
		for y := 0; y < height; y++ {
			row := img.Buffer.Row(y)
			pixel.CopyScanline(row, row, img.Format(), pixel.ScanlineSetAlpha)
		}
	}

	maskStride := (width + 31) / 32 * 4
	if hasMask {
		if pos+maskStride*height > len(res) {
			return nil, fmt.Errorf("%w: ICO AND mask", ErrTruncated)
		}
		mask := res[pos : pos+maskStride*height]
		for y := 0; y < height; y++ {
			in := mask[y*maskStride:]
			out := img.Buffer.Row(height - 1 - y)
			for x := 0; x < width; x++ {
				if in[x>>3]&(0x80>>(x&7)) != 0 {
					out[x*4+3] = 0
				}
			}
		}
	}
	return img, nil
}

func paletteIndex(row []byte, x, bits int) int {
	switch bits {
	case 8:
		return int(row[x])
	case 4:
		b := row[x>>1]
		if x&1 == 0 {
			return int(b >> 4)
		}
		return int(b & 0x0f)
	default:
		return int(row[x>>3]>>(7-x&7)) & 1
	}
}

func paletteColor(palette [][4]byte, i int) []byte {
	if i >= len(palette) {
		return []byte{0, 0, 0, 0xff}
	}
	return palette[i][:]
}

func allAlphaZero(img *Image) bool {
	for y := 0; y < img.Height(); y++ {
		row := img.Buffer.Row(y)
		for x := 0; x < img.Width(); x++ {
			if row[x*4+3] != 0 {
				return false
			}
		}
	}
	return true
}

// EncodeICO writes the images as a multi-resolution icon. Every entry is
// stored as a 32-bit BGRA bitmap with an AND mask marking transparent
// pixels.
func EncodeICO(w io.Writer, images ...*Image) error {
	if len(images) == 0 || len(images) > 0xffff {
		return fmt.Errorf("%w: ICO with %d images", ErrUnsupported, len(images))
	}

	bitmaps := make([][]byte, len(images))
	entries := make([]ICOEntry, len(images))
	offset := icoDirSize + icoEntrySize*len(images)
	for i, img := range images {
		if img.Width() > icoMaxSize || img.Height() > icoMaxSize {
			return fmt.Errorf("%w: %dx%d icon", ErrTooLarge, img.Width(), img.Height())
		}
		if img.Width() <= 0 || img.Height() <= 0 {
			return fmt.Errorf("%w: ICO image %dx%d", ErrUnsupported, img.Width(), img.Height())
		}
		rgba, err := Convert(img)
		if err != nil {
			return err
		}
		bitmaps[i] = encodeICODIB(rgba)
		entries[i] = ICOEntry{
			Width:       uint8(rgba.Width() % icoMaxSize),
			Height:      uint8(rgba.Height() % icoMaxSize),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(bitmaps[i])),
			ImageOffset: uint32(offset),
		}
		offset += len(bitmaps[i])
	}

	var buf bytes.Buffer
	buf.Grow(offset)
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, icoTypeIcon, uint16(len(images))})
	_ = binary.Write(&buf, binary.LittleEndian, entries)
	for _, b := range bitmaps {
		buf.Write(b)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeICODIB(img *Image) []byte {
	width, height := img.Width(), img.Height()
	maskStride := (width + 31) / 32 * 4
	xorSize := width * height * 4

	ih := bmpInfoHeader{
		Size:      bmpInfoHeaderSize,
		Width:     int32(width),
		Height:    int32(height * 2),
		Planes:    1,
		BitCount:  32,
		SizeImage: uint32(xorSize + maskStride*height),
	}

	var buf bytes.Buffer
	buf.Grow(bmpInfoHeaderSize + int(ih.SizeImage))
	_ = binary.Write(&buf, binary.LittleEndian, &ih)

	row := make([]byte, width*4)
	for y := height - 1; y >= 0; y-- {
		pixel.SwizzleScanline(row, img.Buffer.Row(y)[:width*4], img.Format(), pixel.ScanlineNone)
		buf.Write(row)
	}

	mask := make([]byte, maskStride)
	for y := height - 1; y >= 0; y-- {
		clear(mask)
		in := img.Buffer.Row(y)
		for x := 0; x < width; x++ {
			if in[x*4+3] == 0 {
				mask[x>>3] |= 0x80 >> (x & 7)
			}
		}
		buf.Write(mask)
	}
	return buf.Bytes()
}
