package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

// icoFile wraps a single resource in an icon directory.
func icoFile(e ICOEntry, res []byte) []byte {
	e.BytesInRes = uint32(len(res))
	e.ImageOffset = icoDirSize + icoEntrySize
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, icoTypeIcon, 1})
	_ = binary.Write(&buf, binary.LittleEndian, &e)
	buf.Write(res)
	return buf.Bytes()
}

func dib(width, height int32, bits uint16, colors uint32, rest ...byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, bmpInfoHeader{
		Size:       bmpInfoHeaderSize,
		Width:      width,
		Height:     height,
		Planes:     1,
		BitCount:   bits,
		ColorsUsed: colors,
	})
	buf.Write(rest)
	return buf.Bytes()
}

func TestDecodeICO4Bit(t *testing.T) {
	res := dib(2, 4, 4, 4,
		// BGR0 palette: blue, green, red, white.
		0xFF, 0x00, 0x00, 0x00,
		0x00, 0xFF, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00,
		0xFF, 0xFF, 0xFF, 0x00,
		// XOR rows, bottom first, padded to 4 bytes.
		0x01, 0, 0, 0,
		0x23, 0, 0, 0,
		// AND mask rows, all opaque.
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	img, err := DecodeICO(icoFile(ICOEntry{Width: 2, Height: 2, BitCount: 4}, res))
	if err != nil {
		t.Fatalf("DecodeICO: %v", err)
	}
	if img.Width() != 2 || img.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", img.Width(), img.Height())
	}
	want := []byte{
		255, 0, 0, 255, 255, 255, 255, 255, // red, white
		0, 0, 255, 255, 0, 255, 0, 255, // blue, green
	}
	if diff := cmp.Diff(want, img.Pix()); diff != "" {
		t.Errorf("pixels (-want +got):\n%s", diff)
	}
}

func TestDecodeICOMask(t *testing.T) {
	tests := []struct {
		name string
		res  []byte
		want []byte
	}{
		{
			name: "1-bit",
			res: dib(2, 2, 1, 0,
				0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0,
				0x40, 0, 0, 0,
				0x80, 0, 0, 0,
			),
			want: []byte{0, 0, 0, 0, 255, 255, 255, 255},
		},
		{
			name: "24-bit padded",
			res: dib(1, 2, 24, 0,
				10, 20, 30, 0,
				0x80, 0, 0, 0,
			),
			want: []byte{30, 20, 10, 0},
		},
		{
			name: "32-bit alpha",
			res: dib(2, 2, 32, 0,
				1, 2, 3, 200, 4, 5, 6, 255,
				0x40, 0, 0, 0,
			),
			want: []byte{3, 2, 1, 200, 6, 5, 4, 0},
		},
		{
			name: "32-bit legacy zero alpha",
			res: dib(2, 2, 32, 0,
				1, 2, 3, 0, 4, 5, 6, 0,
				0x80, 0, 0, 0,
			),
			want: []byte{3, 2, 1, 0, 6, 5, 4, 255},
		},
		{
			name: "8-bit without mask",
			res: dib(1, 1, 8, 2,
				0, 0, 0, 0, 9, 8, 7, 0,
				1, 0, 0, 0,
			),
			want: []byte{7, 8, 9, 255},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeICO(icoFile(ICOEntry{Width: 1, Height: 1}, tt.res))
			if err != nil {
				t.Fatalf("DecodeICO: %v", err)
			}
			if diff := cmp.Diff(tt.want, img.Pix()); diff != "" {
				t.Errorf("pixels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectBestImage(t *testing.T) {
	tests := []struct {
		name    string
		entries []ICOEntry
		want    int
	}{
		{"empty", nil, -1},
		{"single", []ICOEntry{{Width: 16, Height: 16}}, 0},
		{"largest", []ICOEntry{{Width: 16, Height: 16}, {Width: 48, Height: 48}, {Width: 32, Height: 32}}, 1},
		{"zero means 256", []ICOEntry{{Width: 255, Height: 255}, {Width: 0, Height: 0}}, 1},
		{"deeper wins tie", []ICOEntry{{Width: 32, Height: 32, BitCount: 8}, {Width: 32, Height: 32, BitCount: 32}}, 1},
		{"first wins full tie", []ICOEntry{{Width: 32, Height: 32, BitCount: 32}, {Width: 32, Height: 32, BitCount: 32}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectBestImage(tt.entries); got != tt.want {
				t.Errorf("SelectBestImage = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestICORoundTrip(t *testing.T) {
	small := randomImage(t, 16, 16, pixel.R8G8B8A8UNorm, 20)
	odd := randomImage(t, 13, 19, pixel.R8G8B8A8UNorm, 21)
	// Fully transparent pixels must survive through the AND mask.
	small.Pix()[3] = 0
	odd.Pix()[7] = 0
	bgra := randomImage(t, 256, 2, pixel.B8G8R8A8UNorm, 22)
	for i := 3; i < len(bgra.Pix()); i += 4 {
		bgra.Pix()[i] |= 1
	}

	var buf bytes.Buffer
	if err := EncodeICO(&buf, small, odd, bgra); err != nil {
		t.Fatalf("EncodeICO: %v", err)
	}

	dir, err := DecodeICOHeader(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeICOHeader: %v", err)
	}
	if len(dir.Entries) != 3 || dir.Entries[2].Width != 0 {
		t.Fatalf("entries = %+v", dir.Entries)
	}

	all, err := DecodeICOAll(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeICOAll: %v", err)
	}
	for i, src := range []*Image{small, odd} {
		if diff := cmp.Diff(src.Pix(), all[i].Pix()); diff != "" {
			t.Errorf("image %d (-want +got):\n%s", i, diff)
		}
	}

	best, err := DecodeICO(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeICO: %v", err)
	}
	want, err := Convert(bgra)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if diff := cmp.Diff(want.Pix(), best.Pix()); diff != "" {
		t.Errorf("best image (-want +got):\n%s", diff)
	}
}

func TestDecodeICOPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 40})

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	img, err := DecodeICO(icoFile(ICOEntry{Width: 3, Height: 2, BitCount: 32}, pngData.Bytes()))
	if err != nil {
		t.Fatalf("DecodeICO: %v", err)
	}
	if diff := cmp.Diff(src.Pix, img.Pix()); diff != "" {
		t.Errorf("pixels (-want +got):\n%s", diff)
	}
}

func TestDecodeICOErrors(t *testing.T) {
	valid := icoFile(ICOEntry{Width: 1, Height: 1}, dib(1, 2, 32, 0, 1, 2, 3, 4, 0, 0, 0, 0))

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{0, 0, 1}, ErrTruncated},
		{"reserved", []byte{1, 0, 1, 0, 1, 0}, ErrUnrecognized},
		{"bad type", []byte{0, 0, 3, 0, 1, 0}, ErrUnrecognized},
		{"no images", []byte{0, 0, 1, 0, 0, 0}, ErrUnrecognized},
		{"missing entries", []byte{0, 0, 1, 0, 2, 0, 16, 16}, ErrTruncated},
		{"resource past end", valid[:len(valid)-2], ErrTruncated},
		{"mask cut off", icoFile(ICOEntry{Width: 1, Height: 1}, dib(1, 2, 32, 0, 1, 2, 3, 4)), ErrTruncated},
		{"bit count", icoFile(ICOEntry{Width: 1, Height: 1}, dib(1, 1, 16, 0, 0, 0, 0, 0)), ErrUnsupported},
		{"too large", icoFile(ICOEntry{}, dib(512, 512, 32, 0)), ErrUnsupported},
		{"corrupt png", icoFile(ICOEntry{}, append(append([]byte(nil), pngSignature...), 1, 2, 3)), ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeICO(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeICO error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeICOLimits(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeICO(&buf); !errors.Is(err, ErrUnsupported) {
		t.Errorf("no images: error = %v", err)
	}
	if err := EncodeICO(&buf, NewImage(257, 1, pixel.R8G8B8A8UNorm)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("257 wide: error = %v", err)
	}
}
