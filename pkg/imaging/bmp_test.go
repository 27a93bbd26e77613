package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	xbmp "golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

func randomImage(t *testing.T, w, h int, format pixel.Format, seed int64) *Image {
	t.Helper()
	img := NewImage(w, h, format)
	rand.New(rand.NewSource(seed)).Read(img.Pix())
	return img
}

func encodeBMP(t *testing.T, img *Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	return buf.Bytes()
}

func TestBMPRoundTrip(t *testing.T) {
	src := randomImage(t, 32, 16, pixel.B8G8R8A8UNorm, 1)
	first := encodeBMP(t, src)

	if got := len(first); got != bmpFileHeaderSize+bmpV5HeaderSize+32*16*4 {
		t.Fatalf("file size = %d", got)
	}

	img, err := DecodeBMP(first)
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	if img.Format() != pixel.R8G8B8A8UNorm {
		t.Fatalf("format = %s, want R8G8B8A8_UNORM", img.Format())
	}
	for _, p := range [][2]int{{0, 0}, {31, 0}, {5, 9}, {31, 15}} {
		x, y := p[0], p[1]
		s := src.Buffer.Pixel(x, y)
		want := []byte{s[2], s[1], s[0], s[3]}
		if diff := cmp.Diff(want, img.Buffer.Pixel(x, y)[:4]); diff != "" {
			t.Errorf("pixel (%d,%d) mismatch (-want +got):\n%s", x, y, diff)
		}
	}

	second := encodeBMP(t, img)
	if !bytes.Equal(first, second) {
		t.Fatalf("re-encoded file differs from the original")
	}

	again, err := DecodeBMP(second)
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	if diff := cmp.Diff(img.Pix(), again.Pix()); diff != "" {
		t.Errorf("pixels differ after second decode (-first +second):\n%s", diff)
	}
}

func TestEncodeBMPKeepsSource(t *testing.T) {
	src := randomImage(t, 7, 3, pixel.R8G8B8A8UNorm, 2)
	before := append([]byte(nil), src.Pix()...)
	encodeBMP(t, src)
	if diff := cmp.Diff(before, src.Pix()); diff != "" {
		t.Errorf("EncodeBMP modified its input:\n%s", diff)
	}
}

func TestDecodeBMPFromXImage(t *testing.T) {
	// Width 5 forces 1 byte of row padding at 24 bits per pixel.
	src := image.NewRGBA(image.Rect(0, 0, 5, 3))
	rng := rand.New(rand.NewSource(3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0xff})
		}
	}

	var buf bytes.Buffer
	if err := xbmp.Encode(&buf, src); err != nil {
		t.Fatalf("x/image/bmp Encode: %v", err)
	}

	h, err := DecodeBMPHeader(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBMPHeader: %v", err)
	}
	if h.BitCount != 24 || h.Format != pixel.B8G8R8UNorm || h.RowStride() != 16 {
		t.Errorf("header = %d bits, %s, stride %d", h.BitCount, h.Format, h.RowStride())
	}

	img, err := DecodeBMP(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	if diff := cmp.Diff(src.Pix, img.Pix()); diff != "" {
		t.Errorf("pixels differ (-x/image +ours):\n%s", diff)
	}
}

func TestEncodeBMP24ReadableByXImage(t *testing.T) {
	img := NewImage(3, 2, pixel.R8G8B8UNorm)
	copy(img.Pix(), []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		10, 20, 30, 40, 50, 60, 70, 80, 90,
	})

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[14:]); got != bmpInfoHeaderSize {
		t.Errorf("info header size = %d, want 40", got)
	}

	m, err := xbmp.Decode(&buf)
	if err != nil {
		t.Fatalf("x/image/bmp Decode: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			p := img.Buffer.Pixel(x, y)
			want := color.NRGBA{p[0], p[1], p[2], 0xff}
			if got := color.NRGBAModel.Convert(m.At(x, y)); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// bmpFile builds a bitmap with a plain 40-byte info header.
func bmpFile(width, height int32, bits uint16, compression uint32, extra, pixels []byte) []byte {
	offset := uint32(bmpFileHeaderSize + bmpInfoHeaderSize + len(extra))
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, bmpFileHeader{
		Magic:      bmpMagic,
		FileSize:   offset + uint32(len(pixels)),
		DataOffset: offset,
	})
	_ = binary.Write(&buf, binary.LittleEndian, bmpInfoHeader{
		Size:        bmpInfoHeaderSize,
		Width:       width,
		Height:      height,
		Planes:      1,
		BitCount:    bits,
		Compression: compression,
	})
	buf.Write(extra)
	buf.Write(pixels)
	return buf.Bytes()
}

func TestDecodeBMP16(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		want  []byte
		is565 bool
	}{
		{
			name: "555",
			data: bmpFile(2, 1, 16, biRGB, nil, []byte{0x00, 0x7c, 0xe0, 0x03}),
			want: []byte{255, 0, 0, 255, 0, 255, 0, 255},
		},
		{
			name:  "565 bitfields",
			data:  bmpFile(2, 1, 16, biBitfields, []byte{0x00, 0xf8, 0, 0, 0xe0, 0x07, 0, 0, 0x1f, 0, 0, 0}, []byte{0x1f, 0x00, 0x00, 0x04}),
			want:  []byte{0, 0, 255, 255, 0, 130, 0, 255},
			is565: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeBMPHeader(tt.data)
			if err != nil {
				t.Fatalf("DecodeBMPHeader: %v", err)
			}
			if got := h.Format == pixel.B5G6R5UNorm; got != tt.is565 {
				t.Errorf("format = %s", h.Format)
			}
			img, err := DecodeBMP(tt.data)
			if err != nil {
				t.Fatalf("DecodeBMP: %v", err)
			}
			if diff := cmp.Diff(tt.want, img.Pix()); diff != "" {
				t.Errorf("pixels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeBMPTopDown(t *testing.T) {
	rows := []byte{
		1, 2, 3, 0, // first stored row
		4, 5, 6, 0,
	}
	bottomUp, err := DecodeBMP(bmpFile(1, 2, 24, biRGB, nil, rows))
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	topDown, err := DecodeBMP(bmpFile(1, -2, 24, biRGB, nil, rows))
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}

	if diff := cmp.Diff([]byte{6, 5, 4, 255, 3, 2, 1, 255}, bottomUp.Pix()); diff != "" {
		t.Errorf("bottom-up (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{3, 2, 1, 255, 6, 5, 4, 255}, topDown.Pix()); diff != "" {
		t.Errorf("top-down (-want +got):\n%s", diff)
	}
}

func TestDecodeBMP32ZeroAlphaIsOpaque(t *testing.T) {
	img, err := DecodeBMP(bmpFile(1, 1, 32, biRGB, nil, []byte{10, 20, 30, 0}))
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	if diff := cmp.Diff([]byte{30, 20, 10, 255}, img.Pix()); diff != "" {
		t.Errorf("pixels (-want +got):\n%s", diff)
	}
}

func TestDecodeBMPErrors(t *testing.T) {
	valid := encodeBMP(t, randomImage(t, 2, 2, pixel.R8G8B8A8UNorm, 4))

	badMask := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMask[bmpFileHeaderSize+bmpInfoHeaderSize:], 0x000000ff)

	badSpace := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badSpace[bmpFileHeaderSize+bmpInfoHeaderSize+16:], 0)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"bad magic", []byte("PK\x03\x04 not a bitmap at all, just some bytes"), ErrUnrecognized},
		{"short header", valid[:30], ErrTruncated},
		{"short pixels", valid[:len(valid)-1], ErrTruncated},
		{"8-bit", bmpFile(1, 1, 8, biRGB, nil, make([]byte, 4)), ErrUnsupported},
		{"rle", bmpFile(1, 1, 24, 1, nil, make([]byte, 4)), ErrUnsupported},
		{"zero width", bmpFile(0, 1, 24, biRGB, nil, nil), ErrUnsupported},
		{"mask mismatch", badMask, ErrColorMask},
		{"not sRGB", badSpace, ErrColorMask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBMP(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeBMP error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeBMPOptions(t *testing.T) {
	src := randomImage(t, 3, 3, pixel.R8G8B8A8UNorm, 5)

	var buf bytes.Buffer
	if err := EncodeBMPWithOptions(&buf, src, BMPOptions{BitCount: 24}); err != nil {
		t.Fatalf("EncodeBMPWithOptions: %v", err)
	}
	img, err := DecodeBMP(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	for i := 0; i < len(src.Pix()); i += 4 {
		want := []byte{src.Pix()[i], src.Pix()[i+1], src.Pix()[i+2], 255}
		if diff := cmp.Diff(want, img.Pix()[i:i+4]); diff != "" {
			t.Errorf("pixel %d (-want +got):\n%s", i/4, diff)
		}
	}

	if err := EncodeBMPWithOptions(&buf, src, BMPOptions{BitCount: 16}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("16-bit encode error = %v, want ErrUnsupported", err)
	}
}
