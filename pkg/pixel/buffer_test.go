package pixel

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBuffer(t *testing.T) {
	if _, err := NewBuffer(2, 2, R8G8B8A8UNorm, 0, nil); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data error = %v, want ErrNilData", err)
	}
	if _, err := NewBuffer(2, 2, R8G8B8A8UNorm, 0, make([]byte, 15)); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("short data error = %v, want ErrBufferTooSmall", err)
	}

	b, err := NewBuffer(3, 2, R8G8B8A8UNorm, 0, make([]byte, 24))
	if err != nil {
		t.Fatal(err)
	}
	if b.RowStride() != 12 || b.BufferStride() != 24 || b.PixelSize() != 4 || !b.IsStrictRowStride() {
		t.Errorf("tight buffer = stride %d, size %d, pixel %d, strict %v",
			b.RowStride(), b.BufferStride(), b.PixelSize(), b.IsStrictRowStride())
	}

	padded, err := NewBuffer(3, 2, R8G8B8A8UNorm, 16, make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	if padded.IsStrictRowStride() {
		t.Error("padded buffer reported strict row stride")
	}
}

func TestSetFormat(t *testing.T) {
	b := Allocate(2, 2, R8G8B8A8UNorm)
	if err := b.SetFormat(B8G8R8A8UNormSRGB); err != nil {
		t.Errorf("same size SetFormat() error = %v", err)
	}
	if b.Format() != B8G8R8A8UNormSRGB {
		t.Errorf("Format() = %s", b.Format())
	}
	if err := b.SetFormat(B5G6R5UNorm); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("SetFormat(16-bit) error = %v, want ErrFormatMismatch", err)
	}
	if b.Format() != B8G8R8A8UNormSRGB {
		t.Error("failed SetFormat changed the format")
	}
}

func TestGetSetPixel(t *testing.T) {
	b, err := NewBuffer(3, 3, R8G8B8A8UNorm, 16, make([]byte, 48))
	if err != nil {
		t.Fatal(err)
	}
	SetPixel(b, 2, 1, uint32(0xaabbccdd))
	if got := GetPixel[uint32](b, 2, 1); got != 0xaabbccdd {
		t.Errorf("GetPixel() = %#x", got)
	}
	if got := b.Pixel(2, 1); !bytes.Equal(got, []byte{0xdd, 0xcc, 0xbb, 0xaa}) {
		t.Errorf("Pixel() = %v", got)
	}
	if got := GetPixel[[4]uint8](b, 2, 1); got != [4]uint8{0xdd, 0xcc, 0xbb, 0xaa} {
		t.Errorf("GetPixel[[4]uint8]() = %v", got)
	}
	if off := 1*16 + 2*4; !bytes.Equal(b.Data()[off:off+4], []byte{0xdd, 0xcc, 0xbb, 0xaa}) {
		t.Error("pixel not written at y*rowStride + x*pixelSize")
	}
}

func TestGetSetPixelsPadded(t *testing.T) {
	b, err := NewBuffer(3, 3, R8G8B8A8UNorm, 16, make([]byte, 48))
	if err != nil {
		t.Fatal(err)
	}
	src := []uint32{1, 2, 3, 4, 5, 6, 7}
	if err := SetPixels(b, src, 0, 0, len(src)); err != nil {
		t.Fatal(err)
	}
	if got := GetPixel[uint32](b, 0, 1); got != 4 {
		t.Errorf("row 1 start = %d, want 4", got)
	}
	if got := GetPixel[uint32](b, 0, 2); got != 7 {
		t.Errorf("partial tail = %d, want 7", got)
	}
	if pad := b.Data()[12:16]; !bytes.Equal(pad, []byte{0, 0, 0, 0}) {
		t.Errorf("row padding written: %v", pad)
	}

	dst := make([]uint32, 9)
	if err := GetPixels(b, dst, 1, 2, 4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint32{0, 0, 4, 5, 6, 7, 0, 0, 0}, dst); diff != "" {
		t.Errorf("GetPixels mismatch (-want +got):\n%s", diff)
	}

	if err := GetPixels(b, dst, 0, 5, 5); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("overflowing dst error = %v", err)
	}
	if err := GetPixels(b, make([]uint32, 20), 2, 0, 20); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("overflowing surface error = %v", err)
	}
}

func TestGetPixelsStrict(t *testing.T) {
	b := Allocate(2, 2, R8UNorm)
	copy(b.Data(), []byte{1, 2, 3, 4})
	dst := make([]uint8, 3)
	if err := GetPixels(b, dst, 1, 0, 2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{3, 4, 0}, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyTo(t *testing.T) {
	src, _ := NewBuffer(2, 2, R8G8B8A8UNorm, 12, []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0xee, 0xee, 0xee, 0xee,
		9, 10, 11, 12, 13, 14, 15, 16, 0xee, 0xee, 0xee, 0xee,
	})
	dst := Allocate(2, 2, B8G8R8A8UNorm)
	if err := src.CopyTo(dst); err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if diff := cmp.Diff(want, dst.Data()); diff != "" {
		t.Errorf("CopyTo mismatch (-want +got):\n%s", diff)
	}

	if err := src.CopyTo(Allocate(3, 2, R8G8B8A8UNorm)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch error = %v", err)
	}
	if err := src.CopyTo(Allocate(2, 2, B5G6R5UNorm)); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("format mismatch error = %v", err)
	}
}

func TestFlipVerticalTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	formats := []Format{R8UNorm, B5G6R5UNorm, B8G8R8UNorm, R8G8B8A8UNorm, R16G16B16A16Float, R32G32B32A32Float}
	for _, f := range formats {
		for _, size := range [][2]int{{1, 1}, {3, 2}, {5, 7}, {16, 9}} {
			w, h := size[0], size[1]
			stride := w*SizeOfInBytes(f) + rng.Intn(4)
			data := make([]byte, stride*h)
			rng.Read(data)
			orig := append([]byte(nil), data...)

			b, err := NewBuffer(w, h, f, stride, data)
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Flip(FlipVertical); err != nil {
				t.Fatal(err)
			}
			if err := b.Flip(FlipVertical); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(orig, data) {
				t.Errorf("%s %dx%d stride %d: double flip changed the buffer", f, w, h, stride)
			}
		}
	}
}

func TestFlipHorizontalPadded(t *testing.T) {
	data := []byte{
		1, 1, 2, 2, 3, 3, 0xaa,
		4, 4, 5, 5, 6, 6, 0xbb,
	}
	b, err := NewBuffer(3, 2, B5G6R5UNorm, 7, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Flip(FlipHorizontal); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		3, 3, 2, 2, 1, 1, 0xaa,
		6, 6, 5, 5, 4, 4, 0xbb,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("horizontal flip mismatch (-want +got):\n%s", diff)
	}

	if err := b.Flip(FlipBoth); err != nil {
		t.Fatal(err)
	}
	want = []byte{
		4, 4, 5, 5, 6, 6, 0xaa,
		1, 1, 2, 2, 3, 3, 0xbb,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("both flip mismatch (-want +got):\n%s", diff)
	}
}

func TestFlipRejectsBlockFormats(t *testing.T) {
	for _, f := range []Format{BC1UNorm, BC2UNorm, BC3UNorm, BC4UNorm, BC5UNorm, BC6HUF16, BC7UNorm} {
		b := Allocate(8, 8, f)
		if err := b.Flip(FlipVertical); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s: error = %v, want ErrInvalidFormat", f, err)
		}
	}
}

func TestComponents(t *testing.T) {
	b := Allocate(2, 1, R8G8B8A8UNorm)
	copy(b.Data(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	planes, err := b.Components()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{1, 5}, {2, 6}, {3, 7}, {4, 8}}
	if diff := cmp.Diff(want, planes); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}

	rgb := Allocate(2, 1, B8G8R8UNorm)
	copy(rgb.Data(), []byte{1, 2, 3, 4, 5, 6})
	planes, err = rgb.Components()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]byte{{1, 4}, {2, 5}, {3, 6}}, planes); diff != "" {
		t.Errorf("3-channel mismatch (-want +got):\n%s", diff)
	}

	out := Allocate(2, 1, B8G8R8UNorm)
	if err := out.SetComponents(planes); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Data(), rgb.Data()) {
		t.Errorf("SetComponents() = %v, want %v", out.Data(), rgb.Data())
	}

	if _, err := Allocate(1, 1, R16G16B16A16Float).Components(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("8-byte pixel error = %v", err)
	}

	bc3 := Allocate(8, 8, BC3UNorm)
	if _, err := bc3.Components(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("BC3 Components error = %v", err)
	}
	if err := bc3.SetComponents([][]byte{make([]byte, 64)}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("BC3 SetComponents error = %v", err)
	}
}

func TestToNRGBA(t *testing.T) {
	b := Allocate(2, 1, B8G8R8A8UNorm)
	copy(b.Data(), []byte{10, 20, 30, 40, 50, 60, 70, 80})
	img, err := b.ToNRGBA()
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{30, 20, 10, 40}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{70, 60, 50, 80}) {
		t.Errorf("pixel 1 = %v", got)
	}

	if _, err := Allocate(1, 1, BC1UNorm).ToNRGBA(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("BC1 error = %v", err)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(6, 5, color.RGBA{0, 0, 255, 255})

	b := FromImage(src)
	if b.Width() != 2 || b.Height() != 1 || b.Format() != R8G8B8A8UNorm {
		t.Fatalf("FromImage() = %dx%d %s", b.Width(), b.Height(), b.Format())
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	if diff := cmp.Diff(want, b.Data()); diff != "" {
		t.Errorf("FromImage mismatch (-want +got):\n%s", diff)
	}
}

type recordingSink struct {
	width, height, stride int
	format                Format
	data                  []byte
}

func (s *recordingSink) UploadTexture(width, height int, format Format, rowStride int, data []byte) error {
	s.width, s.height, s.format, s.stride, s.data = width, height, format, rowStride, data
	return nil
}

func TestUpload(t *testing.T) {
	b := Allocate(4, 2, R8UNorm)
	var sink recordingSink
	if err := Upload(&sink, b); err != nil {
		t.Fatal(err)
	}
	if sink.width != 4 || sink.height != 2 || sink.format != R8UNorm || sink.stride != 4 || len(sink.data) != 8 {
		t.Errorf("sink received %+v", sink)
	}
}
