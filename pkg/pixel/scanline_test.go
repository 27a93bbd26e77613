package pixel

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandScanline(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		flags  ScanlineFlags
		in     uint16
		want   []byte
	}{
		{"565 white", B5G6R5UNorm, ScanlineNone, 0xffff, []byte{0xff, 0xff, 0xff, 0xff}},
		{"565 red", B5G6R5UNorm, ScanlineNone, 0xf800, []byte{0xff, 0x00, 0x00, 0xff}},
		{"565 green", B5G6R5UNorm, ScanlineNone, 0x07e0, []byte{0x00, 0xff, 0x00, 0xff}},
		{"565 blue", B5G6R5UNorm, ScanlineNone, 0x001f, []byte{0x00, 0x00, 0xff, 0xff}},
		{"565 mid green", B5G6R5UNorm, ScanlineNone, 0x0400, []byte{0x00, 0x82, 0x00, 0xff}},
		{"5551 no alpha", B5G5R5A1UNorm, ScanlineNone, 0x7fff, []byte{0xff, 0xff, 0xff, 0x00}},
		{"5551 alpha bit", B5G5R5A1UNorm, ScanlineNone, 0xfc00, []byte{0xff, 0x00, 0x00, 0xff}},
		{"5551 set alpha", B5G5R5A1UNorm, ScanlineSetAlpha, 0x001f, []byte{0x00, 0x00, 0xff, 0xff}},
		{"4444", B4G4R4A4UNorm, ScanlineNone, 0xf0f0, []byte{0x00, 0xff, 0x00, 0xff}},
		{"4444 half alpha", B4G4R4A4UNorm, ScanlineNone, 0x8f00, []byte{0xff, 0x00, 0x00, 0x88}},
		{"4444 set alpha", B4G4R4A4UNorm, ScanlineSetAlpha, 0x000f, []byte{0x00, 0x00, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := binary.LittleEndian.AppendUint16(nil, tt.in)
			dst := make([]byte, 4)
			if err := ExpandScanline(dst, src, tt.format, tt.flags); err != nil {
				t.Fatalf("ExpandScanline() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("ExpandScanline() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandScanlineRejectsWideFormats(t *testing.T) {
	err := ExpandScanline(make([]byte, 4), make([]byte, 4), R8G8B8A8UNorm, ScanlineNone)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestExpandScanlineStopsAtShorterBuffer(t *testing.T) {
	src := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	dst := make([]byte, 9)
	if err := ExpandScanline(dst, src, B5G6R5UNorm, ScanlineNone); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// channels16 splits a packed value into its channels at their own precision.
func channels16(f Format, v uint16) [4]int {
	switch f {
	case B5G6R5UNorm:
		return [4]int{int(v >> 11 & 0x1f), int(v >> 5 & 0x3f), int(v & 0x1f), 0}
	case B5G5R5A1UNorm:
		return [4]int{int(v >> 10 & 0x1f), int(v >> 5 & 0x1f), int(v & 0x1f), int(v >> 15)}
	default:
		return [4]int{int(v >> 8 & 0xf), int(v >> 4 & 0xf), int(v & 0xf), int(v >> 12)}
	}
}

func TestExpandPackRoundTrip(t *testing.T) {
	for _, f := range []Format{B5G6R5UNorm, B5G5R5A1UNorm, B4G4R4A4UNorm} {
		t.Run(f.String(), func(t *testing.T) {
			src := make([]byte, 2*65536)
			for v := 0; v < 65536; v++ {
				binary.LittleEndian.PutUint16(src[v*2:], uint16(v))
			}
			wide := make([]byte, 4*65536)
			if err := ExpandScanline(wide, src, f, ScanlineNone); err != nil {
				t.Fatal(err)
			}
			back := make([]byte, 2*65536)
			if err := PackScanline(back, wide, f); err != nil {
				t.Fatal(err)
			}

			for v := 0; v < 65536; v++ {
				got := binary.LittleEndian.Uint16(back[v*2:])
				want := channels16(f, uint16(v))
				have := channels16(f, got)
				for c := range want {
					d := want[c] - have[c]
					if d < -1 || d > 1 {
						t.Fatalf("value %#04x channel %d: got %d, want %d", v, c, have[c], want[c])
					}
				}
			}
		})
	}
}

func TestCopyScanlineSetAlpha(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		in     []byte
		want   []byte
	}{
		{"rgba8", R8G8B8A8UNorm, []byte{1, 2, 3, 0}, []byte{1, 2, 3, 0xff}},
		{"bgra8", B8G8R8A8UNorm, []byte{1, 2, 3, 9}, []byte{1, 2, 3, 0xff}},
		{"rgba8 snorm", R8G8B8A8SNorm, []byte{1, 2, 3, 0}, []byte{1, 2, 3, 0x7f}},
		{"rgba32 float", R32G32B32A32Float, make([]byte, 16),
			[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x00, 0x80, 0x3f}},
		{"rgba32 sint", R32G32B32A32SInt, make([]byte, 16),
			[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0x7f}},
		{"rgba16 float", R16G16B16A16Float, []byte{1, 2, 3, 4, 5, 6, 0, 0}, []byte{1, 2, 3, 4, 5, 6, 0x00, 0x3c}},
		{"rgba16 unorm", R16G16B16A16UNorm, make([]byte, 8), []byte{0, 0, 0, 0, 0, 0, 0xff, 0xff}},
		{"rgb10a2", R10G10B10A2UNorm, []byte{1, 2, 3, 0}, []byte{1, 2, 3, 0xc0}},
		{"5551", B5G5R5A1UNorm, []byte{0x01, 0x00}, []byte{0x01, 0x80}},
		{"4444", B4G4R4A4UNorm, []byte{0x21, 0x03}, []byte{0x21, 0xf3}},
		{"no alpha format", R8G8UNorm, []byte{7, 8}, []byte{7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, len(tt.in))
			CopyScanline(dst, tt.in, tt.format, ScanlineSetAlpha)
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("copy mismatch (-want +got):\n%s", diff)
			}

			inPlace := append([]byte(nil), tt.in...)
			CopyScanline(inPlace, inPlace, tt.format, ScanlineSetAlpha)
			if diff := cmp.Diff(tt.want, inPlace); diff != "" {
				t.Errorf("in-place mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCopyScanlineCopiesShorterLength(t *testing.T) {
	dst := []byte{9, 9, 9, 9, 9}
	CopyScanline(dst, []byte{1, 2, 3}, R8UNorm, ScanlineNone)
	if diff := cmp.Diff([]byte{1, 2, 3, 9, 9}, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSwizzleScanline(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		flags  ScanlineFlags
		in     []byte
		want   []byte
	}{
		{"rgba8", R8G8B8A8UNorm, ScanlineNone, []byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{3, 2, 1, 4, 7, 6, 5, 8}},
		{"bgra8 set alpha", B8G8R8A8UNorm, ScanlineSetAlpha, []byte{1, 2, 3, 4}, []byte{3, 2, 1, 0xff}},
		{"bgr8", B8G8R8UNorm, ScanlineNone, []byte{1, 2, 3, 4, 5, 6}, []byte{3, 2, 1, 6, 5, 4}},
		{"rgb10a2 legacy", R10G10B10A2UNorm, ScanlineLegacy, []byte{0xff, 0x03, 0x00, 0x40}, []byte{0x00, 0x00, 0xf0, 0x7f}},
		{"rgb10a2 plain", R10G10B10A2UNorm, ScanlineNone, []byte{0xff, 0x03, 0x00, 0x40}, []byte{0xff, 0x03, 0x00, 0x40}},
		{"fallback", R16UNorm, ScanlineNone, []byte{1, 2}, []byte{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, len(tt.in))
			SwizzleScanline(dst, tt.in, tt.format, tt.flags)
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			inPlace := append([]byte(nil), tt.in...)
			SwizzleScanline(inPlace, inPlace, tt.format, tt.flags)
			if diff := cmp.Diff(tt.want, inPlace); diff != "" {
				t.Errorf("in-place mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
