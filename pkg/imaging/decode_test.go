package imaging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

func encoded(t *testing.T, img *Image, kind Kind) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img, kind); err != nil {
		t.Fatalf("Encode %s: %v", kind, err)
	}
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	img := randomImage(t, 4, 4, pixel.R8G8B8A8UNorm, 30)
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"bmp", encoded(t, img, KindBMP), KindBMP},
		{"ico", encoded(t, img, KindICO), KindICO},
		{"cursor", []byte{0, 0, 2, 0, 1, 0}, KindICO},
		{"tga", encoded(t, img, KindTGA), KindUnknown},
		{"empty", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeDispatch(t *testing.T) {
	img := randomImage(t, 5, 3, pixel.R8G8B8A8UNorm, 31)
	img.Pix()[3] = 0xff

	for _, kind := range []Kind{KindBMP, KindTGA, KindICO} {
		data := encoded(t, img, kind)
		for _, hint := range []Kind{KindUnknown, KindBMP, KindTGA, KindICO} {
			got, err := Decode(data, hint)
			if err != nil {
				t.Fatalf("Decode(%s data, hint %s): %v", kind, hint, err)
			}
			if diff := cmp.Diff(img.Pix(), got.Pix()); diff != "" {
				t.Errorf("Decode(%s data, hint %s) (-want +got):\n%s", kind, hint, diff)
			}
		}
	}
}

func TestDecodeUnrecognized(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xff}, 64)
	if _, err := Decode(garbage, KindUnknown); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("Decode error = %v, want ErrUnrecognized", err)
	}

	// Recognized but broken data is reported rather than probed past.
	bmp := encoded(t, randomImage(t, 2, 2, pixel.R8G8B8A8UNorm, 32), KindBMP)
	if _, err := Decode(bmp[:60], KindUnknown); !errors.Is(err, ErrTruncated) {
		t.Errorf("Decode error = %v, want ErrTruncated", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"bmp", KindBMP},
		{".BMP", KindBMP},
		{"tga", KindTGA},
		{".cur", KindICO},
		{"ico", KindICO},
		{"png", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if got := KindFromPath("/tmp/icons/app.Ico"); got != KindICO {
		t.Errorf("KindFromPath = %s, want ico", got)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	img := randomImage(t, 6, 2, pixel.R8G8B8A8UNorm, 33)
	img.Pix()[3] = 0xff

	for _, name := range []string{"out.bmp", "out.tga", "out.ico"} {
		path := filepath.Join(dir, name)
		if err := EncodeFile(path, img); err != nil {
			t.Fatalf("EncodeFile(%s): %v", name, err)
		}
		got, err := DecodeFile(path)
		if err != nil {
			t.Fatalf("DecodeFile(%s): %v", name, err)
		}
		if diff := cmp.Diff(img.Pix(), got.Pix()); diff != "" {
			t.Errorf("%s (-want +got):\n%s", name, diff)
		}
	}

	if err := EncodeFile(filepath.Join(dir, "out.png"), img); !errors.Is(err, ErrUnsupported) {
		t.Errorf("EncodeFile png error = %v, want ErrUnsupported", err)
	}
	if _, err := DecodeFile(filepath.Join(dir, "missing.bmp")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DecodeFile missing error = %v", err)
	}
}

func TestEncodeUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NewImage(1, 1, pixel.R8G8B8A8UNorm), KindUnknown)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Encode error = %v, want ErrUnsupported", err)
	}
}
