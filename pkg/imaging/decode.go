package imaging

import (
	"errors"
	"fmt"
	"io"
	"os"
)

type codec struct {
	decode func([]byte) (*Image, error)
	encode func(io.Writer, *Image) error
}

var codecs = map[Kind]codec{
	KindBMP: {DecodeBMP, EncodeBMP},
	KindTGA: {DecodeTGA, EncodeTGA},
	KindICO: {DecodeICO, func(w io.Writer, img *Image) error { return EncodeICO(w, img) }},
}

// probeOrder is tried when neither the hint nor the magic bytes decide.
// TGA goes last since any 18 bytes may look like its header.
var probeOrder = []Kind{KindBMP, KindICO, KindTGA}

// Decode decodes data. A non-Unknown hint is tried first, then the kind
// detected by Sniff, then every codec in turn; codecs reporting
// ErrUnrecognized are skipped.
func Decode(data []byte, hint Kind) (*Image, error) {
	tried := make(map[Kind]bool, len(codecs))
	try := func(k Kind) (*Image, error) {
		tried[k] = true
		return codecs[k].decode(data)
	}

	for _, k := range []Kind{hint, Sniff(data)} {
		if k == KindUnknown || tried[k] {
			continue
		}
		img, err := try(k)
		if err == nil || !errors.Is(err, ErrUnrecognized) {
			return img, err
		}
	}

	for _, k := range probeOrder {
		if tried[k] {
			continue
		}
		img, err := try(k)
		if err == nil || !errors.Is(err, ErrUnrecognized) {
			return img, err
		}
	}
	return nil, fmt.Errorf("%w: no codec accepted %d bytes", ErrUnrecognized, len(data))
}

// DecodeFile reads and decodes the file at path, using its extension as
// the hint.
func DecodeFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	img, err := Decode(data, KindFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Encode writes img in the given container.
func Encode(w io.Writer, img *Image, kind Kind) error {
	c, ok := codecs[kind]
	if !ok {
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupported, kind)
	}
	return c.encode(w, img)
}

// EncodeFile writes img to path in the container its extension names.
func EncodeFile(path string, img *Image) error {
	kind := KindFromPath(path)
	if kind == KindUnknown {
		return fmt.Errorf("%w: no container for %q", ErrUnsupported, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := Encode(f, img, kind); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
