package imaging

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Kind identifies an image container.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBMP
	KindTGA
	KindICO
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindBMP:     "bmp",
	KindTGA:     "tga",
	KindICO:     "ico",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a container name or file extension ("bmp", ".tga",
// "cur") to its Kind.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "bmp", "dib":
		return KindBMP
	case "tga", "targa", "icb", "vda", "vst":
		return KindTGA
	case "ico", "cur":
		return KindICO
	}
	return KindUnknown
}

// KindFromPath returns the Kind implied by the file extension of path.
func KindFromPath(path string) Kind {
	return ParseKind(filepath.Ext(path))
}

// Sniff detects the container from its leading bytes. TGA has no magic
// number and is never reported; callers fall back to probing.
func Sniff(data []byte) Kind {
	t, err := filetype.Image(data)
	if err != nil {
		return KindUnknown
	}
	switch t.Extension {
	case "bmp":
		return KindBMP
	case "ico":
		return KindICO
	}
	// Cursors share the icon layout but are not in the matcher set. The
	// image count keeps uncompressed TGA headers from matching.
	if len(data) >= icoDirSize && data[0] == 0 && data[1] == 0 && data[2] == icoTypeCursor && data[3] == 0 &&
		(data[4] != 0 || data[5] != 0) {
		return KindICO
	}
	return KindUnknown
}
