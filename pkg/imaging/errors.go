package imaging

import "errors"

// Decode errors. Codecs wrap these with format-specific detail, so callers
// should match with errors.Is.
var (
	// ErrUnrecognized means the data is not in the codec's container format.
	// Decode moves on to the next codec when it sees this error.
	ErrUnrecognized = errors.New("unrecognized image container")
	// ErrUnsupported means the container is recognized but this variant
	// (bit depth, compression, image type) is not handled.
	ErrUnsupported = errors.New("unsupported image variant")
	// ErrTruncated means headers or pixel data extend past the input.
	ErrTruncated = errors.New("truncated image data")
	// ErrUnexpectedEnd means compressed data ran past the end of the buffer
	// or past the end of a scanline.
	ErrUnexpectedEnd = errors.New("unexpected end of buffer")
	// ErrColorMask means a BMP declared channel masks other than sRGB BGRA.
	ErrColorMask = errors.New("unexpected BMP color masks")
	// ErrTooLarge means the image cannot be represented by the target container.
	ErrTooLarge = errors.New("image too large for container")
)
