package pixel

import "errors"

var (
	// ErrNilData is returned when a buffer is created without backing memory.
	ErrNilData = errors.New("pixel: nil data")
	// ErrBufferTooSmall is returned when backing memory cannot hold the surface
	// or a caller-supplied slice cannot hold the requested pixels.
	ErrBufferTooSmall = errors.New("pixel: buffer too small")
	// ErrFormatMismatch is returned when two formats differ in pixel size.
	ErrFormatMismatch = errors.New("pixel: format size mismatch")
	// ErrSizeMismatch is returned when two buffers differ in dimensions.
	ErrSizeMismatch = errors.New("pixel: size mismatch")
	// ErrInvalidFormat is returned for formats an operation cannot handle.
	ErrInvalidFormat = errors.New("pixel: invalid format")
)
