package pixel

import (
	"encoding/binary"
	"fmt"
)

// ScanlineFlags modify the scanline conversions.
type ScanlineFlags uint8

const (
	ScanlineNone ScanlineFlags = 0
	// ScanlineSetAlpha forces the alpha channel to fully opaque.
	ScanlineSetAlpha ScanlineFlags = 1 << 0
	// ScanlineLegacy selects the 10:10:10:2 R/B field rotation in SwizzleScanline.
	ScanlineLegacy ScanlineFlags = 1 << 1
)

var le = binary.LittleEndian

func sameMemory(a, b []byte) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// ExpandScanline widens a row of 16-bit B5G6R5, B5G5R5A1 or B4G4R4A4 pixels
// into R8G8B8A8. The high bits of each channel are replicated into the
// low bits so that full intensity maps to 0xFF.
func ExpandScanline(dst, src []byte, format Format, flags ScanlineFlags) error {
	setAlpha := flags&ScanlineSetAlpha != 0

	var expand func(t uint32) uint32
	switch format {
	case B5G6R5UNorm:
		expand = func(t uint32) uint32 {
			r := ((t & 0xf800) >> 8) | ((t & 0xe000) >> 13)
			g := ((t & 0x07e0) << 5) | ((t & 0x0600) >> 1)
			b := ((t & 0x001f) << 19) | ((t & 0x001c) << 14)
			return r | g | b | 0xff000000
		}
	case B5G5R5A1UNorm:
		expand = func(t uint32) uint32 {
			r := ((t & 0x7c00) >> 7) | ((t & 0x7000) >> 12)
			g := ((t & 0x03e0) << 6) | ((t & 0x0380) << 1)
			b := ((t & 0x001f) << 19) | ((t & 0x001c) << 14)
			a := uint32(0)
			if setAlpha || t&0x8000 != 0 {
				a = 0xff000000
			}
			return r | g | b | a
		}
	case B4G4R4A4UNorm:
		expand = func(t uint32) uint32 {
			r := ((t & 0x0f00) >> 4) | ((t & 0x0f00) >> 8)
			g := ((t & 0x00f0) << 8) | ((t & 0x00f0) << 4)
			b := ((t & 0x000f) << 20) | ((t & 0x000f) << 16)
			a := uint32(0xff000000)
			if !setAlpha {
				a = ((t & 0xf000) << 16) | ((t & 0xf000) << 12)
			}
			return r | g | b | a
		}
	default:
		return fmt.Errorf("%w: cannot expand %s", ErrInvalidFormat, format)
	}

	for i, o := 0, 0; i+2 <= len(src) && o+4 <= len(dst); i, o = i+2, o+4 {
		le.PutUint32(dst[o:], expand(uint32(le.Uint16(src[i:]))))
	}
	return nil
}

// PackScanline narrows a row of R8G8B8A8 pixels into B5G6R5, B5G5R5A1 or
// B4G4R4A4, rounding each channel to the nearest representable value.
func PackScanline(dst, src []byte, format Format) error {
	var pack func(r, g, b, a uint32) uint16
	switch format {
	case B5G6R5UNorm:
		pack = func(r, g, b, _ uint32) uint16 {
			return uint16(quantize(r, 31)<<11 | quantize(g, 63)<<5 | quantize(b, 31))
		}
	case B5G5R5A1UNorm:
		pack = func(r, g, b, a uint32) uint16 {
			v := quantize(r, 31)<<10 | quantize(g, 31)<<5 | quantize(b, 31)
			if a >= 0x80 {
				v |= 0x8000
			}
			return uint16(v)
		}
	case B4G4R4A4UNorm:
		pack = func(r, g, b, a uint32) uint16 {
			return uint16(quantize(a, 15)<<12 | quantize(r, 15)<<8 | quantize(g, 15)<<4 | quantize(b, 15))
		}
	default:
		return fmt.Errorf("%w: cannot pack %s", ErrInvalidFormat, format)
	}

	for i, o := 0, 0; i+4 <= len(src) && o+2 <= len(dst); i, o = i+4, o+2 {
		p := src[i : i+4]
		le.PutUint16(dst[o:], pack(uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])))
	}
	return nil
}

func quantize(c, maxValue uint32) uint32 {
	return (c*maxValue + 127) / 255
}

// CopyScanline copies min(len(dst), len(src)) bytes. With ScanlineSetAlpha
// the alpha channel of the destination format is forced to its opaque
// value. dst and src may be the same slice.
func CopyScanline(dst, src []byte, format Format, flags ScanlineFlags) {
	n := min(len(dst), len(src))
	inPlace := sameMemory(dst, src)

	if flags&ScanlineSetAlpha != 0 {
		switch format {
		case R32G32B32A32Typeless, R32G32B32A32Float, R32G32B32A32UInt, R32G32B32A32SInt:
			alpha := uint32(0xffffffff)
			switch format {
			case R32G32B32A32Float:
				alpha = 0x3f800000
			case R32G32B32A32SInt:
				alpha = 0x7fffffff
			}
			for i := 0; i+16 <= n; i += 16 {
				if !inPlace {
					copy(dst[i:i+12], src[i:i+12])
				}
				le.PutUint32(dst[i+12:], alpha)
			}
			return

		case R16G16B16A16Typeless, R16G16B16A16Float, R16G16B16A16UNorm,
			R16G16B16A16UInt, R16G16B16A16SNorm, R16G16B16A16SInt:
			alpha := uint16(0xffff)
			switch format {
			case R16G16B16A16Float:
				alpha = 0x3c00
			case R16G16B16A16SNorm, R16G16B16A16SInt:
				alpha = 0x7fff
			}
			for i := 0; i+8 <= n; i += 8 {
				if !inPlace {
					copy(dst[i:i+6], src[i:i+6])
				}
				le.PutUint16(dst[i+6:], alpha)
			}
			return

		case R10G10B10A2Typeless, R10G10B10A2UNorm, R10G10B10A2UInt, R10G10B10XRBiasA2UNorm:
			for i := 0; i+4 <= n; i += 4 {
				le.PutUint32(dst[i:], le.Uint32(src[i:])|0xC0000000)
			}
			return

		case R8G8B8A8Typeless, R8G8B8A8UNorm, R8G8B8A8UNormSRGB, R8G8B8A8UInt,
			R8G8B8A8SNorm, R8G8B8A8SInt,
			B8G8R8A8UNorm, B8G8R8A8Typeless, B8G8R8A8UNormSRGB:
			alpha := uint32(0xff000000)
			if format == R8G8B8A8SNorm || format == R8G8B8A8SInt {
				alpha = 0x7f000000
			}
			for i := 0; i+4 <= n; i += 4 {
				le.PutUint32(dst[i:], le.Uint32(src[i:])&0x00ffffff|alpha)
			}
			return

		case B5G5R5A1UNorm:
			for i := 0; i+2 <= n; i += 2 {
				le.PutUint16(dst[i:], le.Uint16(src[i:])|0x8000)
			}
			return

		case B4G4R4A4UNorm:
			for i := 0; i+2 <= n; i += 2 {
				le.PutUint16(dst[i:], le.Uint16(src[i:])|0xF000)
			}
			return
		}
	}

	if !inPlace {
		copy(dst[:n], src[:n])
	}
}

// SwizzleScanline swaps the red and blue channels of a row, optionally
// forcing alpha opaque. Formats without a swizzle are copied unchanged.
func SwizzleScanline(dst, src []byte, format Format, flags ScanlineFlags) {
	n := min(len(dst), len(src))
	setAlpha := flags&ScanlineSetAlpha != 0

	switch format {
	case R10G10B10A2Typeless, R10G10B10A2UNorm, R10G10B10A2UInt, R10G10B10XRBiasA2UNorm:
		if flags&ScanlineLegacy == 0 {
			break
		}
		for i := 0; i+4 <= n; i += 4 {
			t := le.Uint32(src[i:])
			t1 := (t & 0x3ff00000) >> 20
			t2 := (t & 0x000003ff) << 20
			t3 := t & 0x000ffc00
			ta := t & 0xC0000000
			if setAlpha {
				ta = 0xC0000000
			}
			le.PutUint32(dst[i:], t1|t2|t3|ta)
		}
		return

	case R8G8B8A8Typeless, R8G8B8A8UNorm, R8G8B8A8UNormSRGB,
		B8G8R8A8UNorm, B8G8R8X8UNorm, B8G8R8A8Typeless, B8G8R8A8UNormSRGB,
		B8G8R8X8Typeless, B8G8R8X8UNormSRGB:
		for i := 0; i+4 <= n; i += 4 {
			t := le.Uint32(src[i:])
			t1 := (t & 0x00ff0000) >> 16
			t2 := (t & 0x000000ff) << 16
			t3 := t & 0x0000ff00
			ta := t & 0xff000000
			if setAlpha {
				ta = 0xff000000
			}
			le.PutUint32(dst[i:], t1|t2|t3|ta)
		}
		return

	case R8G8B8UNorm, B8G8R8UNorm, B8G8R8UNormSRGB:
		for i := 0; i+3 <= n; i += 3 {
			r, g, b := src[i], src[i+1], src[i+2]
			dst[i], dst[i+1], dst[i+2] = b, g, r
		}
		return
	}

	if !sameMemory(dst, src) {
		copy(dst[:n], src[:n])
	}
}
