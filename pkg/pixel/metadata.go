package pixel

type formatInfo struct {
	bits       int
	compressed bool
	srgb       bool
	typeless   bool
}

// formatTable is filled once in init and only read afterwards.
var formatTable [256]formatInfo

func init() {
	setBits(1, R1UNorm)
	setBits(8, A8UNorm, R8SInt, R8SNorm, R8Typeless, R8UInt, R8UNorm)
	setBits(16,
		B5G5R5A1UNorm, B5G6R5UNorm, D16UNorm,
		R16Float, R16SInt, R16SNorm, R16Typeless, R16UInt, R16UNorm,
		R8G8SInt, R8G8SNorm, R8G8Typeless, R8G8UInt, R8G8UNorm,
		B4G4R4A4UNorm,
	)
	setBits(24, R8G8B8UNorm, B8G8R8UNorm, B8G8R8UNormSRGB)
	setBits(32,
		B8G8R8X8Typeless, B8G8R8X8UNorm, B8G8R8X8UNormSRGB,
		D24UNormS8UInt, D32Float, D32FloatS8X24UInt,
		G8R8G8B8UNorm, R8G8B8G8UNorm,
		R10G10B10XRBiasA2UNorm, R10G10B10A2Typeless, R10G10B10A2UInt, R10G10B10A2UNorm,
		R11G11B10Float,
		R16G16Float, R16G16SInt, R16G16SNorm, R16G16Typeless, R16G16UInt, R16G16UNorm,
		R24UNormX8Typeless, R24G8Typeless,
		R32Float, R32FloatX8X24Typeless, R32SInt, R32Typeless, R32UInt,
		R8G8B8A8SInt, R8G8B8A8SNorm, R8G8B8A8Typeless, R8G8B8A8UInt, R8G8B8A8UNorm, R8G8B8A8UNormSRGB,
		B8G8R8A8Typeless, B8G8R8A8UNorm, B8G8R8A8UNormSRGB,
		R9G9B9E5SharedExp, X24TypelessG8UInt, X32TypelessG8X24UInt,
	)
	setBits(64,
		R16G16B16A16Float, R16G16B16A16SInt, R16G16B16A16SNorm,
		R16G16B16A16Typeless, R16G16B16A16UInt, R16G16B16A16UNorm,
		R32G32Float, R32G32SInt, R32G32Typeless, R32G32UInt, R32G8X24Typeless,
	)
	setBits(96, R32G32B32Float, R32G32B32SInt, R32G32B32Typeless, R32G32B32UInt)
	setBits(128, R32G32B32A32Float, R32G32B32A32SInt, R32G32B32A32Typeless, R32G32B32A32UInt)

	// Block formats store bits per pixel of a 4x4 block.
	setBits(4, BC1Typeless, BC1UNorm, BC1UNormSRGB, BC4SNorm, BC4Typeless, BC4UNorm)
	setBits(8,
		BC2Typeless, BC2UNorm, BC2UNormSRGB,
		BC3Typeless, BC3UNorm, BC3UNormSRGB,
		BC5SNorm, BC5Typeless, BC5UNorm,
		BC6HSF16, BC6HTypeless, BC6HUF16,
		BC7Typeless, BC7UNorm, BC7UNormSRGB,
	)

	for _, f := range []Format{
		BC1Typeless, BC1UNorm, BC1UNormSRGB,
		BC2Typeless, BC2UNorm, BC2UNormSRGB,
		BC3Typeless, BC3UNorm, BC3UNormSRGB,
		BC4Typeless, BC4UNorm, BC4SNorm,
		BC5Typeless, BC5UNorm, BC5SNorm,
		BC6HTypeless, BC6HUF16, BC6HSF16,
		BC7Typeless, BC7UNorm, BC7UNormSRGB,
	} {
		formatTable[f].compressed = true
	}

	for _, f := range []Format{
		R8G8B8A8UNormSRGB, BC1UNormSRGB, BC2UNormSRGB, BC3UNormSRGB,
		B8G8R8A8UNormSRGB, B8G8R8X8UNormSRGB, BC7UNormSRGB, B8G8R8UNormSRGB,
	} {
		formatTable[f].srgb = true
	}

	for _, f := range []Format{
		R32G32B32A32Typeless, R32G32B32Typeless, R16G16B16A16Typeless,
		R32G32Typeless, R32G8X24Typeless, R10G10B10A2Typeless,
		R8G8B8A8Typeless, R16G16Typeless, R32Typeless, R24G8Typeless,
		R8G8Typeless, R16Typeless, R8Typeless,
		BC1Typeless, BC2Typeless, BC3Typeless, BC4Typeless, BC5Typeless,
		B8G8R8A8Typeless, B8G8R8X8Typeless, BC6HTypeless, BC7Typeless,
	} {
		formatTable[f].typeless = true
	}
}

func setBits(bits int, formats ...Format) {
	for _, f := range formats {
		formatTable[f].bits = bits
	}
}

// SizeOfInBits returns the number of bits per pixel, or 0 for unknown formats.
// Block-compressed formats report the per-pixel share of a 4x4 block.
func SizeOfInBits(f Format) int {
	return formatTable[f].bits
}

// SizeOfInBytes returns SizeOfInBits>>3. Compressed formats yield 0 or 1
// and must be handled by block-aware callers.
func SizeOfInBytes(f Format) int {
	return formatTable[f].bits >> 3
}

// IsValid reports whether f is a defined format.
func IsValid(f Format) bool {
	return (f >= R32G32B32A32Typeless && f <= B4G4R4A4UNorm) ||
		(f >= R8G8B8UNorm && f <= B8G8R8UNormSRGB)
}

// IsCompressed reports whether f is a BC block format.
func IsCompressed(f Format) bool { return formatTable[f].compressed }

// IsSRGB reports whether f stores sRGB-encoded color.
func IsSRGB(f Format) bool { return formatTable[f].srgb }

// IsTypeless reports whether f is a typeless format.
func IsTypeless(f Format) bool { return formatTable[f].typeless }

// IsPacked reports whether f is a packed 4:2:2 RGB format.
func IsPacked(f Format) bool {
	return f == R8G8B8G8UNorm || f == G8R8G8B8UNorm
}

// IsVideo reports whether f is a YUV or palettized video format.
func IsVideo(f Format) bool {
	switch f {
	case AYUV, Y410, Y416, NV12, P010, P016, YUY2, Y210, Y216, NV11:
		return true
	case Opaque420, AI44, IA44, P8, A8P8:
		return true
	}
	return false
}

// ComputeScanlineCount returns the number of scanlines a surface of the
// given height occupies. Block formats count rows of 4x4 blocks.
func ComputeScanlineCount(f Format, height int) int {
	if IsCompressed(f) {
		return max(1, (height+3)/4)
	}
	return height
}

// ComputePitch returns the row and slice pitch in bytes for a tightly
// packed surface of the given size.
func ComputePitch(f Format, width, height int) (rowPitch, slicePitch int) {
	switch {
	case IsCompressed(f):
		blockSize := 16
		if SizeOfInBits(f) == 4 {
			blockSize = 8
		}
		rowPitch = max(1, (width+3)/4) * blockSize
		slicePitch = rowPitch * ComputeScanlineCount(f, height)
		return rowPitch, slicePitch
	case IsPacked(f):
		rowPitch = ((width + 1) >> 1) * 4
	default:
		rowPitch = (width*SizeOfInBits(f) + 7) / 8
	}
	return rowPitch, rowPitch * height
}
