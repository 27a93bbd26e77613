package pixel

import "fmt"

// Format identifies a pixel layout. Values 0-115 follow the DXGI_FORMAT
// ordinals; the 24-bit formats used by BMP and TGA live above them.
type Format uint8

// DXGI formats.
const (
	Unknown Format = iota
	R32G32B32A32Typeless
	R32G32B32A32Float
	R32G32B32A32UInt
	R32G32B32A32SInt
	R32G32B32Typeless
	R32G32B32Float
	R32G32B32UInt
	R32G32B32SInt
	R16G16B16A16Typeless
	R16G16B16A16Float
	R16G16B16A16UNorm
	R16G16B16A16UInt
	R16G16B16A16SNorm
	R16G16B16A16SInt
	R32G32Typeless
	R32G32Float
	R32G32UInt
	R32G32SInt
	R32G8X24Typeless
	D32FloatS8X24UInt
	R32FloatX8X24Typeless
	X32TypelessG8X24UInt
	R10G10B10A2Typeless
	R10G10B10A2UNorm
	R10G10B10A2UInt
	R11G11B10Float
	R8G8B8A8Typeless
	R8G8B8A8UNorm
	R8G8B8A8UNormSRGB
	R8G8B8A8UInt
	R8G8B8A8SNorm
	R8G8B8A8SInt
	R16G16Typeless
	R16G16Float
	R16G16UNorm
	R16G16UInt
	R16G16SNorm
	R16G16SInt
	R32Typeless
	D32Float
	R32Float
	R32UInt
	R32SInt
	R24G8Typeless
	D24UNormS8UInt
	R24UNormX8Typeless
	X24TypelessG8UInt
	R8G8Typeless
	R8G8UNorm
	R8G8UInt
	R8G8SNorm
	R8G8SInt
	R16Typeless
	R16Float
	D16UNorm
	R16UNorm
	R16UInt
	R16SNorm
	R16SInt
	R8Typeless
	R8UNorm
	R8UInt
	R8SNorm
	R8SInt
	A8UNorm
	R1UNorm
	R9G9B9E5SharedExp
	R8G8B8G8UNorm
	G8R8G8B8UNorm
	BC1Typeless
	BC1UNorm
	BC1UNormSRGB
	BC2Typeless
	BC2UNorm
	BC2UNormSRGB
	BC3Typeless
	BC3UNorm
	BC3UNormSRGB
	BC4Typeless
	BC4UNorm
	BC4SNorm
	BC5Typeless
	BC5UNorm
	BC5SNorm
	B5G6R5UNorm
	B5G5R5A1UNorm
	B8G8R8A8UNorm
	B8G8R8X8UNorm
	R10G10B10XRBiasA2UNorm
	B8G8R8A8Typeless
	B8G8R8A8UNormSRGB
	B8G8R8X8Typeless
	B8G8R8X8UNormSRGB
	BC6HTypeless
	BC6HUF16
	BC6HSF16
	BC7Typeless
	BC7UNorm
	BC7UNormSRGB
	AYUV
	Y410
	Y416
	NV12
	P010
	P016
	Opaque420
	YUY2
	Y210
	Y216
	NV11
	AI44
	IA44
	P8
	A8P8
	B4G4R4A4UNorm
)

// Packed 24-bit formats with no DXGI equivalent.
const (
	R8G8B8UNorm Format = 200 + iota
	B8G8R8UNorm
	B8G8R8UNormSRGB
)

var formatNames = map[Format]string{
	Unknown:                "UNKNOWN",
	R32G32B32A32Typeless:   "R32G32B32A32_TYPELESS",
	R32G32B32A32Float:      "R32G32B32A32_FLOAT",
	R32G32B32A32UInt:       "R32G32B32A32_UINT",
	R32G32B32A32SInt:       "R32G32B32A32_SINT",
	R32G32B32Typeless:      "R32G32B32_TYPELESS",
	R32G32B32Float:         "R32G32B32_FLOAT",
	R32G32B32UInt:          "R32G32B32_UINT",
	R32G32B32SInt:          "R32G32B32_SINT",
	R16G16B16A16Typeless:   "R16G16B16A16_TYPELESS",
	R16G16B16A16Float:      "R16G16B16A16_FLOAT",
	R16G16B16A16UNorm:      "R16G16B16A16_UNORM",
	R16G16B16A16UInt:       "R16G16B16A16_UINT",
	R16G16B16A16SNorm:      "R16G16B16A16_SNORM",
	R16G16B16A16SInt:       "R16G16B16A16_SINT",
	R32G32Typeless:         "R32G32_TYPELESS",
	R32G32Float:            "R32G32_FLOAT",
	R32G32UInt:             "R32G32_UINT",
	R32G32SInt:             "R32G32_SINT",
	R32G8X24Typeless:       "R32G8X24_TYPELESS",
	D32FloatS8X24UInt:      "D32_FLOAT_S8X24_UINT",
	R32FloatX8X24Typeless:  "R32_FLOAT_X8X24_TYPELESS",
	X32TypelessG8X24UInt:   "X32_TYPELESS_G8X24_UINT",
	R10G10B10A2Typeless:    "R10G10B10A2_TYPELESS",
	R10G10B10A2UNorm:       "R10G10B10A2_UNORM",
	R10G10B10A2UInt:        "R10G10B10A2_UINT",
	R11G11B10Float:         "R11G11B10_FLOAT",
	R8G8B8A8Typeless:       "R8G8B8A8_TYPELESS",
	R8G8B8A8UNorm:          "R8G8B8A8_UNORM",
	R8G8B8A8UNormSRGB:      "R8G8B8A8_UNORM_SRGB",
	R8G8B8A8UInt:           "R8G8B8A8_UINT",
	R8G8B8A8SNorm:          "R8G8B8A8_SNORM",
	R8G8B8A8SInt:           "R8G8B8A8_SINT",
	R16G16Typeless:         "R16G16_TYPELESS",
	R16G16Float:            "R16G16_FLOAT",
	R16G16UNorm:            "R16G16_UNORM",
	R16G16UInt:             "R16G16_UINT",
	R16G16SNorm:            "R16G16_SNORM",
	R16G16SInt:             "R16G16_SINT",
	R32Typeless:            "R32_TYPELESS",
	D32Float:               "D32_FLOAT",
	R32Float:               "R32_FLOAT",
	R32UInt:                "R32_UINT",
	R32SInt:                "R32_SINT",
	R24G8Typeless:          "R24G8_TYPELESS",
	D24UNormS8UInt:         "D24_UNORM_S8_UINT",
	R24UNormX8Typeless:     "R24_UNORM_X8_TYPELESS",
	X24TypelessG8UInt:      "X24_TYPELESS_G8_UINT",
	R8G8Typeless:           "R8G8_TYPELESS",
	R8G8UNorm:              "R8G8_UNORM",
	R8G8UInt:               "R8G8_UINT",
	R8G8SNorm:              "R8G8_SNORM",
	R8G8SInt:               "R8G8_SINT",
	R16Typeless:            "R16_TYPELESS",
	R16Float:               "R16_FLOAT",
	D16UNorm:               "D16_UNORM",
	R16UNorm:               "R16_UNORM",
	R16UInt:                "R16_UINT",
	R16SNorm:               "R16_SNORM",
	R16SInt:                "R16_SINT",
	R8Typeless:             "R8_TYPELESS",
	R8UNorm:                "R8_UNORM",
	R8UInt:                 "R8_UINT",
	R8SNorm:                "R8_SNORM",
	R8SInt:                 "R8_SINT",
	A8UNorm:                "A8_UNORM",
	R1UNorm:                "R1_UNORM",
	R9G9B9E5SharedExp:      "R9G9B9E5_SHAREDEXP",
	R8G8B8G8UNorm:          "R8G8_B8G8_UNORM",
	G8R8G8B8UNorm:          "G8R8_G8B8_UNORM",
	BC1Typeless:            "BC1_TYPELESS",
	BC1UNorm:               "BC1_UNORM",
	BC1UNormSRGB:           "BC1_UNORM_SRGB",
	BC2Typeless:            "BC2_TYPELESS",
	BC2UNorm:               "BC2_UNORM",
	BC2UNormSRGB:           "BC2_UNORM_SRGB",
	BC3Typeless:            "BC3_TYPELESS",
	BC3UNorm:               "BC3_UNORM",
	BC3UNormSRGB:           "BC3_UNORM_SRGB",
	BC4Typeless:            "BC4_TYPELESS",
	BC4UNorm:               "BC4_UNORM",
	BC4SNorm:               "BC4_SNORM",
	BC5Typeless:            "BC5_TYPELESS",
	BC5UNorm:               "BC5_UNORM",
	BC5SNorm:               "BC5_SNORM",
	B5G6R5UNorm:            "B5G6R5_UNORM",
	B5G5R5A1UNorm:          "B5G5R5A1_UNORM",
	B8G8R8A8UNorm:          "B8G8R8A8_UNORM",
	B8G8R8X8UNorm:          "B8G8R8X8_UNORM",
	R10G10B10XRBiasA2UNorm: "R10G10B10_XR_BIAS_A2_UNORM",
	B8G8R8A8Typeless:       "B8G8R8A8_TYPELESS",
	B8G8R8A8UNormSRGB:      "B8G8R8A8_UNORM_SRGB",
	B8G8R8X8Typeless:       "B8G8R8X8_TYPELESS",
	B8G8R8X8UNormSRGB:      "B8G8R8X8_UNORM_SRGB",
	BC6HTypeless:           "BC6H_TYPELESS",
	BC6HUF16:               "BC6H_UF16",
	BC6HSF16:               "BC6H_SF16",
	BC7Typeless:            "BC7_TYPELESS",
	BC7UNorm:               "BC7_UNORM",
	BC7UNormSRGB:           "BC7_UNORM_SRGB",
	AYUV:                   "AYUV",
	Y410:                   "Y410",
	Y416:                   "Y416",
	NV12:                   "NV12",
	P010:                   "P010",
	P016:                   "P016",
	Opaque420:              "420_OPAQUE",
	YUY2:                   "YUY2",
	Y210:                   "Y210",
	Y216:                   "Y216",
	NV11:                   "NV11",
	AI44:                   "AI44",
	IA44:                   "IA44",
	P8:                     "P8",
	A8P8:                   "A8P8",
	B4G4R4A4UNorm:          "B4G4R4A4_UNORM",
	R8G8B8UNorm:            "R8G8B8_UNORM",
	B8G8R8UNorm:            "B8G8R8_UNORM",
	B8G8R8UNormSRGB:        "B8G8R8_UNORM_SRGB",
}

// String returns the DXGI-style name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat looks a format up by its DXGI-style name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
}
