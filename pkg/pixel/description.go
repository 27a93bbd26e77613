package pixel

// Dimension is the shape of a texture resource.
type Dimension uint8

const (
	Texture1D Dimension = iota + 1
	Texture2D
	Texture3D
	TextureCube
)

func (d Dimension) String() string {
	switch d {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	case TextureCube:
		return "Cube"
	}
	return "unknown"
}

// ImageDescription describes a complete image that may span several
// surfaces (mips, array slices, depth).
type ImageDescription struct {
	Width     int
	Height    int
	Depth     int
	ArraySize int
	MipLevels int
	Format    Format
	Dimension Dimension
}

// Describe2D returns the description of a single-surface 2D image.
func Describe2D(width, height int, format Format) ImageDescription {
	return ImageDescription{
		Width:     width,
		Height:    height,
		Depth:     1,
		ArraySize: 1,
		MipLevels: 1,
		Format:    format,
		Dimension: Texture2D,
	}
}
