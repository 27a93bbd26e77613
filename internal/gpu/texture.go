package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/internal/logger"
	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

// ErrUnsupportedFormat is returned for pixel formats with no GL upload path.
var ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")

// glFormat is the TexImage2D triple for a pixel format.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var glFormats = map[pixel.Format]glFormat{
	pixel.R8G8B8A8UNorm:     {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	pixel.R8G8B8A8UNormSRGB: {gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE},
	pixel.B8G8R8A8UNorm:     {gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE},
	pixel.B8G8R8A8UNormSRGB: {gl.SRGB8_ALPHA8, gl.BGRA, gl.UNSIGNED_BYTE},
	pixel.B8G8R8X8UNorm:     {gl.RGB8, gl.BGRA, gl.UNSIGNED_BYTE},
	pixel.B8G8R8X8UNormSRGB: {gl.SRGB8, gl.BGRA, gl.UNSIGNED_BYTE},
	pixel.R8G8B8UNorm:       {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE},
	pixel.B8G8R8UNorm:       {gl.RGB8, gl.BGR, gl.UNSIGNED_BYTE},
	pixel.B8G8R8UNormSRGB:   {gl.SRGB8, gl.BGR, gl.UNSIGNED_BYTE},
	pixel.R8UNorm:           {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	pixel.A8UNorm:           {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	pixel.R8G8UNorm:         {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	pixel.R16UNorm:          {gl.R16, gl.RED, gl.UNSIGNED_SHORT},
	pixel.R16G16UNorm:       {gl.RG16, gl.RG, gl.UNSIGNED_SHORT},
	pixel.R16G16B16A16UNorm: {gl.RGBA16, gl.RGBA, gl.UNSIGNED_SHORT},
	pixel.R16G16B16A16Float: {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	pixel.R32Float:          {gl.R32F, gl.RED, gl.FLOAT},
	pixel.R32G32B32Float:    {gl.RGB32F, gl.RGB, gl.FLOAT},
	pixel.R32G32B32A32Float: {gl.RGBA32F, gl.RGBA, gl.FLOAT},
	pixel.R10G10B10A2UNorm:  {gl.RGB10_A2, gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV},
	pixel.B5G6R5UNorm:       {gl.RGB8, gl.RGB, gl.UNSIGNED_SHORT_5_6_5},
	pixel.B5G5R5A1UNorm:     {gl.RGB5_A1, gl.BGRA, gl.UNSIGNED_SHORT_1_5_5_5_REV},
	pixel.B4G4R4A4UNorm:     {gl.RGBA4, gl.BGRA, gl.UNSIGNED_SHORT_4_4_4_4_REV},
}

// lookupFormat returns the upload triple for f.
func lookupFormat(f pixel.Format) (glFormat, error) {
	gf, ok := glFormats[f]
	if !ok {
		return glFormat{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return gf, nil
}

// unpackLayout returns the GL_UNPACK_ALIGNMENT and GL_UNPACK_ROW_LENGTH
// (in pixels, 0 for tight rows) that describe rows of rowStride bytes.
func unpackLayout(width, pixelSize, rowStride int) (alignment, rowLength int32, err error) {
	tight := width * pixelSize
	if rowStride < tight {
		return 0, 0, fmt.Errorf("gpu: row stride %d below %d bytes", rowStride, tight)
	}
	for _, a := range []int{1, 2, 4, 8} {
		if (tight+a-1)/a*a == rowStride {
			return int32(a), 0, nil
		}
	}
	if rowStride%pixelSize == 0 {
		return 1, int32(rowStride / pixelSize), nil
	}
	return 0, 0, fmt.Errorf("gpu: row stride %d is not a whole number of %d-byte pixels", rowStride, pixelSize)
}

// Texture is a 2D texture resident in GPU memory.
type Texture struct {
	ID     uint32
	Width  int
	Height int
	Format pixel.Format
}

// TextureUploader implements pixel.TextureSink by creating a 2D texture
// per surface. It needs a current Context.
type TextureUploader struct {
	// Mipmaps generates a full mip chain after each upload.
	Mipmaps bool

	textures []*Texture
	log      *zap.Logger
}

var _ pixel.TextureSink = (*TextureUploader)(nil)

func NewTextureUploader() *TextureUploader {
	return &TextureUploader{log: logger.Named("gpu")}
}

// UploadTexture creates a texture from rows of rowStride bytes.
func (u *TextureUploader) UploadTexture(width, height int, format pixel.Format, rowStride int, data []byte) error {
	gf, err := lookupFormat(format)
	if err != nil {
		return err
	}
	alignment, rowLength, err := unpackLayout(width, pixel.SizeOfInBytes(format), rowStride)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || len(data) < rowStride*height {
		return fmt.Errorf("gpu: %dx%d texture with %d bytes", width, height, len(data))
	}

	tex := &Texture{Width: width, Height: height, Format: format}
	gl.GenTextures(1, &tex.ID)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, alignment)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, rowLength)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gf.internal, int32(width), int32(height), 0, gf.format, gf.xtype, unsafe.Pointer(&data[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	minFilter := int32(gl.LINEAR)
	if u.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex.ID)
		return fmt.Errorf("uploading texture: GL error 0x%04x", code)
	}

	u.textures = append(u.textures, tex)
	u.log.Debug("texture uploaded",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Stringer("format", format),
		zap.Int("row_stride", rowStride),
	)
	return nil
}

// Textures returns the uploaded textures in upload order.
func (u *TextureUploader) Textures() []*Texture {
	return u.textures
}

// Delete frees every uploaded texture.
func (u *TextureUploader) Delete() {
	for _, t := range u.textures {
		gl.DeleteTextures(1, &t.ID)
	}
	u.textures = nil
}
