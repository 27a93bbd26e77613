package gpu

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

// These tests cover the parts that need no GL context.

func TestDrawMode(t *testing.T) {
	tests := []struct {
		topology mesh.Topology
		want     uint32
	}{
		{mesh.PointList, gl.POINTS},
		{mesh.LineList, gl.LINES},
		{mesh.LineStrip, gl.LINE_STRIP},
		{mesh.TriangleList, gl.TRIANGLES},
		{mesh.TriangleStrip, gl.TRIANGLE_STRIP},
	}
	for _, tt := range tests {
		got, err := drawMode(tt.topology)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.topology.String())
	}

	_, err := drawMode(mesh.Topology(99))
	assert.Error(t, err)
}

func TestInterleave(t *testing.T) {
	positions := []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	normals := []math.Vec3{{Z: 1}, {Y: 1}}
	uvs := []math.Vec2{{X: 0.25, Y: 0.75}}

	got := interleave(positions, uvs, normals)
	assert.Equal(t, []float32{
		1, 2, 3, 0, 0, 1, 0.25, 0.75,
		4, 5, 6, 0, 1, 0, 0, 0,
	}, got)

	assert.Len(t, interleave(positions, nil, nil), 2*vertexFloats)
}

func TestLookupFormat(t *testing.T) {
	gf, err := lookupFormat(pixel.B8G8R8A8UNorm)
	require.NoError(t, err)
	assert.Equal(t, glFormat{gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE}, gf)

	gf, err = lookupFormat(pixel.B5G5R5A1UNorm)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.UNSIGNED_SHORT_1_5_5_5_REV), gf.xtype)

	_, err = lookupFormat(pixel.BC1UNorm)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEveryMappedFormatIsValid(t *testing.T) {
	for f := range glFormats {
		assert.True(t, pixel.IsValid(f), f.String())
		assert.False(t, pixel.IsCompressed(f), f.String())
	}
}

func TestUnpackLayout(t *testing.T) {
	tests := []struct {
		name                      string
		width, pixelSize, stride  int
		wantAlignment, wantLength int32
		err                       bool
	}{
		{"tight rgba", 5, 4, 20, 1, 0, false},
		{"bmp padded bgr", 5, 3, 16, 2, 0, false},
		{"bmp padded to four", 2, 3, 8, 4, 0, false},
		{"tight 565", 3, 2, 6, 1, 0, false},
		{"even 565 row", 3, 2, 8, 4, 0, false},
		{"wide rgba stride", 4, 4, 64, 1, 16, false},
		{"short stride", 4, 4, 12, 0, 0, true},
		{"odd stride", 5, 3, 40, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alignment, length, err := unpackLayout(tt.width, tt.pixelSize, tt.stride)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlignment, alignment)
			assert.Equal(t, tt.wantLength, length)
		})
	}
}
