package shapes

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Cube returns a box centered on the origin. Each face is a grid of
// tessellation x tessellation quads with its own vertices, so texture
// coordinates and normals do not bleed across edges.
func Cube(geom GeometryType, width, height, depth float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	width, height, depth = clampSize(width), clampSize(height), clampSize(depth)
	tessellation = max(tessellation, 1)

	return build(geom, tf,
		func() *mesh.Mesh { return cubeSolid(width, height, depth, tessellation) },
		func() *mesh.Mesh { return cubeOutline(width, height, depth) },
	)
}

func cubeSolid(width, height, depth float32, t int) *mesh.Mesh {
	sx, sy, sz := width/2, height/2, depth/2
	var b builder
	one := math.Vec2{X: 1, Y: 1}

	// front, right, back, left, top, bottom; u x v points outwards
	b.grid(math.Vec3{X: sx, Y: -sy, Z: -sz}, math.Vec3{X: -width}, math.Vec3{Y: height}, t, one)
	b.grid(math.Vec3{X: sx, Y: -sy, Z: sz}, math.Vec3{Z: -depth}, math.Vec3{Y: height}, t, one)
	b.grid(math.Vec3{X: -sx, Y: -sy, Z: sz}, math.Vec3{X: width}, math.Vec3{Y: height}, t, one)
	b.grid(math.Vec3{X: -sx, Y: -sy, Z: -sz}, math.Vec3{Z: depth}, math.Vec3{Y: height}, t, one)
	b.grid(math.Vec3{X: -sx, Y: sy, Z: sz}, math.Vec3{X: width}, math.Vec3{Z: -depth}, t, one)
	b.grid(math.Vec3{X: -sx, Y: -sy, Z: -sz}, math.Vec3{X: width}, math.Vec3{Z: depth}, t, one)

	return b.mesh(mesh.TriangleList).CalculateNormals()
}

func cubeOutline(width, height, depth float32) *mesh.Mesh {
	x0, y0, z0 := -width/2, -height/2, -depth/2
	x1, y1, z1 := width/2, height/2, depth/2

	positions := []math.Vec3{
		{X: x0, Y: y0, Z: z0},
		{X: x0, Y: y1, Z: z0},
		{X: x1, Y: y1, Z: z0},
		{X: x1, Y: y0, Z: z0},
		{X: x0, Y: y0, Z: z1},
		{X: x0, Y: y1, Z: z1},
		{X: x1, Y: y1, Z: z1},
		{X: x1, Y: y0, Z: z1},
	}
	r := mesh.RestartIndex
	indices := []uint32{
		0, 1, 2, 3, 0, 4, 5, 6, 7, 4,
		r, 1, 5,
		r, 2, 6,
		r, 3, 7,
	}
	return mesh.New().
		SetTopology(mesh.LineStrip).
		SetPositions(positions).
		SetIndices(indices)
}

// grid appends a (t+1) x (t+1) vertex patch spanning origin+u and origin+v.
// Triangles face along u x v. Texture V runs from 1 at the origin row to 0.
func (b *builder) grid(origin, u, v math.Vec3, t int, uvScale math.Vec2) {
	base := b.base()
	for y := 0; y <= t; y++ {
		fy := float32(y) / float32(t)
		for x := 0; x <= t; x++ {
			fx := float32(x) / float32(t)
			p := origin.Add(u.Scale(fx)).Add(v.Scale(fy))
			b.vertex(p, math.Vec2{X: fx * uvScale.X, Y: (1 - fy) * uvScale.Y})
		}
	}

	stride := uint32(t + 1)
	for y := 0; y < t; y++ {
		for x := 0; x < t; x++ {
			i := base + uint32(y)*stride + uint32(x)
			b.quad(i, i+1, i+stride+1, i+stride)
		}
	}
}
