package shapes

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Plane returns a grid in the XZ plane facing +Y. uvFactor scales the
// texture coordinates so a texture can repeat across the plane; a zero
// factor means (1, 1).
func Plane(geom GeometryType, width, length float32, tessellation int, uvFactor math.Vec2, tf *math.Mat4) *mesh.Mesh {
	width, length = clampSize(width), clampSize(length)
	tessellation = max(tessellation, 1)
	if uvFactor == (math.Vec2{}) {
		uvFactor = math.Vec2{X: 1, Y: 1}
	}

	return build(geom, tf,
		func() *mesh.Mesh {
			var b builder
			b.grid(math.Vec3{X: -width / 2, Z: length / 2}, math.Vec3{X: width}, math.Vec3{Z: -length}, tessellation, uvFactor)
			return b.mesh(mesh.TriangleList).CalculateNormals()
		},
		func() *mesh.Mesh {
			var b builder
			x, z := width/2, length/2
			b.loop(
				math.Vec3{X: -x, Z: -z},
				math.Vec3{X: -x, Z: z},
				math.Vec3{X: x, Z: z},
				math.Vec3{X: x, Z: -z},
			)
			return b.mesh(mesh.LineStrip)
		},
	)
}

// Polygon returns a regular polygon in the XY plane facing +Z, inscribed
// in a circle of the given diameter with its first corner on +X.
func Polygon(geom GeometryType, diameter float32, sides int, tf *math.Mat4) *mesh.Mesh {
	diameter = clampSize(diameter)
	sides = max(sides, 3)
	corners := polygonCorners(diameter/2, sides)

	return build(geom, tf,
		func() *mesh.Mesh {
			var b builder
			b.fan(math.Vec3{}, corners, diameter, diameter)
			return b.mesh(mesh.TriangleList).CalculateNormals()
		},
		func() *mesh.Mesh {
			var b builder
			b.loop(corners...)
			return b.mesh(mesh.LineStrip)
		},
	)
}

func polygonCorners(radius float32, sides int) []math.Vec3 {
	corners := make([]math.Vec3, sides)
	for i := range corners {
		angle := float32(i) * 2 * math32.Pi / float32(sides)
		corners[i] = math.Vec3{X: radius * math32.Cos(angle), Y: radius * math32.Sin(angle)}
	}
	return corners
}

// fan appends a closed triangle fan around center over a counter-clockwise
// outline in the XY plane. Texture coordinates map the width x height box
// around the origin onto the unit square.
func (b *builder) fan(center math.Vec3, outline []math.Vec3, width, height float32) {
	uv := func(p math.Vec3) math.Vec2 {
		return math.Vec2{X: 0.5 + p.X/width, Y: 0.5 - p.Y/height}
	}
	c := b.vertex(center, uv(center))
	for _, p := range outline {
		b.vertex(p, uv(p))
	}
	n := uint32(len(outline))
	for i := uint32(0); i < n; i++ {
		b.triangle(c, c+1+i, c+1+(i+1)%n)
	}
}
