package shapes

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Tube returns a hollow cylinder along the Y axis. The hole has the given
// diameter and the wall the given thickness; annular caps close both ends.
func Tube(geom GeometryType, diameter, height, thickness float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	inner := clampSize(diameter) / 2
	outer := inner + clampSize(thickness)
	height = clampSize(height)
	tessellation = max(tessellation, 3)

	return build(geom, tf,
		func() *mesh.Mesh { return tubeSolid(inner, outer, height, tessellation) },
		func() *mesh.Mesh { return tubeOutline(inner, outer, height, tessellation) },
	)
}

func tubeSolid(inner, outer, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2

	b.wall(inner, half, t, false)
	b.wall(outer, half, t, true)
	b.annulus(inner, outer, half, t, true)
	b.annulus(inner, outer, -half, t, false)

	return b.mesh(mesh.TriangleList).CalculateNormals()
}

// wall appends the side of a cylinder, facing away from the axis when
// outward is set and towards it otherwise.
func (b *builder) wall(radius, half float32, t int, outward bool) {
	base := b.base()
	for i := 0; i <= t; i++ {
		c := circle(i, t).Scale(radius)
		u := float32(i) / float32(t)
		b.vertex(c.Add(math.Vec3{Y: half}), math.Vec2{X: u})
		b.vertex(c.Add(math.Vec3{Y: -half}), math.Vec2{X: u, Y: 1})
	}
	for i := uint32(0); i < uint32(t); i++ {
		top, bottom := base+2*i, base+2*i+1
		if outward {
			b.quad(bottom, bottom+2, top+2, top)
		} else {
			b.quad(bottom, top, top+2, bottom+2)
		}
	}
}

// annulus appends a flat ring between inner and outer at height y.
func (b *builder) annulus(inner, outer, y float32, t int, up bool) {
	base := b.base()
	diameter := 2 * outer
	for _, r := range []float32{inner, outer} {
		for _, p := range ring(r, y, t) {
			b.vertex(p, math.Vec2{X: 0.5 + p.X/diameter, Y: 0.5 - p.Z/diameter})
		}
	}
	n := uint32(t)
	for i := uint32(0); i < n; i++ {
		in0, in1 := base+i, base+(i+1)%n
		out0, out1 := in0+n, in1+n
		if up {
			b.quad(in0, out0, out1, in1)
		} else {
			b.quad(in0, in1, out1, out0)
		}
	}
}

func tubeOutline(inner, outer, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2
	innerBottom, innerTop := ring(inner, -half, t), ring(inner, half, t)
	outerBottom, outerTop := ring(outer, -half, t), ring(outer, half, t)

	for _, r := range [][]math.Vec3{innerBottom, innerTop, outerBottom, outerTop} {
		b.loop(r...)
	}
	for i := 0; i < t; i++ {
		b.loop(innerBottom[i], innerTop[i], outerTop[i], outerBottom[i])
	}
	return b.mesh(mesh.LineStrip)
}
