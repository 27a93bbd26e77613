package shapes

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Torus returns a ring around the Y axis. Diameter is measured through the
// center of the tube; thickness is the tube's diameter.
func Torus(geom GeometryType, diameter, thickness float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	radius := clampSize(diameter) / 2
	tube := clampSize(thickness) / 2
	tessellation = max(tessellation, 3)

	return build(geom, tf,
		func() *mesh.Mesh { return torusSolid(radius, tube, tessellation) },
		func() *mesh.Mesh { return torusOutline(radius, tube, tessellation) },
	)
}

// torusPoint returns the surface point and normal at ring step i and tube
// step j.
func torusPoint(radius, tube float32, i, j, t int) (math.Vec3, math.Vec3) {
	out := circle(i, t)
	angle := float32(j) * 2 * math32.Pi / float32(t)
	n := out.Scale(math32.Cos(angle)).Add(math.Vec3{Y: math32.Sin(angle)})
	return out.Scale(radius).Add(n.Scale(tube)), n
}

func torusSolid(radius, tube float32, t int) *mesh.Mesh {
	var b builder
	normals := make([]math.Vec3, 0, (t+1)*(t+1))

	for i := 0; i <= t; i++ {
		for j := 0; j <= t; j++ {
			p, n := torusPoint(radius, tube, i, j, t)
			b.vertex(p, math.Vec2{X: float32(i) / float32(t), Y: float32(j) / float32(t)})
			normals = append(normals, n)
		}
	}

	stride := uint32(t + 1)
	for i := uint32(0); i < uint32(t); i++ {
		for j := uint32(0); j < uint32(t); j++ {
			a := i*stride + j
			b.quad(a, a+stride, a+stride+1, a+1)
		}
	}
	return b.mesh(mesh.TriangleList).SetNormals(normals)
}

// torusOutline draws a cross-section loop at every ring step and a ring
// loop at every tube step.
func torusOutline(radius, tube float32, t int) *mesh.Mesh {
	var b builder
	loop := make([]math.Vec3, t)
	for i := 0; i < t; i++ {
		for j := range loop {
			loop[j], _ = torusPoint(radius, tube, i, j, t)
		}
		b.loop(loop...)
	}
	for j := 0; j < t; j++ {
		for i := range loop {
			loop[i], _ = torusPoint(radius, tube, i, j, t)
		}
		b.loop(loop...)
	}
	return b.mesh(mesh.LineStrip)
}
