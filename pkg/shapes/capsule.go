package shapes

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Capsule returns a cylinder of the given height capped by two
// hemispheres, so the total extent along Y is height + diameter.
func Capsule(geom GeometryType, diameter, height float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	radius := clampSize(diameter) / 2
	height = clampSize(height)
	tessellation = max(tessellation, 8)

	return build(geom, tf,
		func() *mesh.Mesh { return capsuleSolid(radius, height, tessellation) },
		func() *mesh.Mesh { return capsuleOutline(radius, height, tessellation) },
	)
}

// capsuleSolid builds t+1 latitude rings per hemisphere; the rings at both
// equators are joined by the cylindrical section. V follows arc length.
func capsuleSolid(radius, height float32, t int) *mesh.Mesh {
	var b builder
	var normals []math.Vec3
	horizontal := 4 * t
	half := height / 2
	quarterArc := radius * math32.Pi / 2
	total := 2*quarterArc + height

	for hemisphere := 0; hemisphere < 2; hemisphere++ {
		offset, start, arc := -half, -math32.Pi/2, float32(0)
		if hemisphere == 1 {
			offset, start, arc = half, 0, quarterArc+height
		}
		for i := 0; i <= t; i++ {
			step := float32(i) / float32(t)
			latitude := start + step*math32.Pi/2
			dy, dxz := math32.Sin(latitude), math32.Cos(latitude)
			v := 1 - (arc+step*quarterArc)/total

			for j := 0; j <= horizontal; j++ {
				u := float32(j) / float32(horizontal)
				longitude := u * 2 * math32.Pi
				n := math.Vec3{X: math32.Sin(longitude) * dxz, Y: dy, Z: math32.Cos(longitude) * dxz}
				b.vertex(n.Scale(radius).Add(math.Vec3{Y: offset}), math.Vec2{X: 1 - u, Y: v})
				normals = append(normals, n)
			}
		}
	}

	rings := uint32(2 * (t + 1))
	stride := uint32(horizontal + 1)
	for i := uint32(0); i+1 < rings; i++ {
		for j := uint32(0); j < uint32(horizontal); j++ {
			a := i*stride + j
			b.quad(a, a+1, a+stride+1, a+stride)
		}
	}

	return b.mesh(mesh.TriangleList).SetNormals(normals)
}

func capsuleOutline(radius, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2

	// profile in the XY plane: upper semicircle, then lower; the loop's
	// two jumps between them are the straight sides
	steps := t / 2
	profile := make([]math.Vec3, 0, 2*(steps+1))
	for _, arc := range []struct{ offset, start float32 }{{half, 0}, {-half, math32.Pi}} {
		for k := 0; k <= steps; k++ {
			angle := arc.start + float32(k)*math32.Pi/float32(steps)
			profile = append(profile, math.Vec3{
				X: radius * math32.Cos(angle),
				Y: radius*math32.Sin(angle) + arc.offset,
			})
		}
	}
	b.loop(profile...)

	side := make([]math.Vec3, len(profile))
	for i, p := range profile {
		side[i] = math.Vec3{Y: p.Y, Z: p.X}
	}
	b.loop(side...)

	b.loop(ring(radius, -half, t)...)
	b.loop(ring(radius, half, t)...)
	return b.mesh(mesh.LineStrip)
}
