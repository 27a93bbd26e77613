package shapes

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Cone returns a truncated cone along the Y axis. A top diameter of zero
// closes the side in an apex and drops the top cap.
func Cone(geom GeometryType, topDiameter, bottomDiameter, height float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	topRadius := max(topDiameter, 0) / 2
	bottomRadius := clampSize(bottomDiameter) / 2
	height = clampSize(height)
	tessellation = max(tessellation, 3)

	return build(geom, tf,
		func() *mesh.Mesh { return coneSolid(topRadius, bottomRadius, height, tessellation) },
		func() *mesh.Mesh { return coneOutline(topRadius, bottomRadius, height, tessellation) },
	)
}

// Cylinder returns a capped cylinder along the Y axis.
func Cylinder(geom GeometryType, diameter, height float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	radius := clampSize(diameter) / 2
	height = clampSize(height)
	tessellation = max(tessellation, 3)

	return build(geom, tf,
		func() *mesh.Mesh { return coneSolid(radius, radius, height, tessellation) },
		func() *mesh.Mesh { return cylinderOutline(radius, height, tessellation) },
	)
}

func coneSolid(topRadius, bottomRadius, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2
	apex := topRadius == 0

	base := b.base()
	for i := 0; i <= t; i++ {
		c := circle(i, t)
		u := float32(i) / float32(t)
		if apex {
			u = (float32(i) + 0.5) / float32(t)
		}
		b.vertex(c.Scale(topRadius).Add(math.Vec3{Y: half}), math.Vec2{X: u})
		b.vertex(c.Scale(bottomRadius).Add(math.Vec3{Y: -half}), math.Vec2{X: float32(i) / float32(t), Y: 1})
	}
	for i := uint32(0); i < uint32(t); i++ {
		top, bottom := base+2*i, base+2*i+1
		if apex {
			b.triangle(bottom, bottom+2, top)
			continue
		}
		b.quad(bottom, bottom+2, top+2, top)
	}

	b.cap(topRadius, half, t, true)
	b.cap(bottomRadius, -half, t, false)
	return b.mesh(mesh.TriangleList).Optimize()
}

// cap appends a flat disc at height y facing up or down. A zero radius
// adds nothing.
func (b *builder) cap(radius, y float32, t int, up bool) {
	if radius <= 0 {
		return
	}
	diameter := 2 * radius
	center := b.vertex(math.Vec3{Y: y}, math.Vec2{X: 0.5, Y: 0.5})
	for _, p := range ring(radius, y, t) {
		b.vertex(p, math.Vec2{X: 0.5 + p.X/diameter, Y: 0.5 - p.Z/diameter})
	}
	n := uint32(t)
	for i := uint32(0); i < n; i++ {
		a, c := center+1+i, center+1+(i+1)%n
		if up {
			b.triangle(center, a, c)
		} else {
			b.triangle(center, c, a)
		}
	}
}

func coneOutline(topRadius, bottomRadius, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2
	bottom := ring(bottomRadius, -half, t)
	b.loop(bottom...)

	quarter := t / 4
	opposite := t / 2
	if topRadius == 0 {
		apex := math.Vec3{Y: half}
		b.strip(bottom[0], apex, bottom[opposite])
		b.strip(bottom[quarter], apex, bottom[(quarter+opposite)%t])
		return b.mesh(mesh.LineStrip)
	}

	top := ring(topRadius, half, t)
	b.loop(top...)
	for _, i := range []int{0, quarter, opposite, (quarter + opposite) % t} {
		b.strip(bottom[i], top[i])
	}
	return b.mesh(mesh.LineStrip)
}

func cylinderOutline(radius, height float32, t int) *mesh.Mesh {
	var b builder
	half := height / 2
	bottom := ring(radius, -half, t)
	top := ring(radius, half, t)
	b.loop(bottom...)
	b.loop(top...)
	for i := range bottom {
		b.strip(bottom[i], top[i])
	}
	return b.mesh(mesh.LineStrip)
}
