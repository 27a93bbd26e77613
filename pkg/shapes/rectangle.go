package shapes

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// CornerRadius holds one radius per rectangle corner.
type CornerRadius struct {
	TopLeft     float32 `yaml:"top_left"`
	TopRight    float32 `yaml:"top_right"`
	BottomRight float32 `yaml:"bottom_right"`
	BottomLeft  float32 `yaml:"bottom_left"`
}

// UniformRadius returns a CornerRadius with every corner set to r.
func UniformRadius(r float32) CornerRadius {
	return CornerRadius{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// Clamp limits every radius to 0..min(width, height)/2.
func (c CornerRadius) Clamp(width, height float32) CornerRadius {
	limit := min(width, height) / 2
	clamp := func(r float32) float32 {
		return min(max(r, 0), limit)
	}
	return CornerRadius{
		TopLeft:     clamp(c.TopLeft),
		TopRight:    clamp(c.TopRight),
		BottomRight: clamp(c.BottomRight),
		BottomLeft:  clamp(c.BottomLeft),
	}
}

// Rectangle returns a rectangle in the XY plane facing +Z, centered on the
// origin. Each rounded corner is a quarter circle of tessellation segments.
func Rectangle(geom GeometryType, width, height float32, radius CornerRadius, tessellation int, tf *math.Mat4) *mesh.Mesh {
	width, height = clampSize(width), clampSize(height)
	tessellation = max(tessellation, 1)
	outline := rectangleOutline(width, height, radius.Clamp(width, height), tessellation)

	return build(geom, tf,
		func() *mesh.Mesh {
			var b builder
			b.fan(math.Vec3{}, outline, width, height)
			return b.mesh(mesh.TriangleList).CalculateNormals()
		},
		func() *mesh.Mesh {
			var b builder
			b.loop(outline...)
			return b.mesh(mesh.LineStrip)
		},
	)
}

// rectangleOutline lists the border counter-clockwise starting at the top
// right corner. Coincident neighbours are dropped.
func rectangleOutline(width, height float32, radius CornerRadius, t int) []math.Vec3 {
	hw, hh := width/2, height/2
	corners := []struct {
		r      float32
		sx, sy float32
	}{
		{radius.TopRight, 1, 1},
		{radius.TopLeft, -1, 1},
		{radius.BottomLeft, -1, -1},
		{radius.BottomRight, 1, -1},
	}

	var points []math.Vec3
	add := func(p math.Vec3) {
		if len(points) > 0 && points[len(points)-1].ApproxEqual(p, 1e-6) {
			return
		}
		points = append(points, p)
	}
	for k, c := range corners {
		if c.r == 0 {
			add(math.Vec3{X: c.sx * hw, Y: c.sy * hh})
			continue
		}
		cx, cy := c.sx*(hw-c.r), c.sy*(hh-c.r)
		start := float32(k) * math32.Pi / 2
		for i := 0; i <= t; i++ {
			angle := start + float32(i)*math32.Pi/2/float32(t)
			add(math.Vec3{X: cx + c.r*math32.Cos(angle), Y: cy + c.r*math32.Sin(angle)})
		}
	}
	if len(points) > 1 && points[0].ApproxEqual(points[len(points)-1], 1e-6) {
		points = points[:len(points)-1]
	}
	return points
}
