package shapes

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// EllipseType selects how a partial ellipse is closed.
type EllipseType uint8

const (
	// EllipseSegment closes a partial arc with a chord.
	EllipseSegment EllipseType = iota
	// EllipseSector closes a partial arc through the center.
	EllipseSector
)

func (e EllipseType) String() string {
	if e == EllipseSector {
		return "sector"
	}
	return "segment"
}

// ParseEllipseType parses "segment" (or "ellipse") and "sector".
func ParseEllipseType(s string) (EllipseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "segment", "ellipse":
		return EllipseSegment, nil
	case "sector":
		return EllipseSector, nil
	}
	return EllipseSegment, fmt.Errorf("unknown ellipse type %q", s)
}

// arcPoints samples an ellipse with radii rx, ry from start to stop degrees.
// Sweeps of a full turn or more return t points without the closing
// duplicate and report full.
func arcPoints(rx, ry, start, stop float32, clockwise bool, t int) (points []math.Vec3, full bool) {
	sweep := stop - start
	if math32.Abs(sweep) >= 360 {
		sweep, full = 360, true
	}
	sweep = math32.Abs(sweep)
	if clockwise {
		sweep = -sweep
	}

	n := t + 1
	if full {
		n = t
	}
	points = make([]math.Vec3, n)
	for i := range points {
		angle := (start + sweep*float32(i)/float32(t)) * math32.Pi / 180
		points[i] = math.Vec3{X: rx * math32.Cos(angle), Y: ry * math32.Sin(angle)}
	}
	return points, full
}

// Ellipse returns an ellipse or a part of one in the XY plane facing +Z.
// Angles are in degrees counter-clockwise from +X; clockwise sweeps the
// other way from startAngle.
func Ellipse(geom GeometryType, kind EllipseType, diameter math.Vec2, startAngle, stopAngle float32, clockwise bool, tessellation int, tf *math.Mat4) *mesh.Mesh {
	width, height := clampSize(diameter.X), clampSize(diameter.Y)
	tessellation = max(tessellation, 3)
	points, full := arcPoints(width/2, height/2, startAngle, stopAngle, clockwise, tessellation)

	// closing corner of a partial sector
	var closing []math.Vec3
	if !full && kind == EllipseSector {
		closing = []math.Vec3{{}}
	}

	return build(geom, tf,
		func() *mesh.Mesh {
			var b builder
			uv := func(p math.Vec3) math.Vec2 {
				return math.Vec2{X: 0.5 + p.X/width, Y: 0.5 - p.Y/height}
			}
			pivot, first := math.Vec3{}, uint32(0)
			if !full && kind == EllipseSegment {
				pivot, first = points[0], 1
			}
			c := b.vertex(pivot, uv(pivot))
			for _, p := range points {
				b.vertex(p, uv(p))
			}

			n := uint32(len(points))
			segments := n - 1
			if full {
				segments = n
			}
			for i := first; i < segments; i++ {
				a, next := c+1+i, c+1+(i+1)%n
				if clockwise {
					b.triangle(c, next, a)
				} else {
					b.triangle(c, a, next)
				}
			}
			return b.mesh(mesh.TriangleList).Optimize()
		},
		func() *mesh.Mesh {
			var b builder
			b.loop(append(points, closing...)...)
			return b.mesh(mesh.LineStrip)
		},
	)
}

// Arc returns a flat band of the given thickness following an ellipse,
// measured inwards from the outer edge.
func Arc(geom GeometryType, diameter math.Vec2, thickness, startAngle, stopAngle float32, clockwise bool, tessellation int, tf *math.Mat4) *mesh.Mesh {
	width, height := clampSize(diameter.X), clampSize(diameter.Y)
	thickness = min(clampSize(thickness), min(width, height)/2)
	tessellation = max(tessellation, 3)

	outer, full := arcPoints(width/2, height/2, startAngle, stopAngle, clockwise, tessellation)
	inner, _ := arcPoints(width/2-thickness, height/2-thickness, startAngle, stopAngle, clockwise, tessellation)

	return build(geom, tf,
		func() *mesh.Mesh {
			var b builder
			uv := func(p math.Vec3) math.Vec2 {
				return math.Vec2{X: 0.5 + p.X/width, Y: 0.5 - p.Y/height}
			}
			base := b.base()
			for i := range outer {
				b.vertex(outer[i], uv(outer[i]))
				b.vertex(inner[i], uv(inner[i]))
			}

			n := uint32(len(outer))
			segments := n - 1
			if full {
				segments = n
			}
			for i := uint32(0); i < segments; i++ {
				o0, i0 := base+2*i, base+2*i+1
				o1, i1 := base+2*((i+1)%n), base+2*((i+1)%n)+1
				if clockwise {
					b.quad(i0, i1, o1, o0)
				} else {
					b.quad(i0, o0, o1, i1)
				}
			}
			return b.mesh(mesh.TriangleList).Optimize()
		},
		func() *mesh.Mesh {
			var b builder
			if full {
				b.loop(outer...)
				b.loop(inner...)
				return b.mesh(mesh.LineStrip)
			}
			border := append([]math.Vec3(nil), outer...)
			for i := len(inner) - 1; i >= 0; i-- {
				border = append(border, inner[i])
			}
			b.loop(border...)
			return b.mesh(mesh.LineStrip)
		},
	)
}
