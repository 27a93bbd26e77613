// Package shapes generates procedural meshes: boxes, spheres, cylinders,
// tori, flat primitives and the classic Bezier teapot.
//
// Every generator returns a fresh *mesh.Mesh. Solid output is an indexed
// triangle list wound counter-clockwise when seen from outside. Outlined
// output is a line strip whose loops are separated by mesh.RestartIndex.
// Both returns the solid surface with the outline loops in Contours.
//
// Sizes that are not positive are clamped to MinSize and tessellation is
// raised to each shape's minimum, so generators never fail on degenerate
// input. The teapot is the exception and rejects tessellation below one.
package shapes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// MinSize replaces any non-positive size or diameter.
const MinSize = 0.01

var (
	ErrInvalidTessellation = errors.New("invalid tessellation")
	ErrUnknownShape        = errors.New("unknown shape")
)

// GeometryType selects filled, wireframe or combined output.
type GeometryType uint8

const (
	Solid GeometryType = iota
	Outlined
	Both
)

func (g GeometryType) String() string {
	switch g {
	case Solid:
		return "solid"
	case Outlined:
		return "outlined"
	case Both:
		return "both"
	}
	return fmt.Sprintf("GeometryType(%d)", g)
}

// ParseGeometryType parses "solid", "outlined" or "both".
func ParseGeometryType(s string) (GeometryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return Solid, nil
	case "outlined", "outline", "wire":
		return Outlined, nil
	case "both":
		return Both, nil
	}
	return Solid, fmt.Errorf("unknown geometry type %q", s)
}

// SphereType selects the sphere tessellation algorithm.
type SphereType uint8

const (
	// UVSphere is a latitude/longitude grid.
	UVSphere SphereType = iota
	// GeoSphere is a recursively subdivided octahedron.
	GeoSphere
	// CubeSphere is a tessellated cube projected onto the sphere.
	CubeSphere
)

func (s SphereType) String() string {
	switch s {
	case UVSphere:
		return "uv"
	case GeoSphere:
		return "geo"
	case CubeSphere:
		return "cube"
	}
	return fmt.Sprintf("SphereType(%d)", s)
}

// ParseSphereType parses "uv", "geo" or "cube".
func ParseSphereType(s string) (SphereType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uv":
		return UVSphere, nil
	case "geo", "geosphere":
		return GeoSphere, nil
	case "cube", "cubesphere":
		return CubeSphere, nil
	}
	return UVSphere, fmt.Errorf("unknown sphere type %q", s)
}

func clampSize(v float32) float32 {
	if v <= 0 {
		return MinSize
	}
	return v
}

// circle returns the unit vector at step i of n around the Y axis,
// starting at +Z and turning towards +X.
func circle(i, n int) math.Vec3 {
	angle := float32(i) * 2 * math32.Pi / float32(n)
	return math.Vec3{X: math32.Sin(angle), Z: math32.Cos(angle)}
}

// build runs the solid and outline generators the geometry type asks for
// and applies the transform to the result.
func build(geom GeometryType, tf *math.Mat4, solid, outline func() *mesh.Mesh) *mesh.Mesh {
	var m *mesh.Mesh
	switch geom {
	case Outlined:
		m = outline()
	case Both:
		m = solid()
		m.SetContours(contours(outline()))
	default:
		m = solid()
	}
	return m.ApplyTransform(tf)
}

// contours splits a line strip into position loops at every restart.
func contours(m *mesh.Mesh) [][]math.Vec3 {
	var out [][]math.Vec3
	var cur []math.Vec3
	for _, i := range m.Indices {
		if i == mesh.RestartIndex {
			if len(cur) > 1 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, m.Positions[i])
	}
	if len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

// builder accumulates vertices and indices for one mesh.
type builder struct {
	positions []math.Vec3
	uvs       []math.Vec2
	indices   []uint32
}

func (b *builder) base() uint32 {
	return uint32(len(b.positions))
}

// vertex appends a textured vertex and returns its index.
func (b *builder) vertex(p math.Vec3, uv math.Vec2) uint32 {
	b.positions = append(b.positions, p)
	b.uvs = append(b.uvs, uv)
	return uint32(len(b.positions) - 1)
}

func (b *builder) triangle(i0, i1, i2 uint32) {
	b.indices = append(b.indices, i0, i1, i2)
}

// quad appends two triangles for the corners a b c d given counter-clockwise.
func (b *builder) quad(a, bb, c, d uint32) {
	b.indices = append(b.indices, a, bb, c, a, c, d)
}

// strip appends an untextured line strip through points, separated from
// the previous strip by a restart.
func (b *builder) strip(points ...math.Vec3) {
	if len(b.indices) > 0 {
		b.indices = append(b.indices, mesh.RestartIndex)
	}
	for _, p := range points {
		b.positions = append(b.positions, p)
		b.indices = append(b.indices, uint32(len(b.positions)-1))
	}
}

// loop is strip with the first point repeated at the end.
func (b *builder) loop(points ...math.Vec3) {
	if len(points) == 0 {
		return
	}
	b.strip(append(points[:len(points):len(points)], points[0])...)
}

func (b *builder) mesh(t mesh.Topology) *mesh.Mesh {
	m := mesh.New().
		SetTopology(t).
		SetPositions(b.positions).
		SetIndices(b.indices)
	if len(b.uvs) == len(b.positions) && len(b.uvs) > 0 {
		m.SetUVs(0, b.uvs)
	}
	return m
}

// ring returns n points on a circle of radius r at height y, without the
// closing duplicate.
func ring(r, y float32, n int) []math.Vec3 {
	points := make([]math.Vec3, n)
	for i := range points {
		c := circle(i, n)
		points[i] = math.Vec3{X: c.X * r, Y: y, Z: c.Z * r}
	}
	return points
}
