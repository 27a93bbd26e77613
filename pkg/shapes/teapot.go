package shapes

import (
	"fmt"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// teapotPatch is a bicubic Bezier patch given as indices into
// teapotControlPoints. Every patch is mirrored in X; mirrorZ patches are
// mirrored in Z as well.
type teapotPatch struct {
	mirrorZ bool
	indices [16]int
}

// teapotPatches are the rim, body, lid, handle, spout and bottom of the
// classic Newell teapot. The lid and bottom patches repeat one control
// point along an edge, which collapses that edge to a pole.
var teapotPatches = []teapotPatch{
	{mirrorZ: true, indices: [16]int{102, 103, 104, 105, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
	{mirrorZ: true, indices: [16]int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27}},
	{mirrorZ: true, indices: [16]int{24, 25, 26, 27, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40}},
	{mirrorZ: true, indices: [16]int{96, 96, 96, 96, 97, 98, 99, 100, 101, 101, 101, 101, 0, 1, 2, 3}},
	{mirrorZ: true, indices: [16]int{0, 1, 2, 3, 106, 107, 108, 109, 110, 111, 112, 113, 114, 115, 116, 117}},
	{mirrorZ: false, indices: [16]int{41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56}},
	{mirrorZ: false, indices: [16]int{53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, 28, 65, 66, 67}},
	{mirrorZ: false, indices: [16]int{68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 81, 82, 83}},
	{mirrorZ: false, indices: [16]int{80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95}},
	{mirrorZ: true, indices: [16]int{118, 118, 118, 118, 124, 122, 119, 121, 123, 126, 125, 120, 40, 39, 38, 37}},
}

var teapotControlPoints = []math.Vec3{
	{X: 0, Y: 0.345, Z: -0.05},
	{X: -0.028, Y: 0.345, Z: -0.05},
	{X: -0.05, Y: 0.345, Z: -0.028},
	{X: -0.05, Y: 0.345, Z: 0},
	{X: 0, Y: 0.3028125, Z: -0.334375},
	{X: -0.18725, Y: 0.3028125, Z: -0.334375},
	{X: -0.334375, Y: 0.3028125, Z: -0.18725},
	{X: -0.334375, Y: 0.3028125, Z: 0},
	{X: 0, Y: 0.3028125, Z: -0.359375},
	{X: -0.20125, Y: 0.3028125, Z: -0.359375},
	{X: -0.359375, Y: 0.3028125, Z: -0.20125},
	{X: -0.359375, Y: 0.3028125, Z: 0},
	{X: 0, Y: 0.27, Z: -0.375},
	{X: -0.21, Y: 0.27, Z: -0.375},
	{X: -0.375, Y: 0.27, Z: -0.21},
	{X: -0.375, Y: 0.27, Z: 0},
	{X: 0, Y: 0.13875, Z: -0.4375},
	{X: -0.245, Y: 0.13875, Z: -0.4375},
	{X: -0.4375, Y: 0.13875, Z: -0.245},
	{X: -0.4375, Y: 0.13875, Z: 0},
	{X: 0, Y: 0.007499993, Z: -0.5},
	{X: -0.28, Y: 0.007499993, Z: -0.5},
	{X: -0.5, Y: 0.007499993, Z: -0.28},
	{X: -0.5, Y: 0.007499993, Z: 0},
	{X: 0, Y: -0.105, Z: -0.5},
	{X: -0.28, Y: -0.105, Z: -0.5},
	{X: -0.5, Y: -0.105, Z: -0.28},
	{X: -0.5, Y: -0.105, Z: 0},
	{X: 0, Y: -0.105, Z: 0.5},
	{X: 0, Y: -0.2175, Z: -0.5},
	{X: -0.28, Y: -0.2175, Z: -0.5},
	{X: -0.5, Y: -0.2175, Z: -0.28},
	{X: -0.5, Y: -0.2175, Z: 0},
	{X: 0, Y: -0.27375, Z: -0.375},
	{X: -0.21, Y: -0.27375, Z: -0.375},
	{X: -0.375, Y: -0.27375, Z: -0.21},
	{X: -0.375, Y: -0.27375, Z: 0},
	{X: 0, Y: -0.2925, Z: -0.375},
	{X: -0.21, Y: -0.2925, Z: -0.375},
	{X: -0.375, Y: -0.2925, Z: -0.21},
	{X: -0.375, Y: -0.2925, Z: 0},
	{X: 0, Y: 0.17625, Z: 0.4},
	{X: -0.075, Y: 0.17625, Z: 0.4},
	{X: -0.075, Y: 0.2325, Z: 0.375},
	{X: 0, Y: 0.2325, Z: 0.375},
	{X: 0, Y: 0.17625, Z: 0.575},
	{X: -0.075, Y: 0.17625, Z: 0.575},
	{X: -0.075, Y: 0.2325, Z: 0.625},
	{X: 0, Y: 0.2325, Z: 0.625},
	{X: 0, Y: 0.17625, Z: 0.675},
	{X: -0.075, Y: 0.17625, Z: 0.675},
	{X: -0.075, Y: 0.2325, Z: 0.75},
	{X: 0, Y: 0.2325, Z: 0.75},
	{X: 0, Y: 0.12, Z: 0.675},
	{X: -0.075, Y: 0.12, Z: 0.675},
	{X: -0.075, Y: 0.12, Z: 0.75},
	{X: 0, Y: 0.12, Z: 0.75},
	{X: 0, Y: 0.06375, Z: 0.675},
	{X: -0.075, Y: 0.06375, Z: 0.675},
	{X: -0.075, Y: 0.007499993, Z: 0.75},
	{X: 0, Y: 0.007499993, Z: 0.75},
	{X: 0, Y: -0.04875001, Z: 0.625},
	{X: -0.075, Y: -0.04875001, Z: 0.625},
	{X: -0.075, Y: -0.09562501, Z: 0.6625},
	{X: 0, Y: -0.09562501, Z: 0.6625},
	{X: -0.075, Y: -0.105, Z: 0.5},
	{X: -0.075, Y: -0.18, Z: 0.475},
	{X: 0, Y: -0.18, Z: 0.475},
	{X: 0, Y: 0.02624997, Z: -0.425},
	{X: -0.165, Y: 0.02624997, Z: -0.425},
	{X: -0.165, Y: -0.18, Z: -0.425},
	{X: 0, Y: -0.18, Z: -0.425},
	{X: 0, Y: 0.02624997, Z: -0.65},
	{X: -0.165, Y: 0.02624997, Z: -0.65},
	{X: -0.165, Y: -0.12375, Z: -0.775},
	{X: 0, Y: -0.12375, Z: -0.775},
	{X: 0, Y: 0.195, Z: -0.575},
	{X: -0.0625, Y: 0.195, Z: -0.575},
	{X: -0.0625, Y: 0.17625, Z: -0.6},
	{X: 0, Y: 0.17625, Z: -0.6},
	{X: 0, Y: 0.27, Z: -0.675},
	{X: -0.0625, Y: 0.27, Z: -0.675},
	{X: -0.0625, Y: 0.27, Z: -0.825},
	{X: 0, Y: 0.27, Z: -0.825},
	{X: 0, Y: 0.28875, Z: -0.7},
	{X: -0.0625, Y: 0.28875, Z: -0.7},
	{X: -0.0625, Y: 0.2934375, Z: -0.88125},
	{X: 0, Y: 0.2934375, Z: -0.88125},
	{X: 0, Y: 0.28875, Z: -0.725},
	{X: -0.0375, Y: 0.28875, Z: -0.725},
	{X: -0.0375, Y: 0.298125, Z: -0.8625},
	{X: 0, Y: 0.298125, Z: -0.8625},
	{X: 0, Y: 0.27, Z: -0.7},
	{X: -0.0375, Y: 0.27, Z: -0.7},
	{X: -0.0375, Y: 0.27, Z: -0.8},
	{X: 0, Y: 0.27, Z: -0.8},
	{X: 0, Y: 0.4575, Z: 0},
	{X: 0, Y: 0.4575, Z: -0.2},
	{X: -0.1125, Y: 0.4575, Z: -0.2},
	{X: -0.2, Y: 0.4575, Z: -0.1125},
	{X: -0.2, Y: 0.4575, Z: 0},
	{X: 0, Y: 0.3825, Z: 0},
	{X: 0, Y: 0.27, Z: -0.35},
	{X: -0.196, Y: 0.27, Z: -0.35},
	{X: -0.35, Y: 0.27, Z: -0.196},
	{X: -0.35, Y: 0.27, Z: 0},
	{X: 0, Y: 0.3075, Z: -0.1},
	{X: -0.056, Y: 0.3075, Z: -0.1},
	{X: -0.1, Y: 0.3075, Z: -0.056},
	{X: -0.1, Y: 0.3075, Z: 0},
	{X: 0, Y: 0.3075, Z: -0.325},
	{X: -0.182, Y: 0.3075, Z: -0.325},
	{X: -0.325, Y: 0.3075, Z: -0.182},
	{X: -0.325, Y: 0.3075, Z: 0},
	{X: 0, Y: 0.27, Z: -0.325},
	{X: -0.182, Y: 0.27, Z: -0.325},
	{X: -0.325, Y: 0.27, Z: -0.182},
	{X: -0.325, Y: 0.27, Z: 0},
	{X: 0, Y: -0.33, Z: 0},
	{X: -0.1995, Y: -0.33, Z: -0.35625},
	{X: 0, Y: -0.31125, Z: -0.375},
	{X: 0, Y: -0.33, Z: -0.35625},
	{X: -0.35625, Y: -0.33, Z: -0.1995},
	{X: -0.375, Y: -0.31125, Z: 0},
	{X: -0.35625, Y: -0.33, Z: 0},
	{X: -0.21, Y: -0.31125, Z: -0.375},
	{X: -0.375, Y: -0.31125, Z: -0.21},
}

// Teapot returns the Newell teapot scaled by size. Each patch is a
// tessellation x tessellation grid. Normals come from the patch tangents;
// where they vanish at the lid and bottom poles the normal points straight
// up or down.
func Teapot(geom GeometryType, size float32, tessellation int, tf *math.Mat4) (*mesh.Mesh, error) {
	if tessellation < 1 {
		return nil, fmt.Errorf("%w: teapot needs at least 1, got %d", ErrInvalidTessellation, tessellation)
	}
	size = clampSize(size)

	var m *mesh.Mesh
	switch geom {
	case Outlined:
		m = teapotMesh(size, tessellation, false)
	case Both:
		m = teapotMesh(size, tessellation, true)
		m.SetContours(contours(teapotMesh(size, tessellation, false)))
	default:
		m = teapotMesh(size, tessellation, true)
	}

	if tf == nil || tf.IsIdentity() {
		return m, nil
	}
	normals := m.Normals
	m.Normals = nil
	m.ApplyTransform(tf)
	for i, n := range normals {
		normals[i] = tf.TransformDirection(n).Normalize()
	}
	m.Normals = normals
	return m, nil
}

func teapotMesh(size float32, t int, solid bool) *mesh.Mesh {
	var (
		b       builder
		normals []math.Vec3
	)
	for _, patch := range teapotPatches {
		b.teapotPatch(patch, math.Vec3{X: size, Y: size, Z: size}, false, t, solid, &normals)
		b.teapotPatch(patch, math.Vec3{X: -size, Y: size, Z: size}, true, t, solid, &normals)
		if patch.mirrorZ {
			b.teapotPatch(patch, math.Vec3{X: size, Y: size, Z: -size}, true, t, solid, &normals)
			b.teapotPatch(patch, math.Vec3{X: -size, Y: size, Z: -size}, false, t, solid, &normals)
		}
	}

	if !solid {
		return b.mesh(mesh.LineStrip)
	}
	return b.mesh(mesh.TriangleList).SetNormals(normals)
}

// teapotPatch tessellates one patch. A mirrored patch flips its triangle
// winding and normals so both stay facing outwards.
func (b *builder) teapotPatch(patch teapotPatch, scale math.Vec3, mirrored bool, t int, solid bool, normals *[]math.Vec3) {
	var cp [16]math.Vec3
	for i, idx := range patch.indices {
		cp[i] = teapotControlPoints[idx].Mul(scale)
	}
	// tangents scale with the square of size
	degenerate := 1e-7 * scale.Y * scale.Y

	base := b.base()
	for i := 0; i <= t; i++ {
		u := float32(i) / float32(t)
		for j := 0; j <= t; j++ {
			v := float32(j) / float32(t)

			p1 := bezier(cp[0], cp[1], cp[2], cp[3], u)
			p2 := bezier(cp[4], cp[5], cp[6], cp[7], u)
			p3 := bezier(cp[8], cp[9], cp[10], cp[11], u)
			p4 := bezier(cp[12], cp[13], cp[14], cp[15], u)
			position := bezier(p1, p2, p3, p4, v)

			q1 := bezier(cp[0], cp[4], cp[8], cp[12], v)
			q2 := bezier(cp[1], cp[5], cp[9], cp[13], v)
			q3 := bezier(cp[2], cp[6], cp[10], cp[14], v)
			q4 := bezier(cp[3], cp[7], cp[11], cp[15], v)

			normal := bezierTangent(p1, p2, p3, p4, v).Cross(bezierTangent(q1, q2, q3, q4, u))
			if normal.ApproxEqual(math.Vec3{}, degenerate) {
				normal = math.Vec3{Y: 1}
				if position.Y < 0 {
					normal.Y = -1
				}
			} else {
				normal = normal.Normalize()
				if mirrored {
					normal = normal.Neg()
				}
			}

			uv := math.Vec2{X: u, Y: v}
			if mirrored {
				uv.X = 1 - u
			}
			b.vertex(position, uv)
			if solid {
				*normals = append(*normals, normal)
			}
		}
	}

	stride := uint32(t + 1)
	for i := uint32(0); i < uint32(t); i++ {
		for j := uint32(0); j < uint32(t); j++ {
			a := base + i*stride + j
			next := a + stride
			switch {
			case !solid:
				if len(b.indices) > 0 {
					b.indices = append(b.indices, mesh.RestartIndex)
				}
				b.indices = append(b.indices, a, next, next+1, a+1, a)
			case mirrored:
				b.quad(a, next, next+1, a+1)
			default:
				b.quad(a, a+1, next+1, next)
			}
		}
	}
}

// bezier evaluates a cubic Bezier curve at t.
func bezier(p1, p2, p3, p4 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	s := 1 - t
	s2 := s * s
	return p1.Scale(s * s2).
		Add(p2.Scale(3 * t * s2)).
		Add(p3.Scale(3 * t2 * s)).
		Add(p4.Scale(t * t2))
}

// bezierTangent returns the derivative of a cubic Bezier curve at t,
// divided by three.
func bezierTangent(p1, p2, p3, p4 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	return p1.Scale(-1 + 2*t - t2).
		Add(p2.Scale(1 - 4*t + 3*t2)).
		Add(p3.Scale(2*t - 3*t2)).
		Add(p4.Scale(t2))
}
