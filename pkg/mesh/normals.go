package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
)

// degenerateArea is the squared cross product length below which a
// triangle contributes nothing to vertex normals.
const degenerateArea = 1e-12

// CalculateNormals computes smooth vertex normals by accumulating the
// area-weighted face normal of every triangle at its three vertices.
// Only triangle lists are handled; other topologies are left untouched.
func (m *Mesh) CalculateNormals() *Mesh {
	if m.Topology != TriangleList || len(m.Positions) == 0 {
		return m
	}

	normals := make([]math.Vec3, len(m.Positions))
	n := len(m.Positions)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= n || int(b) >= n || int(c) >= n {
			continue
		}
		p0 := m.Positions[a]
		face := m.Positions[b].Sub(p0).Cross(m.Positions[c].Sub(p0))
		if face.Dot(face) < degenerateArea {
			continue
		}
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}

	for i, v := range normals {
		normals[i] = v.Normalize()
	}
	m.Normals = normals
	return m
}

// SmoothSeams averages the normals of vertices that share a position to
// within epsilon, hiding the shading seam left where a surface duplicates
// vertices to split texture coordinates.
func (m *Mesh) SmoothSeams(epsilon float32) *Mesh {
	if len(m.Normals) != len(m.Positions) || epsilon <= 0 {
		return m
	}

	groups := make(map[[3]int32][]int)
	for i, p := range m.Positions {
		key := [3]int32{
			int32(math32.Floor(p.X/epsilon + 0.5)),
			int32(math32.Floor(p.Y/epsilon + 0.5)),
			int32(math32.Floor(p.Z/epsilon + 0.5)),
		}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, i := range idxs {
			sum = sum.Add(m.Normals[i])
		}
		avg := sum.Normalize()
		for _, i := range idxs {
			m.Normals[i] = avg
		}
	}
	return m
}
