package mesh

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
)

// Merge appends the vertices, texture coordinates and indices of others
// to m, shifting their indices past the existing vertices. For strip
// topologies a RestartIndex keeps the appended strips separate. Meshes
// without indices contribute their vertices in order.
func (m *Mesh) Merge(others ...*Mesh) *Mesh {
	for _, o := range others {
		if o == nil || len(o.Positions) == 0 {
			continue
		}

		if len(m.Indices) == 0 && len(m.Positions) > 0 {
			m.GenerateBasicIndices()
		}

		base := uint32(len(m.Positions))
		channels := max(len(m.UVs), len(o.UVs))
		for c := 0; c < channels; c++ {
			dst := padUVs(m.UV(c), len(m.Positions))
			m.SetUVs(c, append(dst, padUVs(o.UV(c), len(o.Positions))...))
		}

		if len(m.Normals) == len(m.Positions) && len(o.Normals) == len(o.Positions) {
			m.Normals = append(m.Normals, o.Normals...)
		} else {
			m.Normals = nil
		}
		m.Positions = append(m.Positions, o.Positions...)

		indices := o.Indices
		if len(indices) == 0 {
			indices = basicIndices(len(o.Positions), m.Topology)
		}
		if m.Topology.IsStrip() && len(m.Indices) > 0 && m.Indices[len(m.Indices)-1] != RestartIndex {
			m.Indices = append(m.Indices, RestartIndex)
		}
		for _, i := range indices {
			if i == RestartIndex {
				m.Indices = append(m.Indices, RestartIndex)
				continue
			}
			m.Indices = append(m.Indices, i+base)
		}

		for _, contour := range o.Contours {
			m.Contours = append(m.Contours, append([]math.Vec3(nil), contour...))
		}
	}
	return m
}

// padUVs returns uvs extended with zeros to n entries.
func padUVs(uvs []math.Vec2, n int) []math.Vec2 {
	if len(uvs) >= n {
		return uvs
	}
	return append(uvs, make([]math.Vec2, n-len(uvs))...)
}
