package mesh

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
)

// Sink receives finished meshes, typically a GPU vertex/index buffer
// uploader. uvs and normals may be nil.
type Sink interface {
	UploadMesh(positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3, indices []uint32, topology Topology) error
}

// Upload validates m and hands it to the sink. Meshes without indices are
// uploaded with sequential indices.
func Upload(s Sink, m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	uvs := m.UV(0)
	if len(uvs) != len(m.Positions) {
		uvs = nil
	}
	normals := m.Normals
	if len(normals) != len(m.Positions) {
		normals = nil
	}
	indices := m.Indices
	if len(indices) == 0 {
		indices = basicIndices(len(m.Positions), m.Topology)
	}
	return s.UploadMesh(m.Positions, uvs, normals, indices, m.Topology)
}
