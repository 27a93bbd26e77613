package mesh

import (
	"encoding/binary"
	stdmath "math"

	"github.com/Faultbox/midgard-gfx/pkg/math"
)

// Optimize merges vertices whose position and texture coordinates in every
// channel are bitwise equal, remapping the indices. Strip topologies are
// left untouched. Triangle list normals are recomputed afterwards.
func (m *Mesh) Optimize() *Mesh {
	if m.Topology.IsStrip() || len(m.Positions) == 0 {
		return m
	}
	if !m.HasIndices() {
		m.GenerateBasicIndices()
	}

	keepNormals := m.Topology != TriangleList && len(m.Normals) == len(m.Positions)

	var (
		positions = make([]math.Vec3, 0, len(m.Positions))
		uvs       = make([][]math.Vec2, len(m.UVs))
		normals   []math.Vec3
		indices   = make([]uint32, 0, len(m.Indices))
		seen      = make(map[string]uint32, len(m.Positions))
		key       = make([]byte, 0, 12+8*len(m.UVs))
	)

	for _, index := range m.Indices {
		if index == RestartIndex || int(index) >= len(m.Positions) {
			continue
		}

		key = m.vertexKey(key[:0], index)
		if unique, ok := seen[string(key)]; ok {
			indices = append(indices, unique)
			continue
		}

		unique := uint32(len(positions))
		seen[string(key)] = unique
		positions = append(positions, m.Positions[index])
		for c := range m.UVs {
			uvs[c] = append(uvs[c], uvAt(m.UVs[c], index))
		}
		if keepNormals {
			normals = append(normals, m.Normals[index])
		}
		indices = append(indices, unique)
	}

	m.Positions = positions
	m.Indices = indices
	for c := range uvs {
		if len(m.UVs[c]) == 0 {
			uvs[c] = nil
		}
	}
	m.UVs = uvs
	m.Normals = normals

	if m.Topology == TriangleList {
		m.CalculateNormals()
	}
	return m
}

func (m *Mesh) vertexKey(key []byte, index uint32) []byte {
	p := m.Positions[index]
	key = binary.LittleEndian.AppendUint32(key, stdmath.Float32bits(p.X))
	key = binary.LittleEndian.AppendUint32(key, stdmath.Float32bits(p.Y))
	key = binary.LittleEndian.AppendUint32(key, stdmath.Float32bits(p.Z))
	for _, channel := range m.UVs {
		uv := uvAt(channel, index)
		key = binary.LittleEndian.AppendUint32(key, stdmath.Float32bits(uv.X))
		key = binary.LittleEndian.AppendUint32(key, stdmath.Float32bits(uv.Y))
	}
	return key
}

// uvAt returns uvs[i], or zero for a channel shorter than the positions.
func uvAt(uvs []math.Vec2, i uint32) math.Vec2 {
	if int(i) < len(uvs) {
		return uvs[i]
	}
	return math.Vec2{}
}
