// Package mesh provides the indexed mesh container filled by the shape
// generators and handed to GPU upload sinks.
package mesh

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
)

// RestartIndex separates strips in LineStrip and TriangleStrip index
// lists (primitive restart). It is never a valid vertex index.
const RestartIndex = ^uint32(0)

// Topology is the primitive type the indices describe.
type Topology uint8

const (
	PointList Topology = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case PointList:
		return "PointList"
	case LineList:
		return "LineList"
	case LineStrip:
		return "LineStrip"
	case TriangleList:
		return "TriangleList"
	case TriangleStrip:
		return "TriangleStrip"
	}
	return "Unknown"
}

// IsStrip reports whether indices may contain RestartIndex.
func (t Topology) IsStrip() bool {
	return t == LineStrip || t == TriangleStrip
}

// Mesh holds indexed vertex data. Attribute slices are parallel to
// Positions; UVs holds one slice per texture channel.
type Mesh struct {
	Topology  Topology
	Positions []math.Vec3
	UVs       [][]math.Vec2
	Normals   []math.Vec3
	Indices   []uint32

	// Contours are outline loops kept alongside a filled surface.
	Contours [][]math.Vec3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// New returns an empty triangle list mesh.
func New() *Mesh {
	return &Mesh{Topology: TriangleList}
}

func (m *Mesh) SetTopology(t Topology) *Mesh {
	m.Topology = t
	return m
}

func (m *Mesh) SetPositions(positions []math.Vec3) *Mesh {
	m.Positions = positions
	return m
}

// SetUVs replaces the texture coordinates of channel, growing the channel
// list as needed.
func (m *Mesh) SetUVs(channel int, uvs []math.Vec2) *Mesh {
	for len(m.UVs) <= channel {
		m.UVs = append(m.UVs, nil)
	}
	m.UVs[channel] = uvs
	return m
}

func (m *Mesh) SetNormals(normals []math.Vec3) *Mesh {
	m.Normals = normals
	return m
}

func (m *Mesh) SetIndices(indices []uint32) *Mesh {
	m.Indices = indices
	return m
}

func (m *Mesh) SetContours(contours [][]math.Vec3) *Mesh {
	m.Contours = contours
	return m
}

// UV returns the texture coordinates of channel, or nil.
func (m *Mesh) UV(channel int) []math.Vec2 {
	if channel < 0 || channel >= len(m.UVs) {
		return nil
	}
	return m.UVs[channel]
}

// HasIndices reports whether the mesh carries an index list.
func (m *Mesh) HasIndices() bool {
	return len(m.Indices) > 0
}

// GenerateBasicIndices replaces the indices with 0..n-1, terminated by a
// RestartIndex for strip topologies.
func (m *Mesh) GenerateBasicIndices() *Mesh {
	m.Indices = basicIndices(len(m.Positions), m.Topology)
	return m
}

func basicIndices(n int, t Topology) []uint32 {
	indices := make([]uint32, n, n+1)
	for i := range indices {
		indices[i] = uint32(i)
	}
	if t.IsStrip() {
		indices = append(indices, RestartIndex)
	}
	return indices
}

// TriangleCount returns the number of triangles the indices describe.
func (m *Mesh) TriangleCount() int {
	switch m.Topology {
	case TriangleList:
		n := 0
		for _, i := range m.Indices {
			if i != RestartIndex {
				n++
			}
		}
		return n / 3
	case TriangleStrip:
		count, run := 0, 0
		for _, i := range m.Indices {
			if i == RestartIndex {
				count += max(run-2, 0)
				run = 0
				continue
			}
			run++
		}
		return count + max(run-2, 0)
	}
	return 0
}

// Bounds returns the bounding box of the positions. An empty mesh has a
// zero box.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Topology:  m.Topology,
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		Indices:   append([]uint32(nil), m.Indices...),
	}
	for _, uv := range m.UVs {
		c.UVs = append(c.UVs, append([]math.Vec2(nil), uv...))
	}
	for _, contour := range m.Contours {
		c.Contours = append(c.Contours, append([]math.Vec3(nil), contour...))
	}
	return c
}

// ReverseWinding swaps the last two indices of every triangle.
func (m *Mesh) ReverseWinding() *Mesh {
	if m.Topology != TriangleList {
		return m
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}
	return m
}

// ApplyTransform transforms positions and contours by t. Normals are
// recomputed for triangle lists and transformed otherwise. A nil or
// identity matrix leaves the mesh untouched.
func (m *Mesh) ApplyTransform(t *math.Mat4) *Mesh {
	if t == nil || t.IsIdentity() {
		return m
	}
	for i, p := range m.Positions {
		m.Positions[i] = t.TransformPoint(p)
	}
	for _, contour := range m.Contours {
		for i, p := range contour {
			contour[i] = t.TransformPoint(p)
		}
	}

	if len(m.Normals) == 0 {
		return m
	}
	if m.Topology == TriangleList {
		return m.CalculateNormals()
	}
	for i, n := range m.Normals {
		m.Normals[i] = t.TransformDirection(n).Normalize()
	}
	return m
}
