package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/internal/logger"
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// ErrEmptyMesh is returned when a mesh without vertices is uploaded.
var ErrEmptyMesh = errors.New("gpu: empty mesh")

// Interleaved vertex layout: position, normal, texture coordinate.
const (
	vertexFloats = 3 + 3 + 2
	vertexSize   = vertexFloats * 4
)

// Mesh is a mesh resident in GPU memory.
type Mesh struct {
	VAO, VBO, EBO uint32
	Count         int32
	Mode          uint32
}

// MeshUploader implements mesh.Sink by creating a vertex array per mesh.
// It needs a current Context.
type MeshUploader struct {
	meshes []*Mesh
	log    *zap.Logger
}

var _ mesh.Sink = (*MeshUploader)(nil)

func NewMeshUploader() *MeshUploader {
	return &MeshUploader{log: logger.Named("gpu")}
}

// UploadMesh creates a VAO with an interleaved vertex buffer and an index
// buffer. Missing normals or texture coordinates upload as zeros.
func (u *MeshUploader) UploadMesh(positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3, indices []uint32, topology mesh.Topology) error {
	if len(positions) == 0 || len(indices) == 0 {
		return ErrEmptyMesh
	}
	mode, err := drawMode(topology)
	if err != nil {
		return err
	}
	vertices := interleave(positions, uvs, normals)

	m := &Mesh{Count: int32(len(indices)), Mode: mode}
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		u.deleteMesh(m)
		return fmt.Errorf("uploading mesh: GL error 0x%04x", code)
	}

	u.meshes = append(u.meshes, m)
	u.log.Debug("mesh uploaded",
		zap.Int("vertices", len(positions)),
		zap.Int("indices", len(indices)),
		zap.Stringer("topology", topology),
	)
	return nil
}

// Meshes returns the uploaded meshes in upload order.
func (u *MeshUploader) Meshes() []*Mesh {
	return u.meshes
}

// Delete frees every uploaded mesh.
func (u *MeshUploader) Delete() {
	for _, m := range u.meshes {
		u.deleteMesh(m)
	}
	u.meshes = nil
}

func (u *MeshUploader) deleteMesh(m *Mesh) {
	gl.DeleteBuffers(1, &m.EBO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
}

// drawMode maps a topology to its GL primitive.
func drawMode(t mesh.Topology) (uint32, error) {
	switch t {
	case mesh.PointList:
		return gl.POINTS, nil
	case mesh.LineList:
		return gl.LINES, nil
	case mesh.LineStrip:
		return gl.LINE_STRIP, nil
	case mesh.TriangleList:
		return gl.TRIANGLES, nil
	case mesh.TriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	}
	return 0, fmt.Errorf("gpu: no primitive for topology %s", t)
}

// interleave packs the attributes into the vertex layout. Attribute slices
// shorter than positions leave the rest zero.
func interleave(positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3) []float32 {
	out := make([]float32, len(positions)*vertexFloats)
	for i, p := range positions {
		v := out[i*vertexFloats : (i+1)*vertexFloats]
		v[0], v[1], v[2] = p.X, p.Y, p.Z
		if i < len(normals) {
			v[3], v[4], v[5] = normals[i].X, normals[i].Y, normals[i].Z
		}
		if i < len(uvs) {
			v[6], v[7] = uvs[i].X, uvs[i].Y
		}
	}
	return out
}
