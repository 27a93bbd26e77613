package shapes

import (
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Line returns a segment from start to end. Solid output is a quad of the
// given thickness drawn as a triangle strip, widened perpendicular to the
// segment within the XY plane where possible.
func Line(geom GeometryType, start, end math.Vec3, thickness float32, tf *math.Mat4) *mesh.Mesh {
	thickness = clampSize(thickness)

	return build(geom, tf,
		func() *mesh.Mesh { return lineSolid(start, end, thickness) },
		func() *mesh.Mesh {
			return mesh.New().
				SetTopology(mesh.LineStrip).
				SetPositions([]math.Vec3{start, end}).
				SetIndices([]uint32{0, 1})
		},
	)
}

func lineSolid(start, end math.Vec3, thickness float32) *mesh.Mesh {
	dir := end.Sub(start)
	side := math.Vec3{X: -dir.Y, Y: dir.X}.Normalize()
	if side == (math.Vec3{}) {
		side = math.Vec3{X: 1}
	}
	offset := side.Scale(thickness / 2)

	positions := []math.Vec3{
		start.Sub(offset),
		end.Sub(offset),
		start.Add(offset),
		end.Add(offset),
	}
	normal := positions[1].Sub(positions[0]).Cross(positions[2].Sub(positions[0])).Normalize()
	uvs := []math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}

	return mesh.New().
		SetTopology(mesh.TriangleStrip).
		SetPositions(positions).
		SetUVs(0, uvs).
		SetNormals([]math.Vec3{normal, normal, normal, normal}).
		SetIndices([]uint32{0, 1, 2, 3})
}
