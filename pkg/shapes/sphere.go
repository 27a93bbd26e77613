package shapes

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// maxGeoSubdivisions caps the octahedron recursion depth; each level
// quadruples the triangle count.
const maxGeoSubdivisions = 7

// seamEpsilon decides whether a unit-sphere vertex lies on the prime
// meridian or a pole.
const seamEpsilon = 1e-6

// Sphere returns a sphere centered on the origin built with the chosen
// algorithm. For GeoSphere the tessellation is the subdivision depth,
// clamped to 0..7; the other kinds need at least 3.
func Sphere(geom GeometryType, kind SphereType, diameter float32, tessellation int, tf *math.Mat4) *mesh.Mesh {
	radius := clampSize(diameter) / 2

	solidTess := max(tessellation, 3)
	if kind == GeoSphere {
		solidTess = min(max(tessellation, 0), maxGeoSubdivisions)
	}

	return build(geom, tf,
		func() *mesh.Mesh {
			switch kind {
			case GeoSphere:
				return geoSphere(radius, solidTess)
			case CubeSphere:
				return cubeSphere(radius, solidTess)
			default:
				return uvSphere(radius, solidTess)
			}
		},
		func() *mesh.Mesh { return sphereOutline(radius, max(tessellation, 3)) },
	)
}

func uvSphere(radius float32, t int) *mesh.Mesh {
	vertical, horizontal := t, 2*t
	var b builder

	for i := 0; i <= vertical; i++ {
		v := 1 - float32(i)/float32(vertical)
		latitude := float32(i)*math32.Pi/float32(vertical) - math32.Pi/2
		dy, dxz := math32.Sin(latitude), math32.Cos(latitude)

		for j := 0; j <= horizontal; j++ {
			u := float32(j) / float32(horizontal)
			longitude := float32(j) * 2 * math32.Pi / float32(horizontal)
			n := math.Vec3{X: math32.Sin(longitude) * dxz, Y: dy, Z: math32.Cos(longitude) * dxz}
			b.vertex(n.Scale(radius), math.Vec2{X: 1 - u, Y: v})
		}
	}

	stride := uint32(horizontal + 1)
	for i := uint32(0); i < uint32(vertical); i++ {
		for j := uint32(0); j < uint32(horizontal); j++ {
			a := i*stride + j
			b.quad(a, a+1, a+stride+1, a+stride)
		}
	}

	m := b.mesh(mesh.TriangleList)
	return m.SetNormals(radialNormals(m.Positions))
}

// octahedron corners: top, front, right, back, left, bottom.
var (
	octahedronVertices = []math.Vec3{
		{Y: 1}, {Z: -1}, {X: 1}, {Z: 1}, {X: -1}, {Y: -1},
	}
	octahedronIndices = []uint32{
		0, 2, 1,
		0, 3, 2,
		0, 4, 3,
		0, 1, 4,
		5, 4, 1,
		5, 3, 4,
		5, 2, 3,
		5, 1, 2,
	}
)

const (
	northPole = 0
	southPole = 5
)

func geoSphere(radius float32, depth int) *mesh.Mesh {
	positions := append([]math.Vec3(nil), octahedronVertices...)
	indices := append([]uint32(nil), octahedronIndices...)

	for level := 0; level < depth; level++ {
		midpoints := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			i := uint32(len(positions))
			positions = append(positions, positions[a].Add(positions[b]).Scale(0.5))
			midpoints[key] = i
			return i
		}

		next := make([]uint32, 0, len(indices)*4)
		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
			m01, m12, m20 := midpoint(i0, i1), midpoint(i1, i2), midpoint(i2, i0)
			next = append(next,
				i0, m01, m20,
				m01, i1, m12,
				m20, m12, i2,
				m01, m12, m20,
			)
		}
		indices = next
	}

	normals := make([]math.Vec3, len(positions))
	uvs := make([]math.Vec2, len(positions))
	for i, p := range positions {
		n := p.Normalize()
		normals[i] = n
		u := math32.Atan2(n.X, -n.Z)/(2*math32.Pi) + 0.5
		if math32.Abs(n.X) < seamEpsilon && n.Z > 0 {
			u = 0
		}
		uvs[i] = math.Vec2{X: u, Y: math32.Acos(clampUnit(n.Y)) / math32.Pi}
	}

	normals, uvs, indices = fixSeam(normals, uvs, indices)
	normals, uvs, indices = fixPoles(normals, uvs, indices)

	positions = make([]math.Vec3, len(normals))
	for i, n := range normals {
		positions[i] = n.Scale(radius)
	}
	return mesh.New().
		SetPositions(positions).
		SetUVs(0, uvs).
		SetNormals(normals).
		SetIndices(indices)
}

func isPole(i uint32) bool {
	return i == northPole || i == southPole
}

// fixSeam duplicates prime meridian vertices with U=1 for triangles whose
// other corners sit near U=1, so no triangle interpolates across the whole
// texture.
func fixSeam(normals []math.Vec3, uvs []math.Vec2, indices []uint32) ([]math.Vec3, []math.Vec2, []uint32) {
	dups := make(map[uint32]uint32)
	for t := 0; t+2 < len(indices); t += 3 {
		lo, hi := float32(2), float32(-1)
		for _, i := range indices[t : t+3] {
			if isPole(i) {
				continue
			}
			lo, hi = min(lo, uvs[i].X), max(hi, uvs[i].X)
		}
		if hi-lo <= 0.5 {
			continue
		}

		for k := t; k < t+3; k++ {
			i := indices[k]
			if isPole(i) || uvs[i].X >= 0.5 {
				continue
			}
			d, ok := dups[i]
			if !ok {
				d = uint32(len(normals))
				normals = append(normals, normals[i])
				uvs = append(uvs, math.Vec2{X: uvs[i].X + 1, Y: uvs[i].Y})
				dups[i] = d
			}
			indices[k] = d
		}
	}
	return normals, uvs, indices
}

// fixPoles gives each triangle touching a pole its own pole vertex with U
// halfway between the triangle's other two corners.
func fixPoles(normals []math.Vec3, uvs []math.Vec2, indices []uint32) ([]math.Vec3, []math.Vec2, []uint32) {
	used := map[uint32]bool{}
	for t := 0; t+2 < len(indices); t += 3 {
		for k := 0; k < 3; k++ {
			pole := indices[t+k]
			if !isPole(pole) {
				continue
			}
			a, b := indices[t+(k+1)%3], indices[t+(k+2)%3]
			uv := math.Vec2{X: (uvs[a].X + uvs[b].X) / 2, Y: uvs[pole].Y}
			if !used[pole] {
				uvs[pole] = uv
				used[pole] = true
				break
			}
			indices[t+k] = uint32(len(normals))
			normals = append(normals, normals[pole])
			uvs = append(uvs, uv)
			break
		}
	}
	return normals, uvs, indices
}

func clampUnit(v float32) float32 {
	return min(max(v, -1), 1)
}

func cubeSphere(radius float32, t int) *mesh.Mesh {
	m := cubeSolid(2, 2, 2, t)
	normals := make([]math.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		normals[i] = p.Normalize()
		m.Positions[i] = normals[i].Scale(radius)
	}
	return m.SetNormals(normals)
}

// sphereOutline draws the three axis-aligned great circles.
func sphereOutline(radius float32, t int) *mesh.Mesh {
	var b builder
	xz := ring(radius, 0, t)
	b.loop(xz...)

	xy := make([]math.Vec3, t)
	yz := make([]math.Vec3, t)
	for i, p := range xz {
		xy[i] = math.Vec3{X: p.X, Y: p.Z}
		yz[i] = math.Vec3{Y: p.X, Z: p.Z}
	}
	b.loop(xy...)
	b.loop(yz...)
	return b.mesh(mesh.LineStrip)
}

func radialNormals(positions []math.Vec3) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for i, p := range positions {
		normals[i] = p.Normalize()
	}
	return normals
}
