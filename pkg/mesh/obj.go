package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteOBJ writes the mesh as a Wavefront OBJ object. Triangles become
// faces, lines and line strips become polylines and points become point
// elements. Texture coordinates come from channel 0.
func (m *Mesh) WriteOBJ(w io.Writer, name string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(p.X), ftoa(p.Y), ftoa(p.Z))
	}
	uvs := m.UV(0)
	if len(uvs) != len(m.Positions) {
		uvs = nil
	}
	for _, uv := range uvs {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(uv.X), ftoa(uv.Y))
	}
	normals := m.Normals
	if len(normals) != len(m.Positions) {
		normals = nil
	}
	for _, n := range normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
	}

	vertex := func(i uint32) string {
		s := strconv.FormatUint(uint64(i)+1, 10)
		switch {
		case uvs != nil && normals != nil:
			return s + "/" + s + "/" + s
		case uvs != nil:
			return s + "/" + s
		case normals != nil:
			return s + "//" + s
		}
		return s
	}

	indices := m.Indices
	if len(indices) == 0 {
		indices = basicIndices(len(m.Positions), m.Topology)
	}

	switch m.Topology {
	case TriangleList:
		for i := 0; i+2 < len(indices); i += 3 {
			fmt.Fprintf(bw, "f %s %s %s\n", vertex(indices[i]), vertex(indices[i+1]), vertex(indices[i+2]))
		}
	case TriangleStrip:
		for _, strip := range splitStrips(indices) {
			for i := 0; i+2 < len(strip); i++ {
				a, b, c := strip[i], strip[i+1], strip[i+2]
				if i%2 == 1 {
					b, c = c, b
				}
				fmt.Fprintf(bw, "f %s %s %s\n", vertex(a), vertex(b), vertex(c))
			}
		}
	case LineList:
		for i := 0; i+1 < len(indices); i += 2 {
			fmt.Fprintf(bw, "l %d %d\n", indices[i]+1, indices[i+1]+1)
		}
	case LineStrip:
		for _, strip := range splitStrips(indices) {
			if len(strip) < 2 {
				continue
			}
			bw.WriteString("l")
			for _, i := range strip {
				fmt.Fprintf(bw, " %d", i+1)
			}
			bw.WriteString("\n")
		}
	case PointList:
		for _, i := range indices {
			fmt.Fprintf(bw, "p %d\n", i+1)
		}
	}
	return bw.Flush()
}

// splitStrips cuts an index list at every RestartIndex.
func splitStrips(indices []uint32) [][]uint32 {
	var (
		strips [][]uint32
		start  int
	)
	for i, index := range indices {
		if index == RestartIndex {
			if i > start {
				strips = append(strips, indices[start:i])
			}
			start = i + 1
		}
	}
	if start < len(indices) {
		strips = append(strips, indices[start:])
	}
	return strips
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
