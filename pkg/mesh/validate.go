package mesh

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrIndexOutOfRange = errors.New("mesh: index out of range")
	ErrAttributeLength = errors.New("mesh: attribute length mismatch")
	ErrTopology        = errors.New("mesh: indices do not match topology")
)

// Validate checks that every index other than RestartIndex addresses a
// vertex, that attributes are parallel to the positions and that the
// index count fits the topology.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	for c, uv := range m.UVs {
		if len(uv) != 0 && len(uv) != n {
			return fmt.Errorf("%w: UV channel %d has %d entries for %d positions", ErrAttributeLength, c, len(uv), n)
		}
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d positions", ErrAttributeLength, len(m.Normals), n)
	}

	for i, index := range m.Indices {
		if index == RestartIndex {
			if !m.Topology.IsStrip() {
				return fmt.Errorf("%w: restart index at %d in %s", ErrTopology, i, m.Topology)
			}
			continue
		}
		if int(index) >= n {
			return fmt.Errorf("%w: indices[%d] = %d with %d positions", ErrIndexOutOfRange, i, index, n)
		}
	}

	switch m.Topology {
	case TriangleList:
		if len(m.Indices)%3 != 0 {
			return fmt.Errorf("%w: %d indices in a triangle list", ErrTopology, len(m.Indices))
		}
	case LineList:
		if len(m.Indices)%2 != 0 {
			return fmt.Errorf("%w: %d indices in a line list", ErrTopology, len(m.Indices))
		}
	}
	return nil
}
