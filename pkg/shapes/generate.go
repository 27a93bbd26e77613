package shapes

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

// Kind names a generator for Generate.
type Kind string

const (
	KindArc       Kind = "arc"
	KindCapsule   Kind = "capsule"
	KindCone      Kind = "cone"
	KindCube      Kind = "cube"
	KindCylinder  Kind = "cylinder"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindPlane     Kind = "plane"
	KindPolygon   Kind = "polygon"
	KindRectangle Kind = "rectangle"
	KindSphere    Kind = "sphere"
	KindTeapot    Kind = "teapot"
	KindTorus     Kind = "torus"
	KindTube      Kind = "tube"
)

// Params carries the arguments of every generator. Each generator reads the
// fields it needs and ignores the rest, so one struct can describe any
// shape in a config file.
type Params struct {
	Width        float32      `yaml:"width"`
	Height       float32      `yaml:"height"`
	Depth        float32      `yaml:"depth"`
	Diameter     float32      `yaml:"diameter"`
	TopDiameter  float32      `yaml:"top_diameter"`
	Thickness    float32      `yaml:"thickness"`
	Tessellation int          `yaml:"tessellation"`
	Sides        int          `yaml:"sides"`
	Sphere       SphereType   `yaml:"sphere"`
	Ellipse      EllipseType  `yaml:"ellipse"`
	CornerRadius CornerRadius `yaml:"corner_radius"`
	StartAngle   float32      `yaml:"start_angle"`
	StopAngle    float32      `yaml:"stop_angle"`
	Clockwise    bool         `yaml:"clockwise"`
	UVFactor     math.Vec2    `yaml:"uv_factor"`
	Start        math.Vec3    `yaml:"start"`
	End          math.Vec3    `yaml:"end"`

	Transform *math.Mat4 `yaml:"-"`
}

// DefaultParams returns unit-sized parameters.
func DefaultParams() Params {
	return Params{
		Width:        1,
		Height:       1,
		Depth:        1,
		Diameter:     1,
		Thickness:    0.25,
		Tessellation: 16,
		Sides:        6,
		StopAngle:    360,
		UVFactor:     math.Vec2{X: 1, Y: 1},
		End:          math.Vec3{X: 1},
	}
}

// Kinds lists every generator name in alphabetical order.
func Kinds() []Kind {
	return []Kind{
		KindArc, KindCapsule, KindCone, KindCube, KindCylinder, KindEllipse, KindLine,
		KindPlane, KindPolygon, KindRectangle, KindSphere, KindTeapot, KindTorus, KindTube,
	}
}

// ParseKind resolves a generator name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Generate builds the named shape.
func Generate(kind Kind, geom GeometryType, p Params) (*mesh.Mesh, error) {
	tf := p.Transform
	t := p.Tessellation

	switch kind {
	case KindArc:
		return Arc(geom, math.Vec2{X: p.Width, Y: p.Height}, p.Thickness, p.StartAngle, p.StopAngle, p.Clockwise, t, tf), nil
	case KindCapsule:
		return Capsule(geom, p.Diameter, p.Height, t, tf), nil
	case KindCone:
		return Cone(geom, p.TopDiameter, p.Diameter, p.Height, t, tf), nil
	case KindCube:
		return Cube(geom, p.Width, p.Height, p.Depth, t, tf), nil
	case KindCylinder:
		return Cylinder(geom, p.Diameter, p.Height, t, tf), nil
	case KindEllipse:
		return Ellipse(geom, p.Ellipse, math.Vec2{X: p.Width, Y: p.Height}, p.StartAngle, p.StopAngle, p.Clockwise, t, tf), nil
	case KindLine:
		return Line(geom, p.Start, p.End, p.Thickness, tf), nil
	case KindPlane:
		return Plane(geom, p.Width, p.Depth, t, p.UVFactor, tf), nil
	case KindPolygon:
		return Polygon(geom, p.Diameter, p.Sides, tf), nil
	case KindRectangle:
		return Rectangle(geom, p.Width, p.Height, p.CornerRadius, t, tf), nil
	case KindSphere:
		return Sphere(geom, p.Sphere, p.Diameter, t, tf), nil
	case KindTeapot:
		return Teapot(geom, p.Diameter, t, tf)
	case KindTorus:
		return Torus(geom, p.Diameter, p.Thickness, t, tf), nil
	case KindTube:
		return Tube(geom, p.Diameter, p.Height, p.Thickness, t, tf), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
}

func (g GeometryType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GeometryType) UnmarshalText(text []byte) error {
	v, err := ParseGeometryType(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (s SphereType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SphereType) UnmarshalText(text []byte) error {
	v, err := ParseSphereType(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (e EllipseType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EllipseType) UnmarshalText(text []byte) error {
	v, err := ParseEllipseType(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
