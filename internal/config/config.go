// Package config handles gfxtool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-gfx/pkg/imaging"
	"github.com/Faultbox/midgard-gfx/pkg/math"
	"github.com/Faultbox/midgard-gfx/pkg/shapes"
)

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Config holds all gfxtool settings.
type Config struct {
	Shapes  ShapesConfig  `yaml:"shapes"`
	Imaging ImagingConfig `yaml:"imaging"`
	GPU     GPUConfig     `yaml:"gpu"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShapesConfig holds generator defaults and named presets.
type ShapesConfig struct {
	Geometry shapes.GeometryType `yaml:"geometry"`
	Defaults shapes.Params       `yaml:"defaults"`
	Presets  map[string]Preset   `yaml:"presets"`
}

// Preset is a named shape with its parameters and placement. Parameters
// left out of the file keep their generator defaults.
type Preset struct {
	Kind     shapes.Kind          `yaml:"kind"`
	Geometry *shapes.GeometryType `yaml:"geometry,omitempty"`
	Offset   math.Vec3            `yaml:"offset"`
	RotateY  float32              `yaml:"rotate_y"` // degrees
	Scale    float32              `yaml:"scale"`

	shapes.Params `yaml:",inline"`
}

func (p *Preset) UnmarshalYAML(node *yaml.Node) error {
	type plain Preset
	raw := plain{Scale: 1, Params: shapes.DefaultParams()}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = Preset(raw)
	return nil
}

// Transform returns the preset placement as scale, then rotation, then
// offset. Nil means identity.
func (p Preset) Transform() *math.Mat4 {
	m := math.Identity()
	if p.Scale != 0 && p.Scale != 1 {
		m = math.Scale(p.Scale, p.Scale, p.Scale)
	}
	if p.RotateY != 0 {
		m = math.RotateY(p.RotateY * math32.Pi / 180).Mul(m)
	}
	if p.Offset != (math.Vec3{}) {
		m = math.Translate(p.Offset.X, p.Offset.Y, p.Offset.Z).Mul(m)
	}
	if m.IsIdentity() {
		return nil
	}
	return &m
}

// ImagingConfig holds codec and batch conversion settings.
type ImagingConfig struct {
	Format  string `yaml:"format"`   // container written by convert
	BMPBits int    `yaml:"bmp_bits"` // 0, 24 or 32
	TGARLE  bool   `yaml:"tga_rle"`
	Workers int    `yaml:"workers"` // 0 means one per CPU
}

// GPUConfig holds the settings of the upload context window.
type GPUConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hidden bool   `yaml:"hidden"`
	VSync  bool   `yaml:"vsync"`
}

// OutputConfig holds where generated files go.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shapes: ShapesConfig{
			Geometry: shapes.Solid,
			Defaults: shapes.DefaultParams(),
		},
		Imaging: ImagingConfig{
			Format: "tga",
		},
		GPU: GPUConfig{
			Title:  "gfxtool",
			Width:  640,
			Height: 480,
			Hidden: true,
			VSync:  false,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// OutputKind returns the container named by Imaging.Format.
func (c *Config) OutputKind() imaging.Kind {
	return imaging.ParseKind(c.Imaging.Format)
}

// PresetNames lists the configured presets in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Shapes.Presets))
	for name := range c.Shapes.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks values a YAML file can get wrong.
func (c *Config) Validate() error {
	if c.OutputKind() == imaging.KindUnknown {
		return fmt.Errorf("%w: imaging.format %q", ErrInvalid, c.Imaging.Format)
	}
	switch c.Imaging.BMPBits {
	case 0, 24, 32:
	default:
		return fmt.Errorf("%w: imaging.bmp_bits %d", ErrInvalid, c.Imaging.BMPBits)
	}
	if c.Imaging.Workers < 0 {
		return fmt.Errorf("%w: imaging.workers %d", ErrInvalid, c.Imaging.Workers)
	}
	if c.GPU.Width <= 0 || c.GPU.Height <= 0 {
		return fmt.Errorf("%w: gpu size %dx%d", ErrInvalid, c.GPU.Width, c.GPU.Height)
	}
	for _, name := range c.PresetNames() {
		if _, err := shapes.ParseKind(string(c.Shapes.Presets[name].Kind)); err != nil {
			return fmt.Errorf("%w: preset %s: %w", ErrInvalid, name, err)
		}
	}
	return nil
}
