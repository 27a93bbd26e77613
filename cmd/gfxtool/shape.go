package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/pkg/mesh"
	"github.com/Faultbox/midgard-gfx/pkg/shapes"
)

// shapeRequest is a fully resolved generator call.
type shapeRequest struct {
	name   string
	kind   shapes.Kind
	geom   shapes.GeometryType
	params shapes.Params
}

// resolveShape looks name up among the configured presets first and the
// generator kinds second.
func (a *app) resolveShape(name string) (shapeRequest, error) {
	if preset, ok := a.cfg.Shapes.Presets[name]; ok {
		kind, err := shapes.ParseKind(string(preset.Kind))
		if err != nil {
			return shapeRequest{}, fmt.Errorf("preset %s: %w", name, err)
		}
		req := shapeRequest{name: name, kind: kind, geom: a.cfg.Shapes.Geometry, params: preset.Params}
		if preset.Geometry != nil {
			req.geom = *preset.Geometry
		}
		req.params.Transform = preset.Transform()
		return req, nil
	}

	kind, err := shapes.ParseKind(name)
	if err != nil {
		return shapeRequest{}, err
	}
	return shapeRequest{name: string(kind), kind: kind, geom: a.cfg.Shapes.Geometry, params: a.cfg.Shapes.Defaults}, nil
}

func (r shapeRequest) generate() (*mesh.Mesh, error) {
	return shapes.Generate(r.kind, r.geom, r.params)
}

func (a *app) cmdShape(args []string) error {
	fs := flag.NewFlagSet("shape", flag.ContinueOnError)
	geom := fs.String("geom", "", "solid, outlined or both (default from config)")
	tess := fs.Int("tess", 0, "Tessellation (0 = config default)")
	size := fs.Float64("size", 0, "Uniform size for width, height, depth and diameter")
	sphere := fs.String("sphere", "", "Sphere algorithm: uv, geo or cube")
	out := fs.String("o", "", "Write Wavefront OBJ to this file, - for stdout")
	optimize := fs.Bool("optimize", false, "Merge duplicate vertices")
	smooth := fs.Float64("smooth", 0, "Average normals of vertices closer than this")
	list := fs.Bool("list", false, "List generator kinds and presets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, k := range shapes.Kinds() {
			fmt.Fprintln(a.stdout, k)
		}
		for _, name := range a.cfg.PresetNames() {
			fmt.Fprintf(a.stdout, "%s (preset: %s)\n", name, a.cfg.Shapes.Presets[name].Kind)
		}
		return nil
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gfxtool shape [options] <kind|preset>")
		return errUsage
	}

	req, err := a.resolveShape(fs.Arg(0))
	if err != nil {
		return err
	}
	if *geom != "" {
		if req.geom, err = shapes.ParseGeometryType(*geom); err != nil {
			return err
		}
	}
	if *sphere != "" {
		if req.params.Sphere, err = shapes.ParseSphereType(*sphere); err != nil {
			return err
		}
	}
	if *tess != 0 {
		req.params.Tessellation = *tess
	}
	if *size > 0 {
		s := float32(*size)
		req.params.Width, req.params.Height, req.params.Depth, req.params.Diameter = s, s, s, s
	}

	m, err := req.generate()
	if err != nil {
		return err
	}
	if *optimize {
		m.Optimize()
	}
	if *smooth > 0 {
		m.SmoothSeams(float32(*smooth))
	}

	bounds := m.Bounds()
	a.log.Info("generated",
		zap.String("shape", req.name),
		zap.Stringer("geometry", req.geom),
		zap.Stringer("topology", m.Topology),
		zap.Int("vertices", len(m.Positions)),
		zap.Int("indices", len(m.Indices)),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("contours", len(m.Contours)),
	)

	switch *out {
	case "":
		size := bounds.Size()
		fmt.Fprintf(a.stdout, "%s: %d vertices, %d indices, %d triangles, %s, size %.4g x %.4g x %.4g\n",
			req.name, len(m.Positions), len(m.Indices), m.TriangleCount(), m.Topology, size.X, size.Y, size.Z)
		return nil
	case "-":
		return m.WriteOBJ(a.stdout, req.name)
	}
	return a.writeOBJ(*out, req.name, m)
}

func (a *app) writeOBJ(path, name string, m *mesh.Mesh) error {
	path = a.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteOBJ(f, name); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("wrote mesh", zap.String("path", path))
	return nil
}

// outputPath places relative paths in the configured output directory.
func (a *app) outputPath(path string) string {
	if filepath.IsAbs(path) || a.cfg.Output.Dir == "" {
		return path
	}
	return filepath.Join(a.cfg.Output.Dir, path)
}
