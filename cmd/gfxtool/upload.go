package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/internal/gpu"
	"github.com/Faultbox/midgard-gfx/pkg/imaging"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

func (a *app) cmdUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	mipmaps := fs.Bool("mipmaps", false, "Generate mipmaps for textures")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gfxtool upload [options] <image|shape...>")
		return errUsage
	}

	// decode and generate everything before touching the GPU
	var images []*imaging.Image
	var meshes []*mesh.Mesh
	for _, arg := range fs.Args() {
		if _, err := os.Stat(arg); err == nil {
			img, err := loadImage(arg)
			if err != nil {
				return err
			}
			images = append(images, img)
			continue
		}
		req, err := a.resolveShape(arg)
		if err != nil {
			return fmt.Errorf("%s is neither a file nor a shape: %w", arg, err)
		}
		m, err := req.generate()
		if err != nil {
			return err
		}
		meshes = append(meshes, m)
	}

	g := a.cfg.GPU
	ctx, err := gpu.NewContext(gpu.Config{
		Title:  g.Title,
		Width:  g.Width,
		Height: g.Height,
		Hidden: g.Hidden,
		VSync:  g.VSync,
	})
	if err != nil {
		return err
	}
	defer ctx.Close()

	textures := gpu.NewTextureUploader()
	textures.Mipmaps = *mipmaps
	defer textures.Delete()
	for _, img := range images {
		if err := uploadImage(textures, img); err != nil {
			return err
		}
	}

	uploader := gpu.NewMeshUploader()
	defer uploader.Delete()
	for _, m := range meshes {
		if err := mesh.Upload(uploader, m); err != nil {
			return err
		}
	}

	for _, t := range textures.Textures() {
		fmt.Fprintf(a.stdout, "texture %d: %dx%d %s\n", t.ID, t.Width, t.Height, t.Format)
	}
	for _, m := range uploader.Meshes() {
		fmt.Fprintf(a.stdout, "mesh vao %d: %d indices, mode 0x%x\n", m.VAO, m.Count, m.Mode)
	}
	if err := ctx.CheckError("upload"); err != nil {
		return err
	}
	a.log.Info("upload done",
		zap.String("gl_version", ctx.Version()),
		zap.Int("textures", len(textures.Textures())),
		zap.Int("meshes", len(uploader.Meshes())),
	)
	return nil
}

// uploadImage uploads img as stored and falls back to R8G8B8A8 for formats
// without a GL equivalent.
func uploadImage(sink *gpu.TextureUploader, img *imaging.Image) error {
	err := pixel.Upload(sink, img.Buffer)
	if !errors.Is(err, gpu.ErrUnsupportedFormat) {
		return err
	}
	rgba, err := imaging.Convert(img)
	if err != nil {
		return err
	}
	return pixel.Upload(sink, rgba.Buffer)
}
