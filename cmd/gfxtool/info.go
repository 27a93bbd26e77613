package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/pkg/imaging"
	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

func (a *app) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	all := fs.Bool("all", false, "Decode every image of an icon file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gfxtool info [options] <image...>")
		return errUsage
	}

	var failed int
	for _, path := range fs.Args() {
		if err := a.info(path, *all); err != nil {
			a.log.Error("info failed", zap.String("path", path), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, fs.NArg())
	}
	return nil
}

func (a *app) info(path string, all bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	kind := imaging.Sniff(data)
	if kind == imaging.KindUnknown {
		kind = imaging.KindFromPath(path)
	}
	fmt.Fprintf(a.stdout, "%s: %d bytes\n", path, len(data))

	switch kind {
	case imaging.KindBMP:
		err = a.infoBMP(data)
	case imaging.KindTGA:
		err = a.infoTGA(data)
	case imaging.KindICO:
		err = a.infoICO(data, all)
	default:
		return a.infoForeign(data)
	}
	if err != nil {
		return err
	}

	img, err := imaging.Decode(data, kind)
	if err != nil {
		return err
	}
	a.printLayout("Decoded", img.Buffer)
	return nil
}

func (a *app) infoBMP(data []byte) error {
	h, err := imaging.DecodeBMPHeader(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "  Container:   BMP (info header %d bytes)\n", h.InfoSize)
	fmt.Fprintf(a.stdout, "  Size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(a.stdout, "  Bit count:   %d\n", h.BitCount)
	fmt.Fprintf(a.stdout, "  Compression: %d\n", h.Compression)
	fmt.Fprintf(a.stdout, "  Data offset: %d\n", h.DataOffset)
	fmt.Fprintf(a.stdout, "  Row stride:  %d\n", h.RowStride())
	fmt.Fprintf(a.stdout, "  Top down:    %v\n", h.TopDown)
	if h.RedMask|h.GreenMask|h.BlueMask|h.AlphaMask != 0 {
		fmt.Fprintf(a.stdout, "  Masks:       R=%08x G=%08x B=%08x A=%08x\n", h.RedMask, h.GreenMask, h.BlueMask, h.AlphaMask)
	}
	fmt.Fprintf(a.stdout, "  Stored as:   %s\n", h.Format)
	return nil
}

func (a *app) infoTGA(data []byte) error {
	info, err := imaging.DecodeTGAHeader(data)
	if err != nil {
		return err
	}
	h := info.Header
	fmt.Fprintf(a.stdout, "  Container:   TGA (image type %d)\n", h.ImageType)
	fmt.Fprintf(a.stdout, "  Size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(a.stdout, "  Bits:        %d\n", h.BitsPerPixel)
	fmt.Fprintf(a.stdout, "  Descriptor:  0x%02x\n", h.Descriptor)
	fmt.Fprintf(a.stdout, "  RLE:         %v\n", info.Flags&imaging.TGARLE != 0)
	fmt.Fprintf(a.stdout, "  Data offset: %d\n", info.Offset)
	fmt.Fprintf(a.stdout, "  Stored as:   %s\n", info.Description.Format)
	return nil
}

func (a *app) infoICO(data []byte, all bool) error {
	dir, err := imaging.DecodeICOHeader(data)
	if err != nil {
		return err
	}
	container := "ICO"
	if dir.Type == 2 {
		container = "CUR"
	}
	best := imaging.SelectBestImage(dir.Entries)
	fmt.Fprintf(a.stdout, "  Container:   %s (%d images)\n", container, len(dir.Entries))
	for i, e := range dir.Entries {
		w, h := e.Size()
		marker := " "
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(a.stdout, "  %s [%d] %dx%d %d bpp, %d bytes at %d\n", marker, i, w, h, e.BitCount, e.BytesInRes, e.ImageOffset)
	}
	if !all {
		return nil
	}

	images, err := imaging.DecodeICOAll(data)
	if err != nil {
		return err
	}
	for i, img := range images {
		a.printLayout(fmt.Sprintf("Image %d", i), img.Buffer)
	}
	return nil
}

// infoForeign describes files none of our codecs handle, using the
// standard decoders registered in convert.go.
func (a *app) infoForeign(data []byte) error {
	t, err := filetype.Match(data)
	if err != nil || t == filetype.Unknown {
		return fmt.Errorf("%w: unknown file type", imaging.ErrUnrecognized)
	}
	fmt.Fprintf(a.stdout, "  Container:   %s (%s)\n", t.Extension, t.MIME.Value)

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil
		}
		return err
	}
	fmt.Fprintf(a.stdout, "  Size:        %dx%d (%s, convertible)\n", cfg.Width, cfg.Height, name)
	return nil
}

func (a *app) printLayout(label string, b *pixel.Buffer) {
	fmt.Fprintf(a.stdout, "  %s: %dx%d %s, row stride %d, %d bytes\n",
		label, b.Width(), b.Height(), b.Format(), b.RowStride(), len(b.Data()))
}
