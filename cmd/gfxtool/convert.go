package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-gfx/pkg/imaging"
)

// convertOptions are the resolved encoder settings of one convert run.
type convertOptions struct {
	kind    imaging.Kind
	bmpBits int
	tgaRLE  bool
	outDir  string
}

func (a *app) cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", a.cfg.Imaging.Format, "Target container: bmp, tga or ico")
	workers := fs.Int("j", a.cfg.Imaging.Workers, "Concurrent conversions (0 = one per CPU)")
	rle := fs.Bool("rle", a.cfg.Imaging.TGARLE, "Run-length encode TGA output")
	bmpBits := fs.Int("bmp-bits", a.cfg.Imaging.BMPBits, "BMP bit count: 24, 32 or 0 for automatic")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gfxtool convert [options] <image...>")
		return errUsage
	}

	opts := convertOptions{
		kind:    imaging.ParseKind(*to),
		bmpBits: *bmpBits,
		tgaRLE:  *rle,
		outDir:  a.cfg.Output.Dir,
	}
	if opts.kind == imaging.KindUnknown {
		return fmt.Errorf("%w: target %q", imaging.ErrUnsupported, *to)
	}
	if opts.outDir == "" {
		opts.outDir = "."
	}
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return err
	}

	limit := *workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	sources := fs.Args()
	outputs := make([]string, len(sources))
	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			dst, err := a.convertFile(src, opts)
			if err != nil {
				// one bad file does not stop the batch
				a.log.Error("convert failed", zap.String("src", src), zap.Error(err))
				failed.Add(1)
				return nil
			}
			outputs[i] = dst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, dst := range outputs {
		if dst != "" {
			fmt.Fprintf(a.stdout, "%s -> %s\n", sources[i], dst)
		}
	}
	a.log.Info("convert done",
		zap.Int("converted", len(sources)-int(failed.Load())),
		zap.Int32("failed", failed.Load()),
		zap.Int("workers", limit),
	)
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(sources))
	}
	return nil
}

func (a *app) convertFile(src string, opts convertOptions) (string, error) {
	img, err := loadImage(src)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(opts.outDir, base+"."+opts.kind.String())
	if sameFile(src, dst) {
		return "", fmt.Errorf("refusing to overwrite source %s", src)
	}

	var buf bytes.Buffer
	switch opts.kind {
	case imaging.KindBMP:
		err = imaging.EncodeBMPWithOptions(&buf, img, imaging.BMPOptions{BitCount: opts.bmpBits})
	case imaging.KindTGA:
		err = imaging.EncodeTGAWithOptions(&buf, img, imaging.TGAOptions{RLE: opts.tgaRLE})
	default:
		err = imaging.Encode(&buf, img, opts.kind)
	}
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	a.log.Debug("converted",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Stringer("format", img.Format()),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
		zap.Int("bytes", buf.Len()),
	)
	return dst, nil
}

// loadImage decodes src with our codecs and falls back to the standard
// image decoders for anything else.
func loadImage(src string) (*imaging.Image, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(data, imaging.KindFromPath(src))
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, imaging.ErrUnrecognized) && !errors.Is(err, imaging.ErrUnsupported) {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}

	std, _, stdErr := image.Decode(bytes.NewReader(data))
	if stdErr != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return imaging.FromImage(std), nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
