// gfxtool generates procedural meshes and converts BMP, TGA and ICO images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/internal/config"
	"github.com/Faultbox/midgard-gfx/internal/logger"
)

var errUsage = errors.New("invalid usage")

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	log    *zap.Logger
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("gfxtool", flag.ContinueOnError)
	flags := config.RegisterFlags(global)
	global.Usage = func() { printUsage(os.Stderr) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() < 1 {
		printUsage(os.Stderr)
		return errUsage
	}

	command, rest := global.Arg(0), global.Args()[1:]
	if command == "help" {
		printUsage(stdout)
		return nil
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	a := &app{cfg: cfg, stdout: stdout, log: logger.Named(command)}
	a.log.Debug("starting", zap.Strings("args", rest))

	switch command {
	case "shape":
		return a.cmdShape(rest)
	case "info":
		return a.cmdInfo(rest)
	case "convert":
		return a.cmdConvert(rest)
	case "formats":
		return a.cmdFormats(rest)
	case "upload":
		return a.cmdUpload(rest)
	case "config":
		return a.cmdConfig(rest)
	}
	fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
	printUsage(os.Stderr)
	return errUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `gfxtool - procedural meshes and BMP/TGA/ICO images

Usage:
  gfxtool [global options] <command> [options]

Global options:
  -config <file>    Config file (default ./gfxtool.yaml or the user config dir)
  -debug            Enable debug logging
  -log-file <file>  Also log to a rotating file
  -out <dir>        Output directory
  -j <n>            Concurrent conversions

Commands:
  shape <kind|preset>        Generate a mesh, optionally as Wavefront OBJ
  info <image...>            Show container headers and decoded layout
  convert <image...>         Convert images to BMP, TGA or ICO
  formats [filter]           List pixel formats and their metadata
  upload <image|shape...>    Upload into a hidden OpenGL context
  config [-save|-save-to f]  Print or save the effective configuration

Examples:
  gfxtool shape -list
  gfxtool shape -geom outlined -tess 24 -o sphere.obj sphere
  gfxtool -out build convert -to tga -j 4 icons/*.png
  gfxtool info app.ico`)
}
