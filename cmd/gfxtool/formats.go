package main

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/midgard-gfx/pkg/pixel"
)

func (a *app) cmdFormats(args []string) error {
	fs := flag.NewFlagSet("formats", flag.ContinueOnError)
	width := fs.Int("width", 256, "Width used for the row pitch column")
	height := fs.Int("height", 256, "Height used for the slice pitch column")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter := strings.ToUpper(strings.Join(fs.Args(), "_"))

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBITS\tROW PITCH\tSLICE PITCH\tFLAGS")
	for i := 0; i < 256; i++ {
		f := pixel.Format(i)
		if !pixel.IsValid(f) || !strings.Contains(f.String(), filter) {
			continue
		}
		row, slice := pixel.ComputePitch(f, *width, *height)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", i, f, pixel.SizeOfInBits(f), row, slice, formatFlags(f))
	}
	return tw.Flush()
}

func formatFlags(f pixel.Format) string {
	var flags []string
	if pixel.IsCompressed(f) {
		flags = append(flags, "compressed")
	}
	if pixel.IsSRGB(f) {
		flags = append(flags, "srgb")
	}
	if pixel.IsTypeless(f) {
		flags = append(flags, "typeless")
	}
	if pixel.IsPacked(f) {
		flags = append(flags, "packed")
	}
	if pixel.IsVideo(f) {
		flags = append(flags, "video")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
