package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/milk9111/tmxrender/atlas"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
)

type inspectCmd struct {
	load bool
}

func (c *inspectCmd) Name() string     { return "inspect" }
func (c *inspectCmd) Synopsis() string { return "print the layers and tilesets of a map" }
func (c *inspectCmd) Usage() string {
	return "tmxrender inspect [-load] <map.tmx>\n"
}
func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.load, "load", false, "Load atlas images whose size the map does not declare")
}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	path, ok := mapArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	m, err := tmx.LoadFile(path)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	var loader render.Loader
	if c.load {
		loader = render.FileLoader{}
	}
	if err := inspect(os.Stdout, m, loader); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// inspect writes a summary of m to w. Atlas images without a declared size
// are measured through loader when it is not nil.
func inspect(w io.Writer, m *tmx.Map, loader render.Loader) error {
	pw, ph := m.PixelSize()
	fmt.Fprintf(w, "orientation: %s\n", m.Orientation)
	fmt.Fprintf(w, "size: %dx%d tiles of %dx%d (%dx%d px)\n", m.Width, m.Height, m.TileWidth, m.TileHeight, pw, ph)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLAYER\tKIND\tVISIBLE\tCONTENT")
	for i, l := range m.Layers {
		err := tmx.MatchLayer(l,
			func(tl *tmx.TileLayer) error {
				n := 0
				for _, gid := range tl.Cells {
					if !gid.Empty() {
						n++
					}
				}
				fmt.Fprintf(tw, "%d\t%s\ttile\t%t\t%d/%d cells\n", i, tl.Name, tl.Visible, n, len(tl.Cells))
				return nil
			},
			func(ol *tmx.ObjectLayer) error {
				tiles := 0
				for _, o := range ol.Objects {
					if _, ok := o.(*tmx.TileObject); ok {
						tiles++
					}
				}
				fmt.Fprintf(tw, "%d\t%s\tobject\t%t\t%d objects, %d tiles\n", i, ol.Name, ol.Visible, len(ol.Objects), tiles)
				return nil
			},
		)
		if err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TILESET\tGIDS\tMODE\tSOURCE\tGRID")
	for _, ts := range m.Tilesets {
		gids := fmt.Sprintf("%d-%d", ts.FirstGID, ts.LastGID())
		if ts.LastGID() < ts.FirstGID {
			gids = fmt.Sprintf("%d-", ts.FirstGID)
		}

		if ts.IsCollection() {
			fmt.Fprintf(tw, "%s\t%s\tcollection\t%d images\t-\n", ts.Name, gids, len(ts.Tiles))
			continue
		}
		if ts.Image == nil {
			fmt.Fprintf(tw, "%s\t%s\tatlas\t-\t-\n", ts.Name, gids)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\tatlas\t%s\t%s\n", ts.Name, gids, ts.Image.Source, grid(ts, loader))
	}
	return tw.Flush()
}

func grid(ts *tmx.Tileset, loader render.Loader) string {
	var size image.Point
	switch {
	case ts.Image.HasSize():
		size = atlas.AtlasSize(ts, image.Point{})
	case loader != nil:
		img, err := loader.Load(ts.Image.Source)
		if err != nil {
			return "?"
		}
		size = img.Bounds().Size()
	default:
		return "?"
	}
	cols, rows := atlas.Grid(ts, size)
	return fmt.Sprintf("%dx%d tiles in %dx%d px", cols, rows, size.X, size.Y)
}
