package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/milk9111/tmxrender/compose"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
	"github.com/schollz/progressbar/v3"
	"golang.design/x/clipboard"
)

type renderCmd struct {
	settings
	clipboard bool
}

func (c *renderCmd) Name() string     { return "render" }
func (c *renderCmd) Synopsis() string { return "compose a map into a PNG image" }
func (c *renderCmd) Usage() string {
	return "tmxrender render [-config <file>] [-o <out.png>] [-on-error <policy>] [-filter <expr>] [-clipboard] <map.tmx>\n"
}
func (c *renderCmd) SetFlags(f *flag.FlagSet) {
	c.settings.register(f, true)
	f.BoolVar(&c.clipboard, "clipboard", false, "Also copy the PNG to the clipboard")
}

func (c *renderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	path, ok := mapArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	cfg, err := c.load()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	// Every layer advances the bar, painted or not, so it ends at the total.
	var bar *progressbar.ProgressBar
	hook := compose.WithLayerHook(func(index, total int, _ tmx.Layer) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("layers"),
				progressbar.OptionShowCount(),
			)
		}
		bar.Add(1)
	})

	_, img, stats, err := composeFile(path, cfg, render.NewCache(render.FileLoader{}), hook)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if unsupported(err) {
		log.Printf("Skipping %s: %v", path, err)
		return subcommands.ExitSuccess
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writeOutput(cfg.Output, img); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	logStats(cfg.Output, img, stats)

	if c.clipboard {
		if err := copyImage(img); err != nil {
			log.Println("failed to copy to clipboard:", err)
			return subcommands.ExitFailure
		}
		log.Println("Copied image to clipboard.")
	}
	return subcommands.ExitSuccess
}

func copyImage(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
