package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"
	"github.com/milk9111/tmxrender/compose"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/screen"
	"github.com/milk9111/tmxrender/tmx"
)

type previewCmd struct {
	settings
	scale float64
}

func (c *previewCmd) Name() string     { return "preview" }
func (c *previewCmd) Synopsis() string { return "show a composed map in a window" }
func (c *previewCmd) Usage() string {
	return "tmxrender preview [-scale <n>] [-config <file>] [-on-error <policy>] [-filter <expr>] <map.tmx>\n"
}
func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	c.settings.register(f, false)
	f.Float64Var(&c.scale, "scale", 1, "Window scale factor")
}

func (c *previewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	path, ok := mapArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.scale <= 0 {
		log.Printf("invalid scale %v", c.scale)
		return subcommands.ExitUsageError
	}
	cfg, err := c.load()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	m, err := tmx.LoadFile(path)
	if err == nil {
		err = compose.Check(m)
	}
	if unsupported(err) {
		log.Printf("Skipping %s: %v", path, err)
		return subcommands.ExitSuccess
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	g := screen.NewGame(m, compose.New(render.FileLoader{}, opts...))
	if err := screen.Run(g, fmt.Sprintf("tmxrender - %s", path), c.scale); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
