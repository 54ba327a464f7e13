package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/watch"
)

type watchCmd struct {
	settings
}

func (c *watchCmd) Name() string     { return "watch" }
func (c *watchCmd) Synopsis() string { return "re-render a map whenever it or its images change" }
func (c *watchCmd) Usage() string {
	return "tmxrender watch [-config <file>] [-o <out.png>] [-on-error <policy>] [-filter <expr>] <map.tmx>\n"
}
func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	c.settings.register(f, true)
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	path, ok := mapArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	cfg, err := c.load()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cache := render.NewCache(render.FileLoader{})
	w, err := watch.NewWatcher(cfg.Watch.Debounce, filepath.Dir(path))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer w.Close()
	if c.configPath != "" {
		if err := w.Add(filepath.Dir(c.configPath)); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	rebuild := func() {
		m, img, stats, err := composeFile(path, cfg, cache)
		if m != nil {
			if err := w.Add(watch.Dirs(path, m)...); err != nil {
				log.Printf("watch: %v", err)
			}
		}
		if err != nil {
			log.Println(err)
			return
		}
		if err := writeOutput(cfg.Output, img); err != nil {
			log.Println(err)
			return
		}
		logStats(cfg.Output, img, stats)
	}

	rebuild()
	log.Printf("Watching %s, press Ctrl+C to stop.", path)

	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case err, ok := <-w.Errors:
			if !ok {
				return subcommands.ExitSuccess
			}
			log.Printf("watch: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return subcommands.ExitSuccess
			}
			switch ev.Kind {
			case watch.KindImage:
				cache.Forget(filepath.Clean(ev.Path))
			case watch.KindConfig:
				if !sameFile(ev.Path, c.configPath) {
					continue
				}
				next, err := c.load()
				if err != nil {
					log.Println(err)
					continue
				}
				cfg = next
			}
			log.Printf("%s changed (%v), rendering.", ev.Path, ev.Kind)
			rebuild()
		}
	}
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
