package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/idilsaglam/rate/internal/cli"
	"github.com/idilsaglam/rate/internal/config"
	"github.com/idilsaglam/rate/internal/logging"
	"github.com/idilsaglam/rate/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	// Root flags (apply to every subcommand)
	storeKind := flag.String("store", cfg.Store, "store backend: json, sqlite, postgres, redis, http, memory")
	theme := flag.String("theme", cfg.Theme, "theme: classic, neon, mono")
	width := flag.Int("width", cfg.ChartWidth, "chart export width")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	cfg.Store, cfg.Theme, cfg.ChartWidth = *storeKind, *theme, *width
	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(false, *noColor)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	interactive := len(args) == 0 || args[0] == "tui"
	if interactive && cfg.Log.File == "" {
		// keep log lines off the alt screen
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.DataFile), "rate.log")
	}
	closer, err := logging.Setup(cfg.Log, nil)
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, args, cli.Options{Config: cfg})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	closer.Close()
	os.Exit(code)
}
