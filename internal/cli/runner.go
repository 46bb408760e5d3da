package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/rate/internal/config"
	"github.com/idilsaglam/rate/internal/ui"
)

// Options carry root configuration into subcommands.
type Options struct {
	Config *config.Config
	// In is read by `auth login`; nil means stdin.
	In io.Reader
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			ui.Fail(err.Error())
			return 2
		}
		opt.Config = cfg
	}
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if len(args) == 0 {
		return doTUI(ctx, opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "tui":
		return doTUI(ctx, opt)

	case "ls":
		return doList(ctx, opt)

	case "set":
		if len(a) != 2 {
			ui.Fail("usage: rate set <index> <value|+n|-n>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("set: not a number: " + a[0])
			return 2
		}
		return doSet(ctx, opt, n, a[1])

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: rate add <title...>")
			return 2
		}
		return doAdd(ctx, opt, strings.Join(a, " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: rate rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(ctx, opt, n)

	case "export":
		if len(a) != 1 {
			ui.Fail("usage: rate export <file.svg|file.png>")
			return 2
		}
		return doExport(ctx, opt, a[0])

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: rate auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(opt)
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		default:
			ui.Fail("usage: rate auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`rate - rate the seasons of a show

Usage:
  rate [flags] <subcommand> [args]

Subcommands:
  tui                       Interactive board (default)
  ls                        List seasons with ratings and a chart
  set <index> <value>       Set a rating (0-100, or +n/-n to step) and save it
  add <title...>            Append a season (local stores)
  rm <index>                Remove a season (local stores)
  export <file.svg|png>     Write the ratings chart as an image
  auth <login|logout|status|whoami>   Token authentication

Flags:
  -store <kind>             json, sqlite, postgres, redis, http, memory
  -theme <name>             classic, neon, mono
  -width <n>                export width

Examples:
  rate set 2 85
  rate set 3 +10
  rate add "Season 5"
  rate export ratings.svg
`)
}
