package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/five82/folio/internal/app"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		return 1
	}
	return 0
}

func newCLI() *cli.App {
	return &cli.App{
		Name:            "folio",
		Usage:           "Search books from the terminal",
		Version:         fmt.Sprintf("%s (%s)", version, commit),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (defaults to ~/.config/folio/config.toml)",
			},
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "Store preferences in `FILE` (defaults to ~/.config/folio/prefs.toml)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Volumes search `URL`",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period after typing before a search starts",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Color theme: Nightfox, Kanagawa or Slate",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to `FILE`",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on `ADDR` (disabled when empty)",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Search for `TEXT` as soon as the interface opens",
			},
		},
		Action: func(c *cli.Context) error {
			return app.Run(c.Context, optionsFrom(c))
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one search and print the results",
				ArgsUsage: "QUERY...",
				Action:    searchAction,
			},
			{
				Name:  "logs",
				Usage: "Print the end of the log file",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "lines",
						Aliases: []string{"n"},
						Usage:   "Number of lines to show (0 shows all)",
						Value:   200,
					},
					&cli.StringFlag{
						Name:  "level",
						Usage: "Hide records below `LEVEL`",
					},
				},
				Action: func(c *cli.Context) error {
					return app.Logs(optionsFrom(c), c.Int("lines"), c.String("level"), os.Stdout)
				},
			},
		},
	}
}

func searchAction(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	err := app.Search(c.Context, optionsFrom(c), query, os.Stdout)
	if errors.Is(err, app.ErrEmptyQuery) {
		return fmt.Errorf("search: %w (usage: folio search QUERY...)", err)
	}
	return err
}

// optionsFrom reads the global flags; subcommands see them through the
// lineage of the context.
func optionsFrom(c *cli.Context) app.Options {
	return app.Options{
		ConfigPath:  c.String("config"),
		PrefsPath:   c.String("prefs"),
		Endpoint:    c.String("endpoint"),
		Debounce:    c.Duration("debounce"),
		Theme:       c.String("theme"),
		LogLevel:    c.String("log-level"),
		LogFile:     c.String("log-file"),
		MetricsAddr: c.String("metrics-addr"),
		Query:       c.String("query"),
	}
}
