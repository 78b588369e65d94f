// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// hymnCommand prints a single hymn.
func hymnCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "hymn",
		Aliases:   []string{"h"},
		Usage:     "Show a hymn by path (/en/hymn/h/594) or key (h/594)",
		ArgsUsage: "<path>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown or json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Shorthand for --format json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout (empty value picks {type}_{number}.{ext})",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Write to a file named after the hymn",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the hymn as recently viewed",
			},
		},
		Action: r.Hymn,
	}
}

// searchCommand runs one page of a search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search hymns by title or lyrics, falling back to the local index when offline",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page, starting at 1",
				Value: 1,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json or csv",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Shorthand for --format json",
			},
		},
		Action: r.Search,
	}
}

// recentCommand lists recently viewed hymns.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently viewed hymns",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of hymns to list (defaults to search.recent_limit)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Recent,
	}
}

// cacheCommand handles opt-in offline caching
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache hymns locally for offline use",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Fetch a range of hymns into the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Hymn type: h, nt, ns, c or lb",
						Value:   "h",
					},
					&cli.IntFlag{
						Name:  "from",
						Usage: "First hymn number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "to",
						Usage: "Last hymn number (defaults to search.max_hymn_number)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent fetches (max 10)",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Hymns per second (defaults to remote.rate_limit)",
					},
				},
				Action: r.CacheWarm,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive search.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive hymn search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file for the TUI session",
				Value: "./tmp/hymns-tui.log",
			},
		},
		Action: r.TUI,
	}
}
