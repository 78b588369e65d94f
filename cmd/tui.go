package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymns/internal/search"
	"github.com/desertthunder/hymns/internal/shared"
	"github.com/desertthunder/hymns/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for hymn search.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	if err := r.connect(ctx); err != nil {
		return err
	}
	defer r.close()

	return ui.Run(ctx, ui.Deps{
		Searcher: r.songs,
		Recents:  r.history,
		Hymns:    r.hymns,
		History:  r.history,
		Logger:   r.logger,
		Options: []search.Option{
			search.WithDebounce(r.config.Search.Debounce()),
			search.WithMaxHymnNumber(r.config.Search.MaxHymnNumber),
			search.WithRecentLimit(r.config.Search.RecentLimit),
		},
	})
}
