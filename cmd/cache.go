package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
	"github.com/desertthunder/hymns/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheWarm fetches a range of hymns into the local database so they are available offline.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	hymnType, ok := models.ParseHymnType(cmd.String("type"))
	if !ok {
		return fmt.Errorf("%w: unknown hymn type %q", shared.ErrInvalidArgument, cmd.String("type"))
	}

	to := cmd.Int("to")
	if to <= 0 {
		to = r.config.Search.MaxHymnNumber
	}
	rate := r.config.Remote.RateLimit
	if cmd.IsSet("rate") {
		rate = cmd.Float("rate")
	}

	if err := r.connect(ctx); err != nil {
		return err
	}
	defer r.close()

	opts := tasks.PrefetchOpts{
		Type:       hymnType,
		From:       cmd.Int("from"),
		To:         to,
		NumWorkers: cmd.Int("workers"),
		RateLimit:  rate,
	}
	r.logger.Info("warming cache", "type", hymnType, "from", opts.From, "to", opts.To, "rate", rate)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			switch update.Phase {
			case tasks.PrefetchStart:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.PrefetchHymn:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.PrefetchMissing:
				r.writePlain("   [%d/%d] ⚠ %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := tasks.NewPrefetcher(r.hymns, r.logger).Run(ctx, progressCh, opts)
	close(progressCh)
	<-printed

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Cache Warm Complete")
	r.writePlain("Cached: %d/%d\n", result.Fetched, result.Total)
	if len(result.Missing) > 0 {
		r.writePlain("Missing %d hymns:\n", len(result.Missing))
		for _, id := range result.Missing {
			r.writePlain("  - %s\n", id)
		}
	}

	return err
}
