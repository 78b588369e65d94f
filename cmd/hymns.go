package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/hymns/internal/converter"
	"github.com/desertthunder/hymns/internal/formatter"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/resource"
	"github.com/desertthunder/hymns/internal/search"
	"github.com/desertthunder/hymns/internal/shared"
	"github.com/urfave/cli/v3"
)

// parseIdentifier accepts a hymnal path ("/en/hymn/h/594?gb=1") or its short key form ("h/594?gb=1").
func parseIdentifier(arg string) (models.Identifier, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return models.Identifier{}, fmt.Errorf("%w: hymn path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(arg, "/") {
		arg = "/en/hymn/" + arg
	}
	return converter.ParsePath(arg)
}

// outputFormat resolves --format, letting --json override it.
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.FormatJSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

// Hymn prints or saves a single hymn, fetching and caching it when it is not stored locally.
func (r *Runner) Hymn(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIdentifier(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if format == formatter.FormatCSV {
		return fmt.Errorf("%w: csv is only supported for search results", shared.ErrInvalidArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}
	defer r.close()

	hymn := <-r.hymns.GetHymn(ctx, id)
	if hymn == nil {
		return fmt.Errorf("%w: %s", shared.ErrHymnNotFound, id)
	}

	if !cmd.Bool("no-history") {
		if err := r.history.StoreRecentSong(ctx, id, hymn.Title); err != nil {
			r.logger.Warn("failed to record history", "id", id.Key(), "error", err)
		}
	}

	if cmd.IsSet("output") || cmd.Bool("save") {
		path, err := formatter.WriteHymnExport(hymn, format, cmd.String("output"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Saved %s to %s\n", hymn.Title, path)
	}

	data, err := formatter.FormatHymn(hymn, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Search prints one page of results. Numeric queries list matching hymn numbers instead.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	page := cmd.Int("page")
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", shared.ErrInvalidArgument, page)
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var results models.UiSongResultsPage
	if search.IsPositiveInteger(query) {
		results = numberResults(query, r.config.Search.MaxHymnNumber)
	} else {
		if err := r.connect(ctx); err != nil {
			return err
		}
		defer r.close()

		var last resource.Resource[models.UiSongResultsPage]
		for res := range r.songs.Search(ctx, query, page) {
			if res.IsTerminal() {
				last = res
			}
		}
		if last.Status == resource.StatusError {
			return last.Err
		}
		results = last.Data
	}

	switch format {
	case formatter.FormatJSON:
		data, err := formatter.ResultsToJSON(results)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case formatter.FormatCSV:
		data, err := formatter.ResultsToCSV(results.Results)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case formatter.FormatText:
		if len(results.Results) == 0 {
			return r.writePlain("No results for %q\n", query)
		}
		r.writePlainHeader(fmt.Sprintf("Results for %q (page %d)", query, page))
		if err := r.writeBytes(formatter.ResultsToText(results.Results)); err != nil {
			return err
		}
		if results.HasMorePages {
			return r.writePlain("\nMore results: --page %d\n", page+1)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s is not supported for search results", shared.ErrInvalidArgument, format)
	}
}

func numberResults(query string, maxNumber int) models.UiSongResultsPage {
	numbers := search.MatchNumbers(query, maxNumber)
	results := make([]models.UiSongResult, len(numbers))
	for i, n := range numbers {
		results[i] = models.UiSongResult{
			Name:       "Hymn " + n,
			Identifier: models.NewIdentifier(models.Classic, n, nil),
		}
	}
	return models.UiSongResultsPage{Results: results}
}

type recentJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Recent lists recently viewed hymns, newest first.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Search.RecentLimit
	}

	if err := r.connect(ctx); err != nil {
		return err
	}
	defer r.close()

	songs, err := r.history.RecentSongs(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load recent hymns: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]recentJSON, len(songs))
		for i, s := range songs {
			out[i] = recentJSON{ID: s.Identifier.Key(), Title: s.Title}
		}
		return r.writeJSON(out, true)
	}

	if len(songs) == 0 {
		return r.writePlain("No recent hymns\n")
	}
	r.writePlainHeader(search.RecentLabel)
	for i, s := range songs {
		r.writePlain("%d. %s [%s]\n", i+1, s.Title, s.Identifier.Key())
	}
	return nil
}
