package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/formatter"
	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
	"github.com/desertthunder/passport/internal/tasks"
)

// PassportCountries prints the explored countries.
func (r *Runner) PassportCountries(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.passport.FetchExploredCountries(ctx); err != nil {
		return err
	}

	countries := r.passport.Countries()
	if cmd.Bool("json") {
		return r.writeJSON(countries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Explored Countries (%d)", len(countries)))
	for _, c := range countries {
		r.writePlain("  • %s\n", c.Country)
	}
	return nil
}

// PassportHistory prints one country's history in the requested format.
func (r *Runner) PassportHistory(ctx context.Context, cmd *cli.Command) error {
	country, err := requireArg(cmd, "country")
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	if err := r.passport.FetchHistoryForCountry(ctx, country); err != nil {
		return err
	}
	entries, _ := r.passport.History(country)

	export := &formatter.PassportExport{
		Username:   r.auth.Username(),
		Country:    country,
		Entries:    entries,
		ExportedAt: time.Now().UTC(),
	}

	var data []byte
	switch format {
	case formatter.FormatCSV:
		data, err = formatter.ExportToCSV(export)
	case formatter.FormatMarkdown:
		data, err = formatter.ExportToMarkdown(export)
	case formatter.FormatJSON:
		data, err = formatter.ExportToJSON(export)
	default:
		data, err = formatter.ExportToText(export)
	}
	if err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// PassportSongs prints every explored song, deduplicated across countries.
func (r *Runner) PassportSongs(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	songs, err := r.passport.ExploredSongs(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Explored Songs (%d)", len(songs)))
	for i, s := range songs {
		r.writePlain("  %d. %s - %s\n", i+1, s.Artist, s.SongTitle)
	}
	return nil
}

// PassportLog logs a song as explored in a country, either from a recommendation
// id or from explicit song flags.
func (r *Runner) PassportLog(ctx context.Context, cmd *cli.Command) error {
	country, err := requireArg(cmd, "country")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	var song models.Song
	if recID := cmd.String("rec"); recID != "" {
		rec, err := r.findRec(ctx, country, recID)
		if err != nil {
			return err
		}
		song = models.SongFromRecommendation(rec)
	} else {
		song = models.Song{ID: cmd.String("song-id"), SongTitle: cmd.String("title"), Artist: cmd.String("artist")}
		if song.ID == "" {
			return fmt.Errorf("%w: --rec or --song-id", shared.ErrMissingArgument)
		}
	}

	entry, err := r.passport.LogExploration(ctx, song, country)
	if err != nil {
		return err
	}
	r.logger.Debug("exploration logged", "entry", entry, "country", country)

	title := song.SongTitle
	if title == "" {
		title = song.ID
	}
	return r.writePlain("✓ Logged %s in %s\n", title, country)
}

// PassportExport writes every explored country's history to files with live progress.
func (r *Runner) PassportExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Countries:  cmd.StringSlice("country"),
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Export.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Export.RateLimit
	}

	r.logger.Info("starting passport export", "format", opts.Format, "output", opts.OutputDir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCountries:
				r.writePlain("🌍 %s\n", update.Message)
			case tasks.FetchHistory:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportCountry:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, r.auth.User(), r.auth.Username(), opts)
	close(progressCh)
	<-printed

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Countries: %d/%d exported\n", result.SuccessfulExports, result.TotalCountries)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d countries:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.Country, res.Error)
			}
		}
	}

	return err
}
