package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// RecsList prints a country's recommendations.
func (r *Runner) RecsList(ctx context.Context, cmd *cli.Command) error {
	country, err := requireArg(cmd, "country")
	if err != nil {
		return err
	}
	if err := r.recs.Fetch(ctx, country); err != nil {
		return err
	}

	var recs []models.Recommendation
	switch kind := cmd.String("kind"); kind {
	case "system":
		recs = r.recs.System(country)
	case "community":
		recs = r.recs.Community(country)
	case "all", "":
		recs = r.recs.All(country)
	default:
		return fmt.Errorf("%w: kind must be one of all, system, community", shared.ErrInvalidFlag)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Recommendations for %s (%d)", country, len(recs)))
	for _, rec := range recs {
		r.writePlain("[%s] %s - %s (%s)\n", rec.RecType, rec.Artist, rec.Title, rec.ID)
		if rec.YouTubeURL != "" {
			r.writePlain("    %s\n", rec.YouTubeURL)
		}
	}
	return nil
}

// RecsAdd submits a community recommendation.
func (r *Runner) RecsAdd(ctx context.Context, cmd *cli.Command) error {
	country, err := requireArg(cmd, "country")
	if err != nil {
		return err
	}

	id, err := r.recs.AddCommunityRec(ctx, models.CommunityRecInput{
		CountryName: country,
		SongTitle:   cmd.String("title"),
		Artist:      cmd.String("artist"),
		Language:    cmd.String("language"),
		YouTubeURL:  cmd.String("url"),
		Genre:       cmd.String("genre"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Added recommendation %s for %s\n", id, country)
}

// RecsOpen opens a recommendation's YouTube link.
func (r *Runner) RecsOpen(ctx context.Context, cmd *cli.Command) error {
	country, err := requireArg(cmd, "country")
	if err != nil {
		return err
	}
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	rec, err := r.findRec(ctx, country, id)
	if err != nil {
		return err
	}
	if rec.YouTubeURL == "" {
		return fmt.Errorf("%w: recommendation %s has no link", shared.ErrInvalidArgument, id)
	}

	r.writePlain("Opening %s\n", rec.YouTubeURL)
	return shared.OpenBrowser(rec.YouTubeURL)
}

// findRec looks id up in country's recommendations, fetching them when not cached.
func (r *Runner) findRec(ctx context.Context, country, id string) (models.Recommendation, error) {
	if rec, ok := r.recs.Find(country, id); ok {
		return rec, nil
	}
	if err := r.recs.Fetch(ctx, country); err != nil {
		return models.Recommendation{}, err
	}
	if rec, ok := r.recs.Find(country, id); ok {
		return rec, nil
	}
	return models.Recommendation{}, fmt.Errorf("%w: no recommendation %s for %s", shared.ErrInvalidArgument, id, country)
}
