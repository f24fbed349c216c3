// Package inline implements the non-interactive mode: it plans a download and prints the plan as
// plain URLs or JSON instead of downloading it.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/source"
)

// Planner produces the plan of an anime.
type Planner interface {
	Plan(ctx context.Context, animeURL string, policy catalog.Policy) (catalog.Plan, error)
}

// PageFetcher fetches episode pages when video URLs are requested.
type PageFetcher interface {
	Page(ctx context.Context, url string) ([]byte, error)
}

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	plan, err := options.Planner.Plan(ctx, options.AnimeURL, options.Policy)
	if err != nil {
		return err
	}

	entries := plan.Entries
	if options.EntriesFilter.IsPresent() {
		entries, err = options.EntriesFilter.MustGet()(entries)
		if err != nil {
			return err
		}
	}

	resolved := make([]*Entry, len(entries))
	for i, e := range entries {
		resolved[i] = &Entry{Entry: e}
	}

	if options.Videos {
		for _, e := range resolved {
			if err := resolveVideo(ctx, e, options); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warnf("failed to resolve video of %s: %v", e.URL, err)
			}
		}
	}

	if options.Json {
		return writeJson(options.Out, &Output{AnimeURL: options.AnimeURL, Policy: plan.Policy, Entries: resolved})
	}

	for _, e := range resolved {
		if options.Videos && e.Video != nil {
			fmt.Fprintln(options.Out, e.Video.URL)
		} else {
			fmt.Fprintln(options.Out, e.URL)
		}
	}
	return nil
}

func resolveVideo(ctx context.Context, e *Entry, options *Options) error {
	page, err := options.Pages.Page(ctx, e.URL)
	if err != nil {
		return err
	}

	videos, err := jutsu.Videos(page)
	if err != nil {
		return err
	}

	quality := options.Quality
	if quality == "" {
		quality = source.QualityLadder[0]
	}
	sel, err := source.SelectQuality(videos, quality)
	if err != nil {
		return err
	}

	e.Video = &sel.Video
	e.Substituted = sel.Substituted
	return nil
}

func writeJson(out io.Writer, output *Output) error {
	data, err := asJson(output)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
