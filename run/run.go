// Package run drives a whole download: it fetches the listing page of an anime, builds the catalog
// and the plan, then downloads the planned episodes one after another.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/source"
)

// ErrCatalogEmpty is returned when the listing page yields no downloadable episode.
var ErrCatalogEmpty = errors.New("no episodes found")

// Downloader downloads a single planned entry.
type Downloader interface {
	Download(ctx context.Context, entry *source.Entry, ordinal, total int) downloader.Result
}

// Orchestrator runs the stages of a download against one anime.
type Orchestrator struct {
	fetcher    downloader.Fetcher
	downloader Downloader
	observer   Observer
	origin     string
}

// New returns an orchestrator. A nil observer discards notifications.
func New(fetcher downloader.Fetcher, d Downloader, observer Observer) *Orchestrator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{
		fetcher:    fetcher,
		downloader: d,
		observer:   observer,
		origin:     constant.Origin,
	}
}

// Listing fetches the episode anchors of animeURL. A listing without anchors fetched through a
// proxy usually means the proxy was served a block page, so it is retried once through another proxy.
func (o *Orchestrator) Listing(ctx context.Context, animeURL string) ([]source.Link, error) {
	o.observer.OnState(StateFetchingCatalog)
	links, err := o.listing(ctx, animeURL)
	if errors.Is(err, jutsu.ErrNoEpisodes) && o.fetcher.Proxied() {
		log.Warn("no episodes found through proxy, retrying with another one")
		if rotateErr := o.fetcher.Rotate(ctx); rotateErr != nil {
			log.Warnf("proxy rotation failed, retrying directly: %s", rotateErr)
		}
		links, err = o.listing(ctx, animeURL)
	}

	if errors.Is(err, jutsu.ErrNoEpisodes) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogEmpty, animeURL)
	}
	return links, err
}

func (o *Orchestrator) listing(ctx context.Context, animeURL string) ([]source.Link, error) {
	log.Infof("fetching episode list: %s", animeURL)
	page, err := o.fetcher.Page(ctx, animeURL)
	if err != nil {
		return nil, err
	}
	return jutsu.EpisodeLinks(page)
}

// Qualities lists the qualities offered by the last listed episode, which stand in for the whole anime.
func (o *Orchestrator) Qualities(ctx context.Context, links []source.Link) ([]string, error) {
	if len(links) == 0 {
		return nil, ErrCatalogEmpty
	}

	target, err := o.resolve(links[len(links)-1].Href)
	if err != nil {
		return nil, err
	}

	page, err := o.fetcher.Page(ctx, target)
	if err != nil {
		return nil, err
	}

	videos, err := jutsu.Videos(page)
	if err != nil {
		return nil, err
	}
	return source.Qualities(videos), nil
}

func (o *Orchestrator) resolve(href string) (string, error) {
	base, err := url.Parse(o.origin)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// Catalog builds the catalog of links, failing with ErrCatalogEmpty when nothing is recognised.
func (o *Orchestrator) Catalog(links []source.Link) (*catalog.Catalog, error) {
	o.observer.OnState(StateBuildingPlan)
	c, err := catalog.Build(links, o.origin)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, ErrCatalogEmpty
	}
	return c, nil
}

// Plan fetches the listing of animeURL and plans it under policy.
func (o *Orchestrator) Plan(ctx context.Context, animeURL string, policy catalog.Policy) (catalog.Plan, error) {
	links, err := o.Listing(ctx, animeURL)
	if err != nil {
		return catalog.Plan{}, err
	}

	c, err := o.Catalog(links)
	if err != nil {
		return catalog.Plan{}, err
	}

	plan := catalog.NewPlan(c, policy)
	log.Infof("planned %d of %d episodes", plan.Total(), c.Len())
	return plan, nil
}

// Download fetches every planned entry in order. Failed episodes do not stop the run;
// cancellation does, and is returned as the context error.
func (o *Orchestrator) Download(ctx context.Context, plan catalog.Plan) (Summary, error) {
	summary := Summary{Planned: plan.Total()}
	if plan.Total() == 0 {
		o.observer.OnState(StateIdle)
		return summary, nil
	}

	for i, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		ordinal := i + 1
		o.observer.OnState(StateDownloading)
		res := o.downloader.Download(ctx, entry, ordinal, plan.Total())
		if ctx.Err() != nil && res.Status == downloader.StatusFailed {
			return summary, ctx.Err()
		}

		summary.add(res)
		o.observer.OnEpisode(res, ordinal, plan.Total())
	}

	o.observer.OnState(StateDone)
	return summary, nil
}

// Run plans animeURL and downloads the plan.
func (o *Orchestrator) Run(ctx context.Context, animeURL string, policy catalog.Policy) (Summary, error) {
	plan, err := o.Plan(ctx, animeURL, policy)
	if err != nil {
		return Summary{}, err
	}
	return o.Download(ctx, plan)
}
