package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/source"
	. "github.com/smartystreets/goconvey/convey"
)

const animeURL = "https://jut.su/naruto/"

const listing = `<html><body>
<a class="short-btn video the_hildi" href="/naruto/season-1/episode-1.html">1</a>
<a class="short-btn video the_hildi" href="/naruto/season-1/episode-2.html">2</a>
<a class="short-btn video the_hildi" href="/naruto/season-2/episode-1.html">1</a>
<a class="short-btn video the_hildi" href="/naruto/film-1.html">film</a>
</body></html>`

type fakeFetcher struct {
	pages     map[string][]string
	proxied   bool
	rotations int
}

func (f *fakeFetcher) Page(_ context.Context, url string) ([]byte, error) {
	queue, ok := f.pages[url]
	if !ok || len(queue) == 0 {
		return nil, fmt.Errorf("unexpected fetch of %s", url)
	}
	page := queue[0]
	if len(queue) > 1 {
		f.pages[url] = queue[1:]
	}
	return []byte(page), nil
}

func (f *fakeFetcher) Stream(context.Context, string) (*http.Response, error) {
	return nil, errors.New("not streaming in tests")
}

func (f *fakeFetcher) Rotate(context.Context) error {
	f.rotations++
	return nil
}

func (f *fakeFetcher) Proxied() bool { return f.proxied }

type fakeDownloader struct {
	seen   []string
	fail   map[string]bool
	skip   map[string]bool
	cancel context.CancelFunc
	stopAt int
}

func (d *fakeDownloader) Download(_ context.Context, entry *source.Entry, ordinal, _ int) downloader.Result {
	d.seen = append(d.seen, entry.Path())
	if d.cancel != nil && ordinal == d.stopAt {
		d.cancel()
		return downloader.Result{Entry: entry, Status: downloader.StatusFailed, Err: context.Canceled}
	}

	switch {
	case d.fail[entry.Path()]:
		return downloader.Result{Entry: entry, Status: downloader.StatusFailed, Err: errors.New("boom")}
	case d.skip[entry.Path()]:
		return downloader.Result{Entry: entry, Status: downloader.StatusSkipped}
	default:
		return downloader.Result{Entry: entry, Status: downloader.StatusDownloaded}
	}
}

type recorder struct {
	states   []State
	episodes int
}

func (r *recorder) OnState(s State) { r.states = append(r.states, s) }
func (r *recorder) OnEpisode(downloader.Result, int, int) {
	r.episodes++
}

func TestOrchestrator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a listing with two seasons and a film", t, func() {
		fetcher := &fakeFetcher{pages: map[string][]string{animeURL: {listing}}}
		d := &fakeDownloader{fail: map[string]bool{}, skip: map[string]bool{}}
		obs := &recorder{}
		o := New(fetcher, d, obs)

		Convey("When everything is planned", func() {
			summary, err := o.Run(ctx, animeURL, catalog.Policy{StartSeason: 1, StartEpisode: 1, IncludeFilms: true})

			Convey("Then episodes are downloaded in order with the film last", func() {
				So(err, ShouldBeNil)
				So(d.seen, ShouldResemble, []string{
					"naruto/season-1/episode-1.mp4",
					"naruto/season-1/episode-2.mp4",
					"naruto/season-2/episode-1.mp4",
					"naruto/films/film-1.mp4",
				})
				So(summary, ShouldResemble, Summary{Planned: 4, Attempted: 4, Succeeded: 4})
				So(obs.states[0], ShouldEqual, StateFetchingCatalog)
				So(obs.states[1], ShouldEqual, StateBuildingPlan)
				So(obs.states[len(obs.states)-1], ShouldEqual, StateDone)
				So(obs.episodes, ShouldEqual, 4)
			})
		})

		Convey("When an episode fails the run continues", func() {
			d.fail["naruto/season-1/episode-2.mp4"] = true
			d.skip["naruto/season-1/episode-1.mp4"] = true

			summary, err := o.Run(ctx, animeURL, catalog.Policy{StartSeason: 1, StartEpisode: 1})
			So(err, ShouldBeNil)
			So(summary, ShouldResemble, Summary{Planned: 3, Attempted: 3, Succeeded: 1, Skipped: 1, Failed: 1})
		})

		Convey("When the policy excludes everything the run is idle", func() {
			summary, err := o.Run(ctx, animeURL, catalog.Policy{StartSeason: 9, StartEpisode: 1})
			So(err, ShouldBeNil)
			So(summary.Planned, ShouldEqual, 0)
			So(d.seen, ShouldBeEmpty)
			So(obs.states[len(obs.states)-1], ShouldEqual, StateIdle)
		})

		Convey("When the run is cancelled mid-way", func() {
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			d.cancel, d.stopAt = cancel, 2

			summary, err := o.Run(cctx, animeURL, catalog.Policy{StartSeason: 1, StartEpisode: 1})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(d.seen, ShouldHaveLength, 2)
			So(summary.Succeeded, ShouldEqual, 1)
			So(summary.Failed, ShouldEqual, 0)
		})
	})

	Convey("Given a listing page without episodes", t, func() {
		empty := "<html><body>blocked</body></html>"

		Convey("Through a proxy it is retried once with another proxy", func() {
			fetcher := &fakeFetcher{pages: map[string][]string{animeURL: {empty, listing}}, proxied: true}
			o := New(fetcher, &fakeDownloader{}, nil)

			links, err := o.Listing(ctx, animeURL)
			So(err, ShouldBeNil)
			So(links, ShouldHaveLength, 4)
			So(fetcher.rotations, ShouldEqual, 1)
		})

		Convey("Directly it is reported as an empty catalog", func() {
			fetcher := &fakeFetcher{pages: map[string][]string{animeURL: {empty, listing}}}
			o := New(fetcher, &fakeDownloader{}, nil)

			_, err := o.Run(ctx, animeURL, catalog.Policy{StartSeason: 1, StartEpisode: 1})
			So(errors.Is(err, ErrCatalogEmpty), ShouldBeTrue)
			So(fetcher.rotations, ShouldEqual, 0)
		})
	})

	Convey("Given links that are not episodes", t, func() {
		page := `<a class="video" href="/">home</a>`
		fetcher := &fakeFetcher{pages: map[string][]string{animeURL: {page}}}
		d := &fakeDownloader{}
		o := New(fetcher, d, nil)

		_, err := o.Run(ctx, animeURL, catalog.Policy{StartSeason: 1, StartEpisode: 1})
		So(errors.Is(err, ErrCatalogEmpty), ShouldBeTrue)
		So(d.seen, ShouldBeEmpty)
	})
}

func TestQualities(t *testing.T) {
	Convey("Qualities are probed from the last listed episode", t, func() {
		last := "https://jut.su/naruto/film-1.html"
		fetcher := &fakeFetcher{pages: map[string][]string{
			last: {`<video><source res="720" src="a"><source res="360" src="b"><source res="720" src="c"></video>`},
		}}
		o := New(fetcher, &fakeDownloader{}, nil)

		qualities, err := o.Qualities(context.Background(), []source.Link{
			{Href: "/naruto/episode-1.html"},
			{Href: "/naruto/film-1.html"},
		})
		So(err, ShouldBeNil)
		So(qualities, ShouldResemble, []string{"720", "360"})
	})

	Convey("No links means nothing to probe", t, func() {
		o := New(&fakeFetcher{}, &fakeDownloader{}, nil)
		_, err := o.Qualities(context.Background(), nil)
		So(errors.Is(err, ErrCatalogEmpty), ShouldBeTrue)
	})
}

func TestStepwise(t *testing.T) {
	Convey("Listing and cataloguing without a downloader still report their states", t, func() {
		fetcher := &fakeFetcher{pages: map[string][]string{animeURL: {listing}}}
		obs := &recorder{}
		o := New(fetcher, nil, obs)

		links, err := o.Listing(context.Background(), animeURL)
		So(err, ShouldBeNil)
		c, err := o.Catalog(links)
		So(err, ShouldBeNil)
		So(c.Len(), ShouldEqual, 4)

		So(obs.states, ShouldResemble, []State{StateFetchingCatalog, StateBuildingPlan})
	})
}
