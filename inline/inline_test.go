package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePlanner struct{ plan catalog.Plan }

func (p fakePlanner) Plan(_ context.Context, _ string, policy catalog.Policy) (catalog.Plan, error) {
	p.plan.Policy = policy
	return p.plan, nil
}

type fakePages map[string]string

func (f fakePages) Page(_ context.Context, url string) ([]byte, error) {
	page, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(page), nil
}

func entries(paths ...string) []*source.Entry {
	out := make([]*source.Entry, len(paths))
	for i, p := range paths {
		id, err := source.Parse(p)
		if err != nil {
			panic(err)
		}
		out[i] = source.NewEntry(id, "https://jut.su"+p)
	}
	return out
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	planned := entries("/naruto/episode-1.html", "/naruto/episode-2.html", "/naruto/season-2/episode-1.html")

	Convey("Given a planned anime", t, func() {
		var buf bytes.Buffer
		options := &Options{
			Out:      &buf,
			Planner:  fakePlanner{plan: catalog.Plan{Entries: planned}},
			AnimeURL: "https://jut.su/naruto/",
			Policy:   catalog.Policy{StartSeason: 1, StartEpisode: 1},
		}

		Convey("Plain output lists episode URLs", func() {
			So(Run(ctx, options), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[2], ShouldEqual, "https://jut.su/naruto/season-2/episode-1.html")
		})

		Convey("JSON output carries the entries and the policy", func() {
			options.Json = true
			So(Run(ctx, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.AnimeURL, ShouldEqual, "https://jut.su/naruto/")
			So(output.Policy.StartSeason, ShouldEqual, 1)
			So(output.Entries, ShouldHaveLength, 3)
			So(output.Entries[0].Filename, ShouldEqual, "episode-1.mp4")
			So(output.Entries[2].SeasonLabel, ShouldEqual, "season-2")
		})

		Convey("Videos are resolved at the requested quality", func() {
			options.Videos = true
			options.Quality = "720"
			options.EntriesFilter = mo.Some(mustFilter(ParseEntriesFilter("last")))
			options.Pages = fakePages{
				"https://jut.su/naruto/season-2/episode-1.html": `<source res="480" src="https://cdn/480.mp4">`,
			}

			So(Run(ctx, options), ShouldBeNil)
			So(strings.TrimSpace(buf.String()), ShouldEqual, "https://cdn/480.mp4")
		})

		Convey("Without a quality the best available video is resolved", func() {
			options.Videos = true
			options.EntriesFilter = mo.Some(mustFilter(ParseEntriesFilter("first")))
			options.Pages = fakePages{
				"https://jut.su/naruto/episode-1.html": `<source res="480" src="https://cdn/480.mp4"><source res="720" src="https://cdn/720.mp4">`,
			}

			So(Run(ctx, options), ShouldBeNil)
			So(strings.TrimSpace(buf.String()), ShouldEqual, "https://cdn/720.mp4")
		})
	})

	Convey("An empty JSON result is still an array", t, func() {
		data, err := asJson(&Output{})
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"entries":[]`)
	})
}

func mustFilter(f EntriesFilter, err error) EntriesFilter {
	if err != nil {
		panic(err)
	}
	return f
}

func TestParseEntriesFilter(t *testing.T) {
	all := entries("/naruto/episode-1.html", "/naruto/episode-2.html", "/naruto/season-2/episode-1.html", "/naruto/film-1.html")

	apply := func(description string) []string {
		f, err := ParseEntriesFilter(description)
		So(err, ShouldBeNil)
		out, err := f(all)
		So(err, ShouldBeNil)
		paths := make([]string, len(out))
		for i, e := range out {
			paths[i] = e.Path()
		}
		return paths
	}

	Convey("Entries filters select by position and path", t, func() {
		So(apply("first"), ShouldResemble, []string{"naruto/season-1/episode-1.mp4"})
		So(apply("last"), ShouldResemble, []string{"naruto/films/film-1.mp4"})
		So(apply("all"), ShouldHaveLength, 4)
		So(apply("1-2"), ShouldResemble, []string{"naruto/season-1/episode-2.mp4", "naruto/season-2/episode-1.mp4"})
		So(apply("@films@"), ShouldResemble, []string{"naruto/films/film-1.mp4"})
		So(apply("9"), ShouldBeEmpty)
	})

	Convey("Unknown filters are rejected", t, func() {
		_, err := ParseEntriesFilter("sometimes")
		So(err, ShouldNotBeNil)
	})
}

func TestSchema(t *testing.T) {
	Convey("The schema describes the output", t, func() {
		data, err := json.Marshal(Schema())
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "anime_url")
		So(string(data), ShouldContainSubstring, "entries")
	})
}
