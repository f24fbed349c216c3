package history

import (
	"testing"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/source"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func entry(path string) *source.Entry {
	id, err := source.Parse(path)
	if err != nil {
		panic(err)
	}
	return source.NewEntry(id, "https://jut.su"+path)
}

func TestHistory(t *testing.T) {
	Convey("Given a downloaded episode", t, func() {
		_ = Remove("bleach")
		first := entry("/bleach/season-2/episode-4.html")

		Convey("When saving it", func() {
			err := Save(first, "https://jut.su/bleach/", "720")
			So(err, ShouldBeNil)

			Convey("Then the resume point follows it", func() {
				record, ok := Find("bleach").Get()
				So(ok, ShouldBeTrue)
				So(record.Quality, ShouldEqual, "720")
				season, episode := record.Next()
				So(season, ShouldEqual, 2)
				So(episode, ShouldEqual, 5)
			})

			Convey("And an earlier episode does not move it back", func() {
				So(Save(entry("/bleach/season-1/episode-9.html"), "https://jut.su/bleach/", ""), ShouldBeNil)

				record := Find("bleach").MustGet()
				So(record.SeasonNum, ShouldEqual, 2)
				So(record.Episode, ShouldEqual, 4)
				So(record.Quality, ShouldEqual, "720")
				So(record.Downloaded, ShouldEqual, 2)
			})

			Convey("And a film is not recorded", func() {
				So(Save(entry("/bleach/film-1.html"), "https://jut.su/bleach/", "720"), ShouldBeNil)
				So(Find("bleach").MustGet().Downloaded, ShouldEqual, 1)
			})

			Convey("And it is listed", func() {
				records, err := List()
				So(err, ShouldBeNil)
				So(len(records), ShouldBeGreaterThan, 0)
				So(records[0].String(), ShouldEqual, "bleach : season-2, episode 4")
			})
		})
	})

	Convey("An unknown anime has no record", t, func() {
		So(Find("nothing-here").IsAbsent(), ShouldBeTrue)
	})
}
