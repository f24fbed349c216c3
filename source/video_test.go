package source

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVideo(t *testing.T) {
	Convey("Video", t, func() {
		v := &Video{
			URL:     "http://example.com/vid.mp4",
			Quality: "1080",
		}

		Convey("String representation", func() {
			So(v.String(), ShouldEqual, "1080p")
			v.Quality = ""
			So(v.String(), ShouldEqual, "http://example.com/vid.mp4")
		})
	})
}

func TestSelectQuality(t *testing.T) {
	Convey("Given the videos of an episode page", t, func() {
		videos := []Video{
			{URL: "https://cdn/480.mp4", Quality: "480"},
			{URL: "https://cdn/360.mp4", Quality: "360"},
		}

		Convey("An available quality is selected as is", func() {
			sel, err := SelectQuality(videos, "360")
			So(err, ShouldBeNil)
			So(sel.Video.URL, ShouldEqual, "https://cdn/360.mp4")
			So(sel.Substituted, ShouldBeFalse)
		})

		Convey("A missing quality steps down the ladder", func() {
			sel, err := SelectQuality(videos, "1080")
			So(err, ShouldBeNil)
			So(sel.Video.Quality, ShouldEqual, "480")
			So(sel.Requested, ShouldEqual, "1080")
			So(sel.Substituted, ShouldBeTrue)
		})

		Convey("Nothing at or below the requested quality fails", func() {
			_, err := SelectQuality([]Video{{URL: "x", Quality: "720"}}, "480")
			So(errors.Is(err, ErrQualityUnavailable), ShouldBeTrue)
		})

		Convey("An unknown quality only matches exactly", func() {
			_, err := SelectQuality(videos, "2160")
			So(errors.Is(err, ErrQualityUnavailable), ShouldBeTrue)

			sel, err := SelectQuality([]Video{{URL: "4k", Quality: "2160"}}, "2160")
			So(err, ShouldBeNil)
			So(sel.Video.URL, ShouldEqual, "4k")
		})

		Convey("Qualities lists distinct declared qualities", func() {
			vs := append(videos, Video{URL: "dup", Quality: "480"}, Video{URL: "none"})
			So(Qualities(vs), ShouldResemble, []string{"480", "360"})
		})
	})
}

func TestParseQuality(t *testing.T) {
	Convey("Ladder qualities are accepted with or without the suffix", t, func() {
		for raw, want := range map[string]string{"1080": "1080", "720p": "720", " 480P ": "480"} {
			q, err := ParseQuality(raw)
			So(err, ShouldBeNil)
			So(q, ShouldEqual, want)
		}
	})

	Convey("Anything else is rejected", t, func() {
		for _, raw := range []string{"1800", "", "hd", "240p"} {
			_, err := ParseQuality(raw)
			So(errors.Is(err, ErrInvalidQuality), ShouldBeTrue)
		}
	})
}
