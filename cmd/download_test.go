package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStartFrom(t *testing.T) {
	Convey("Given no start flags", t, func() {
		Convey("The prompt is shown with the history default", func() {
			useHistory, asked := startFrom(false, false, false)
			So(useHistory, ShouldBeTrue)
			So(asked, ShouldBeTrue)
		})

		Convey("--yes alone starts from the flags and ignores history", func() {
			useHistory, asked := startFrom(true, false, false)
			So(useHistory, ShouldBeFalse)
			So(asked, ShouldBeFalse)
		})

		Convey("--continue takes history without asking", func() {
			for _, yes := range []bool{true, false} {
				useHistory, asked := startFrom(yes, false, true)
				So(useHistory, ShouldBeTrue)
				So(asked, ShouldBeFalse)
			}
		})
	})

	Convey("Explicit -s or -e always win", t, func() {
		useHistory, asked := startFrom(false, true, true)
		So(useHistory, ShouldBeFalse)
		So(asked, ShouldBeFalse)
	})
}
