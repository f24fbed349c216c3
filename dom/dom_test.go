package dom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const page = `<html><body>
<a class="short-btn video the_hildi" href="/naruto/episode-1.html">1 серия</a>
<a class="short-btn" href="/naruto/">About</a>
<a class="video" href="/naruto/film-1.html"> Фильм 1 </a>
<video><source src="https://cdn/1080.mp4" res="1080" type="video/mp4"><source src="https://cdn/480.mp4" res="480"></video>
</body></html>`

func TestDocument(t *testing.T) {
	Convey("Given a parsed page", t, func() {
		doc, err := Parse([]byte(page))
		So(err, ShouldBeNil)

		Convey("Class matches any class token", func() {
			links := doc.FindAll("a", Match{"class": "video"})
			So(links, ShouldHaveLength, 2)
			So(links[0].Attr("href"), ShouldEqual, "/naruto/episode-1.html")
			So(links[1].Text, ShouldEqual, "Фильм 1")
		})

		Convey("Other attributes must be equal", func() {
			sources := doc.FindAll("source", Match{"res": "480"})
			So(sources, ShouldHaveLength, 1)
			So(sources[0].Attr("src"), ShouldEqual, "https://cdn/480.mp4")

			So(doc.FindAll("source", Match{"res": "720"}), ShouldBeEmpty)
		})

		Convey("An empty value only requires presence", func() {
			So(doc.FindAll("source", Match{"type": ""}), ShouldHaveLength, 1)
			So(doc.FindAll("source", nil), ShouldHaveLength, 2)
		})
	})
}
