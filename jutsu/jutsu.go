// Package jutsu knows the markup of the site: where episode anchors live on a listing page
// and where playable sources live on an episode page.
package jutsu

import (
	"errors"
	"strings"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/dom"
	"github.com/jutdl/jutdl/source"
	"github.com/samber/lo"
)

var (
	// ErrNoEpisodes is returned when a listing page carries no episode anchors,
	// usually because an anti-bot page was served instead.
	ErrNoEpisodes = errors.New("no episodes found on page")

	// ErrNoSources is returned when an episode page carries no playable source.
	ErrNoSources = errors.New("no video sources found on page")
)

// AnimeURL turns user input into a listing page URL. Anything not starting with http is a slug.
func AnimeURL(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "http") {
		return input
	}
	return constant.Origin + "/" + strings.Trim(input, "/") + "/"
}

// EpisodeLinks extracts the episode anchors of a listing page in page order.
func EpisodeLinks(page []byte) ([]source.Link, error) {
	doc, err := dom.Parse(page)
	if err != nil {
		return nil, err
	}

	links := lo.FilterMap(doc.FindAll("a", dom.Match{"class": "video", "href": ""}), func(e dom.Element, _ int) (source.Link, bool) {
		href := strings.TrimSpace(e.Attr("href"))
		return source.Link{Href: href, Text: e.Text}, href != ""
	})
	if len(links) == 0 {
		return nil, ErrNoEpisodes
	}
	return links, nil
}

// Videos extracts every <source> with a declared resolution from an episode page.
func Videos(page []byte) ([]source.Video, error) {
	doc, err := dom.Parse(page)
	if err != nil {
		return nil, err
	}

	videos := lo.Map(doc.FindAll("source", dom.Match{"res": "", "src": ""}), func(e dom.Element, _ int) source.Video {
		return source.Video{URL: e.Attr("src"), Quality: e.Attr("res")}
	})
	if len(videos) == 0 {
		return nil, ErrNoSources
	}
	return videos, nil
}
