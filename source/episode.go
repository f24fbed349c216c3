// Package source defines the domain model of the site: episode identities derived from URL paths,
// catalog entries and the playable videos of an episode page.
package source

import (
	"fmt"
	"path"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/util"
)

// Kind distinguishes regular episodes from films.
type Kind string

const (
	KindEpisode Kind = "episode"
	KindFilm    Kind = "film"
)

// Identity is the structured form of an episode URL path. Films carry SeasonNum 0.
type Identity struct {
	AnimeName   string `json:"anime"`
	SeasonLabel string `json:"season"`
	SeasonNum   int    `json:"season_num"`
	Kind        Kind   `json:"type"`
	Number      int    `json:"number"`
}

// IsFilm reports whether the identity belongs to the films pseudo-season.
func (id Identity) IsFilm() bool {
	return id.Kind == KindFilm
}

func (id Identity) String() string {
	return fmt.Sprintf("%s, %s, %s %d", id.AnimeName, id.SeasonLabel, id.Kind, id.Number)
}

// Entry is a downloadable catalog item.
type Entry struct {
	Identity
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// NewEntry builds the entry for id found at the absolute url.
func NewEntry(id Identity, url string) *Entry {
	return &Entry{
		Identity: id,
		URL:      url,
		Filename: fmt.Sprintf("%s-%d.%s", id.Kind, id.Number, constant.VideoExt),
	}
}

// Dir is the destination directory relative to the downloads root.
// Films land in <anime>/films, episodes in <anime>/<season_label>.
func (e *Entry) Dir() string {
	anime := util.SanitizeFilename(e.AnimeName)
	if e.IsFilm() {
		return path.Join(anime, constant.FilmsLabel)
	}
	return path.Join(anime, util.SanitizeFilename(e.SeasonLabel))
}

// Path is the destination file relative to the downloads root.
func (e *Entry) Path() string {
	return path.Join(e.Dir(), e.Filename)
}

// Link is a scraped episode anchor of a listing page.
type Link struct {
	Href string
	Text string
}
