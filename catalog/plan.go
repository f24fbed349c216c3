package catalog

import (
	"sort"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/source"
	"github.com/samber/lo"
)

// Policy selects which catalog entries a run downloads.
type Policy struct {
	StartSeason  int  `json:"start_season"`
	StartEpisode int  `json:"start_episode"`
	IncludeFilms bool `json:"include_films"`
}

// FromTheBeginning is the policy of a run whose start could not be read:
// the first episode of the first season, films left out.
func FromTheBeginning() Policy {
	return Policy{StartSeason: constant.DefaultStartSeason, StartEpisode: constant.DefaultStartEpisode}
}

// Includes applies the policy to a single entry. Films ignore the season and episode thresholds.
func (p Policy) Includes(e *source.Entry) bool {
	if e.IsFilm() {
		return p.IncludeFilms
	}
	switch {
	case e.SeasonNum > p.StartSeason:
		return true
	case e.SeasonNum == p.StartSeason:
		return e.Number >= p.StartEpisode
	default:
		return false
	}
}

// Plan is the ordered download queue of a run.
type Plan struct {
	Policy  Policy          `json:"policy"`
	Entries []*source.Entry `json:"entries"`
}

// Total is the number of episodes to download.
func (p Plan) Total() int {
	return len(p.Entries)
}

// NewPlan orders seasons by number, keeping first-seen order for equal numbers, then episodes by
// number, and appends films last.
func NewPlan(c *Catalog, policy Policy) Plan {
	var seasons, films []string
	for _, label := range c.seasonLabels() {
		if len(c.seasons[label]) == 0 {
			continue
		}
		if anyFilm(c.seasons[label]) {
			films = append(films, label)
		} else {
			seasons = append(seasons, label)
		}
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return c.seasonNum(seasons[i]) < c.seasonNum(seasons[j])
	})

	plan := Plan{Policy: policy}
	for _, label := range append(seasons, films...) {
		plan.Entries = append(plan.Entries, lo.Filter(c.Season(label), func(e *source.Entry, _ int) bool {
			return policy.Includes(e)
		})...)
	}
	return plan
}

func (c *Catalog) seasonNum(label string) int {
	for _, e := range c.seasons[label] {
		return e.SeasonNum
	}
	return 0
}

func anyFilm(bucket map[int]*source.Entry) bool {
	return lo.SomeBy(lo.Values(bucket), func(e *source.Entry) bool { return e.IsFilm() })
}
