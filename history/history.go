// Package history remembers, per anime, the furthest episode downloaded so far so that the next run
// can offer to resume right after it.
package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/source"
	"github.com/jutdl/jutdl/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Record is the resume point of one anime.
type Record struct {
	AnimeName   string    `json:"anime_name"`
	AnimeURL    string    `json:"anime_url"`
	SeasonLabel string    `json:"season_label"`
	SeasonNum   int       `json:"season_num"`
	Episode     int       `json:"episode"`
	Quality     string    `json:"quality"`
	Downloaded  int       `json:"downloaded"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Record) String() string {
	return fmt.Sprintf("%s : %s, episode %d", r.AnimeName, r.SeasonLabel, r.Episode)
}

// Next is the season and episode a resumed run starts from.
func (r *Record) Next() (season, episode int) {
	return r.SeasonNum, r.Episode + 1
}

func (r *Record) before(e *source.Entry) bool {
	if r.SeasonNum != e.SeasonNum {
		return r.SeasonNum < e.SeasonNum
	}
	return r.Episode < e.Number
}

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every record keyed by anime name.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Find returns the record of anime, if any.
func Find(anime string) mo.Option[*Record] {
	saved, err := Get()
	if err != nil {
		return mo.None[*Record]()
	}
	if record, ok := saved[anime]; ok {
		return mo.Some(record)
	}
	return mo.None[*Record]()
}

// List returns every record, most recently updated first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

// Save records that entry of the anime at animeURL is on disk. Films don't move the resume point,
// and neither does an episode that comes before the one already recorded.
func Save(entry *source.Entry, animeURL, quality string) error {
	if entry.IsFilm() {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	record, ok := saved[entry.AnimeName]
	if !ok {
		record = &Record{AnimeName: entry.AnimeName}
		saved[entry.AnimeName] = record
	}

	record.AnimeURL = animeURL
	record.Downloaded++
	record.UpdatedAt = time.Now()
	if quality != "" {
		record.Quality = quality
	}
	if !ok || record.before(entry) {
		record.SeasonLabel = entry.SeasonLabel
		record.SeasonNum = entry.SeasonNum
		record.Episode = entry.Number
	}

	return cacher.Set(saved)
}

// Remove deletes the record of anime.
func Remove(anime string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, anime)
	return cacher.Set(saved)
}
