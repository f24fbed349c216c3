// Package catalog organizes scraped episode links into a season-indexed catalog and selects
// the ordered subset of it that a run downloads.
package catalog

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/source"
	"github.com/samber/lo"
)

// Catalog maps season labels to their episodes keyed by number.
// It is built once by Build and only read afterwards.
type Catalog struct {
	seasons map[string]map[int]*source.Entry
	order   []string
}

// Build parses every link and files it under its season. Links that don't parse are logged and skipped.
// Relative hrefs are resolved against origin. A later link with the same season and number replaces
// the earlier one.
func Build(links []source.Link, origin string) (*Catalog, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("origin %q: %w", origin, err)
	}

	c := &Catalog{seasons: make(map[string]map[int]*source.Entry)}
	for _, link := range links {
		ref, err := url.Parse(link.Href)
		if err != nil {
			log.Errorf("skipping link %q: %s", link.Href, err)
			continue
		}

		id, err := source.Parse(ref.Path)
		if err != nil {
			log.Errorf("skipping link %q: %s", link.Href, err)
			continue
		}

		c.put(source.NewEntry(id, base.ResolveReference(ref).String()))
		log.Infof("added: %s", id)
	}

	return c, nil
}

func (c *Catalog) put(e *source.Entry) {
	bucket, ok := c.seasons[e.SeasonLabel]
	if !ok {
		bucket = make(map[int]*source.Entry)
		c.seasons[e.SeasonLabel] = bucket
		c.order = append(c.order, e.SeasonLabel)
	}
	bucket[e.Number] = e
}

// Len is the number of distinct entries.
func (c *Catalog) Len() int {
	return lo.SumBy(lo.Values(c.seasons), func(b map[int]*source.Entry) int { return len(b) })
}

// seasonLabels returns the season labels in the order they were first seen.
func (c *Catalog) seasonLabels() []string {
	return append([]string(nil), c.order...)
}

// Season returns the entries of label sorted by number.
func (c *Catalog) Season(label string) []*source.Entry {
	bucket := c.seasons[label]
	entries := lo.Values(bucket)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Number < entries[j].Number
	})
	return entries
}
