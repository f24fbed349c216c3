// Package query remembers the anime a user has downloaded and suggests them back while typing.
package query

import (
	"net/url"
	"strings"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*queryRecord](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Remember stores the anime slug of input, raising its rank by weight when already known.
func Remember(input string, weight int) error {
	slug := Slug(input)
	if slug == "" {
		return nil
	}

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	if record, ok := cached[slug]; ok {
		record.Rank += weight
	} else {
		cached[slug] = &queryRecord{Rank: weight, Query: slug}
	}

	return cacher.Set(cached)
}

// SuggestMany returns remembered slugs fuzzily matching q, most used first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	q = Slug(q)
	records := lo.Filter(lo.Values(cached), func(r *queryRecord, _ int) bool {
		return fuzzy.MatchFold(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *queryRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Query
	})
}

// Slug reduces a listing URL or a bare identifier to the anime slug, lower-cased.
func Slug(input string) string {
	input = strings.TrimSpace(strings.ToLower(input))
	if strings.HasPrefix(input, "http") {
		if u, err := url.Parse(input); err == nil {
			input = u.Path
		}
	}

	slug, _, _ := strings.Cut(strings.Trim(input, "/"), "/")
	return slug
}
