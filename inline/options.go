package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type EntriesFilter func([]*source.Entry) ([]*source.Entry, error)

type Options struct {
	Out           io.Writer
	Planner       Planner
	Pages         PageFetcher
	AnimeURL      string
	Policy        catalog.Policy
	Quality       string
	Json          bool
	Videos        bool
	EntriesFilter mo.Option[EntriesFilter]
}

// ParseEntriesFilter parses a selector of planned entries.
// Format: "first", "last", "all", "1-5", "@substring@" or a single index, all indices starting at 0.
func ParseEntriesFilter(description string) (EntriesFilter, error) {
	switch description {
	case "first":
		return func(entries []*source.Entry) ([]*source.Entry, error) {
			return entries[:min(1, len(entries))], nil
		}, nil
	case "last":
		return func(entries []*source.Entry) ([]*source.Entry, error) {
			return entries[max(0, len(entries)-1):], nil
		}, nil
	case "all":
		return func(entries []*source.Entry) ([]*source.Entry, error) {
			return entries, nil
		}, nil
	}

	// Range: "1-5"
	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(entries []*source.Entry) ([]*source.Entry, error) {
				first := min(int(start), len(entries))
				last := min(int(end)+1, len(entries))
				if first > last {
					return []*source.Entry{}, nil
				}
				return entries[first:last], nil
			}, nil
		}
	}

	// Substring of the destination path: "@season-2@"
	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(entries []*source.Entry) ([]*source.Entry, error) {
			return lo.Filter(entries, func(e *source.Entry, _ int) bool {
				return strings.Contains(strings.ToLower(e.Path()), sub)
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(entries []*source.Entry) ([]*source.Entry, error) {
			if uint64(len(entries)) <= idx {
				return []*source.Entry{}, nil
			}
			return []*source.Entry{entries[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid entries filter: %s", description)
}
