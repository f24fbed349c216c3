package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jutdl/jutdl/constant"
)

// ErrUnknownFormat is returned for paths that are not an anime page, an episode or a film.
var ErrUnknownFormat = errors.New("unknown url format")

// ParseError reports a path of a known shape whose numeric part could not be read.
type ParseError struct {
	Path    string
	Segment string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: segment %q: %v", e.Path, e.Segment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse derives an Identity from a site path such as
//
//	naruto
//	naruto/episode-4.html
//	naruto/season-2/episode-14.html
//	naruto/film-3.html
//
// The anime root page stands for episode 1 of season 1.
func Parse(urlPath string) (Identity, error) {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return Identity{}, ErrUnknownFormat
	}

	parts := strings.Split(trimmed, "/")
	anime := parts[0]

	switch len(parts) {
	case 1:
		return Identity{
			AnimeName:   anime,
			SeasonLabel: firstSeason,
			SeasonNum:   1,
			Kind:        KindEpisode,
			Number:      1,
		}, nil
	case 2:
		switch {
		case strings.HasPrefix(parts[1], constant.EpisodePrefix):
			n, err := number(urlPath, parts[1], constant.EpisodePrefix)
			if err != nil {
				return Identity{}, err
			}
			return Identity{
				AnimeName:   anime,
				SeasonLabel: firstSeason,
				SeasonNum:   1,
				Kind:        KindEpisode,
				Number:      n,
			}, nil
		case strings.HasPrefix(parts[1], constant.FilmPrefix):
			n, err := number(urlPath, parts[1], constant.FilmPrefix)
			if err != nil {
				return Identity{}, err
			}
			return Identity{
				AnimeName:   anime,
				SeasonLabel: constant.FilmsLabel,
				SeasonNum:   0,
				Kind:        KindFilm,
				Number:      n,
			}, nil
		}
	case 3:
		season, err := number(urlPath, parts[1], constant.SeasonPrefix)
		if err != nil {
			return Identity{}, err
		}
		n, err := number(urlPath, parts[2], constant.EpisodePrefix)
		if err != nil {
			return Identity{}, err
		}
		return Identity{
			AnimeName:   anime,
			SeasonLabel: parts[1],
			SeasonNum:   season,
			Kind:        KindEpisode,
			Number:      n,
		}, nil
	}

	return Identity{}, fmt.Errorf("%w: %s", ErrUnknownFormat, urlPath)
}

var firstSeason = constant.SeasonPrefix + "1"

// number strips prefix and any extension from segment and reads the positive integer left.
func number(urlPath, segment, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(segment, prefix)
	if !ok {
		return 0, &ParseError{Path: urlPath, Segment: segment, Err: fmt.Errorf("missing %q prefix", prefix)}
	}
	rest, _, _ = strings.Cut(rest, ".")

	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &ParseError{Path: urlPath, Segment: segment, Err: err}
	}
	if n < 1 {
		return 0, &ParseError{Path: urlPath, Segment: segment, Err: fmt.Errorf("number %d out of range", n)}
	}
	return n, nil
}
