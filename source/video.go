package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// QualityLadder is the fixed fallback order tried when the requested quality is missing.
var QualityLadder = []string{"1080", "720", "480", "360"}

// ErrQualityUnavailable is returned when no video exists at or below the requested quality.
var ErrQualityUnavailable = errors.New("no video at or below requested quality")

// ErrInvalidQuality is returned for a quality that is not on QualityLadder.
var ErrInvalidQuality = errors.New("invalid quality")

// ParseQuality accepts a ladder quality with or without the p suffix, e.g. 720 or 720p.
func ParseQuality(raw string) (string, error) {
	q := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "p")
	if !lo.Contains(QualityLadder, q) {
		return "", fmt.Errorf("%w %q, expected one of %s", ErrInvalidQuality, raw, strings.Join(QualityLadder, ", "))
	}
	return q, nil
}

// Video is a playable <source> of an episode page.
type Video struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// String returns the quality or URL for display.
func (v *Video) String() string {
	if v.Quality != "" {
		return v.Quality + "p"
	}
	return v.URL
}

// Selection is the outcome of SelectQuality.
type Selection struct {
	Video       Video
	Requested   string
	Substituted bool
}

// SelectQuality returns the video matching requested, stepping down QualityLadder when it is missing.
// A requested quality outside the ladder is only honoured on an exact match.
func SelectQuality(videos []Video, requested string) (Selection, error) {
	byQuality := make(map[string]Video, len(videos))
	for _, v := range videos {
		if _, seen := byQuality[v.Quality]; !seen {
			byQuality[v.Quality] = v
		}
	}

	if v, ok := byQuality[requested]; ok {
		return Selection{Video: v, Requested: requested}, nil
	}

	start := lo.IndexOf(QualityLadder, requested)
	if start < 0 {
		return Selection{}, fmt.Errorf("%w: invalid quality %q", ErrQualityUnavailable, requested)
	}

	for _, q := range QualityLadder[start+1:] {
		if v, ok := byQuality[q]; ok {
			return Selection{Video: v, Requested: requested, Substituted: true}, nil
		}
	}

	return Selection{}, fmt.Errorf("%w: %sp", ErrQualityUnavailable, requested)
}

// Qualities lists the distinct declared qualities in page order.
func Qualities(videos []Video) []string {
	return lo.Uniq(lo.FilterMap(videos, func(v Video, _ int) (string, bool) {
		return v.Quality, v.Quality != ""
	}))
}
