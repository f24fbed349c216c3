// Package prompt asks the interactive questions of a download run.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/query"
	"github.com/jutdl/jutdl/source"
	"github.com/jutdl/jutdl/style"
	"github.com/samber/lo"
)

// ErrNoQualities is returned when there is nothing to choose from.
var ErrNoQualities = errors.New("no qualities to choose from")

// Anime asks for a listing URL or slug and returns the listing URL.
func Anime() (string, error) {
	input := &survey.Input{
		Message: "Anime URL or name",
		Help:    fmt.Sprintf("Either a full link such as %s/naruto/ or just naruto", constant.Origin),
		Suggest: query.SuggestMany,
	}

	var response string
	if err := survey.AskOne(input, &response, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return jutsu.AnimeURL(response), nil
}

// Quality asks for one of qualities, preselecting preferred when offered.
func Quality(qualities []string, preferred string) (string, error) {
	if len(qualities) == 0 {
		return "", ErrNoQualities
	}

	options := lo.Map(qualities, func(q string, _ int) string { return label(q) })
	sel := &survey.Select{
		Message: "Quality",
		Options: options,
	}
	if lo.Contains(qualities, preferred) {
		sel.Default = label(preferred)
	}

	var response string
	if err := survey.AskOne(sel, &response); err != nil {
		return "", err
	}
	return strings.TrimSuffix(response, "p"), nil
}

func label(quality string) string {
	return (&source.Video{Quality: quality}).String()
}

// Start asks for the first season and episode to download, offering defSeason and defEpisode.
// Anything that isn't a positive number restarts from the first episode with a notice, and ok is false.
func Start(defSeason, defEpisode int) (season, episode int, ok bool, err error) {
	questions := []*survey.Question{
		{
			Name:   "season",
			Prompt: &survey.Input{Message: "Start from season", Default: strconv.Itoa(defSeason)},
		},
		{
			Name:   "episode",
			Prompt: &survey.Input{Message: "Start from episode", Default: strconv.Itoa(defEpisode)},
		},
	}

	answers := struct {
		Season  string `survey:"season"`
		Episode string `survey:"episode"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return 0, 0, false, err
	}
	season, episode, ok = ParseStart(answers.Season, answers.Episode)
	if !ok {
		fmt.Printf("%s %s\n", icon.Get(icon.Warn), style.Faint(fmt.Sprintf("incorrect input, starting from season %d episode %d without films", season, episode)))
	}
	return season, episode, ok, nil
}

// ParseStart reads a season and an episode number. Both must be positive integers,
// otherwise the first episode of the first season is returned and ok is false.
func ParseStart(rawSeason, rawEpisode string) (season, episode int, ok bool) {
	s, errSeason := positive(rawSeason)
	e, errEpisode := positive(rawEpisode)
	if errSeason != nil || errEpisode != nil {
		return constant.DefaultStartSeason, constant.DefaultStartEpisode, false
	}
	return s, e, true
}

func positive(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// Films asks whether films are downloaded too.
func Films(def bool) (bool, error) {
	confirm := &survey.Confirm{
		Message: "Download films as well?",
		Default: def,
	}

	var response bool
	err := survey.AskOne(confirm, &response)
	return response, err
}

// Proceed asks for a final confirmation of a plan of total episodes.
func Proceed(total int) (bool, error) {
	confirm := &survey.Confirm{
		Message: fmt.Sprintf("Download %d episodes?", total),
		Default: true,
	}

	var response bool
	err := survey.AskOne(confirm, &response)
	return response, err
}
