package run

import (
	"fmt"

	"github.com/jutdl/jutdl/downloader"
)

// State is a stage of the orchestrator.
type State int

const (
	StateFetchingCatalog State = iota
	StateBuildingPlan
	StateIdle
	StateDownloading
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFetchingCatalog:
		return "fetching catalog"
	case StateBuildingPlan:
		return "building plan"
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observer is notified of state changes and of every finished episode.
type Observer interface {
	OnState(state State)
	OnEpisode(res downloader.Result, ordinal, total int)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnState(State)                         {}
func (NopObserver) OnEpisode(downloader.Result, int, int) {}

// Summary counts the outcomes of a run.
type Summary struct {
	Planned   int `json:"planned"`
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (s *Summary) add(res downloader.Result) {
	s.Attempted++
	switch res.Status {
	case downloader.StatusDownloaded:
		s.Succeeded++
	case downloader.StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
