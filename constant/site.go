package constant

// Site parameters.
const (
	// Origin is the base origin every relative episode href is resolved against.
	Origin = "https://jut.su"

	// ProbeURL is requested through a candidate proxy to prove it is alive.
	ProbeURL = Origin

	// VideoExt is the extension given to every downloaded file.
	VideoExt = "mp4"

	// FilmsLabel is the pseudo-season directory holding films.
	FilmsLabel = "films"
)

// Episode path prefixes used by the site.
const (
	SeasonPrefix  = "season-"
	EpisodePrefix = "episode-"
	FilmPrefix    = "film-"
)

// Default prompt answers.
const (
	DefaultStartSeason  = 1
	DefaultStartEpisode = 1
)
