package cmd

import (
	"context"
	"fmt"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/history"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/prompt"
	"github.com/jutdl/jutdl/query"
	"github.com/jutdl/jutdl/run"
	"github.com/jutdl/jutdl/source"
	"github.com/jutdl/jutdl/style"
	"github.com/jutdl/jutdl/util"
	"github.com/jutdl/jutdl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("quality", "q", "", "Preferred quality: 1080, 720, 480 or 360. Lower ones are used when it's missing")
	cmd.Flags().IntP("season", "s", constant.DefaultStartSeason, "First season to download")
	cmd.Flags().IntP("episode", "e", constant.DefaultStartEpisode, "First episode of the first season")
	cmd.Flags().BoolP("films", "f", false, "Download films as well")
}

// options are the answers of a run, from flags, config, history or prompts.
type options struct {
	animeURL string
	quality  string
	policy   catalog.Policy
}

func download(ctx context.Context, cmd *cobra.Command, args []string) error {
	yes := lo.Must(cmd.Flags().GetBool("yes"))
	preferred, err := preferredQuality(cmd)
	if err != nil {
		return err
	}

	var opts options
	if len(args) > 0 {
		opts.animeURL = jutsu.AnimeURL(args[0])
	} else {
		animeURL, err := prompt.Anime()
		if err != nil {
			return err
		}
		opts.animeURL = animeURL
	}

	conn, err := connect(ctx)
	if err != nil {
		return err
	}

	observer := &consoleObserver{animeURL: opts.animeURL}
	scout := run.New(conn.fetcher, nil, observer)
	links, err := scout.Listing(ctx, opts.animeURL)
	if err != nil {
		return err
	}
	_ = query.Remember(opts.animeURL, 1)

	if opts.quality, err = chooseQuality(ctx, cmd, scout, links, preferred, yes); err != nil {
		return err
	}

	if opts.policy, err = choosePolicy(cmd, opts.animeURL, yes); err != nil {
		return err
	}

	c, err := scout.Catalog(links)
	if err != nil {
		return err
	}

	plan := catalog.NewPlan(c, opts.policy)
	fmt.Printf("%s %s\n", icon.Get(icon.Progress), style.Bold(fmt.Sprintf("%s planned from %s", util.Quantify(plan.Total(), "episode", "episodes"), opts.animeURL)))
	if !yes && plan.Total() > 0 {
		ok, err := prompt.Proceed(plan.Total())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	d := downloader.New(conn.fetcher, where.Downloads(), opts.quality)
	observer.quality = opts.quality
	orchestrator := run.New(conn.fetcher, d, observer)

	summary, err := orchestrator.Download(ctx, plan)
	printSummary(summary)
	return err
}

// preferredQuality reads --quality, then the configured default. Empty means no preference.
func preferredQuality(cmd *cobra.Command) (string, error) {
	quality := lo.Must(cmd.Flags().GetString("quality"))
	if quality == "" {
		quality = viper.GetString(key.DownloadsQuality)
	}
	if quality == "" {
		return "", nil
	}
	return source.ParseQuality(quality)
}

func chooseQuality(ctx context.Context, cmd *cobra.Command, scout *run.Orchestrator, links []source.Link, quality string, yes bool) (string, error) {
	if quality != "" && (yes || cmd.Flags().Changed("quality")) {
		return quality, nil
	}

	qualities, err := scout.Qualities(ctx, links)
	if err != nil {
		return "", err
	}
	log.Infof("available qualities: %v", qualities)

	if yes && len(qualities) > 0 {
		return qualities[0], nil
	}
	return prompt.Quality(qualities, quality)
}

func choosePolicy(cmd *cobra.Command, animeURL string, yes bool) (catalog.Policy, error) {
	policy := catalog.Policy{
		StartSeason:  lo.Must(cmd.Flags().GetInt("season")),
		StartEpisode: lo.Must(cmd.Flags().GetInt("episode")),
		IncludeFilms: viper.GetBool(key.DownloadsFilms),
	}
	if cmd.Flags().Changed("films") {
		policy.IncludeFilms = lo.Must(cmd.Flags().GetBool("films"))
	}

	resume := lo.Must(cmd.Flags().GetBool("continue"))
	startGiven := cmd.Flags().Changed("season") || cmd.Flags().Changed("episode")
	useHistory, asked := startFrom(yes, startGiven, resume)
	if useHistory {
		if record, ok := history.Find(query.Slug(animeURL)).Get(); ok {
			policy.StartSeason, policy.StartEpisode = record.Next()
			fmt.Printf("%s %s\n", icon.Get(icon.Progress), style.Faint("last downloaded: "+record.String()))
		} else if resume {
			fmt.Printf("%s %s\n", icon.Get(icon.Warn), style.Faint("nothing to continue from, starting from the beginning"))
		}
	}

	if !asked {
		return policy, nil
	}

	season, episode, ok, err := prompt.Start(policy.StartSeason, policy.StartEpisode)
	if err != nil {
		return policy, err
	}
	if !ok {
		return catalog.FromTheBeginning(), nil
	}
	policy.StartSeason, policy.StartEpisode = season, episode

	if !cmd.Flags().Changed("films") {
		if policy.IncludeFilms, err = prompt.Films(policy.IncludeFilms); err != nil {
			return policy, err
		}
	}
	return policy, nil
}

// startFrom decides whether the history record moves the start and whether the start prompt is shown.
// History is read for --continue and as the prompt default, never for a bare --yes.
func startFrom(yes, startGiven, resume bool) (useHistory, asked bool) {
	asked = !yes && !startGiven && !resume
	useHistory = !startGiven && (resume || asked)
	return useHistory, asked
}

// consoleObserver prints one line per finished episode and records progress.
type consoleObserver struct {
	animeURL string
	quality  string
}

func (o *consoleObserver) OnState(state run.State) {
	log.Infof("state: %s", state)
	if state == run.StateIdle {
		fmt.Printf("%s %s\n", icon.Get(icon.Skip), style.Faint("nothing to download"))
	}
}

func (o *consoleObserver) OnEpisode(res downloader.Result, ordinal, total int) {
	counter := style.Faint(fmt.Sprintf("[%d/%d]", ordinal, total))
	switch res.Status {
	case downloader.StatusSkipped:
		fmt.Printf("%s %s %s %s\n", icon.Get(icon.Skip), counter, res.Entry.Path(), style.Faint("already downloaded"))
	case downloader.StatusDownloaded:
		if res.Selection.Substituted {
			fmt.Printf("%s %s %s\n", icon.Get(icon.Warn), counter, style.Fg(color.Yellow)(fmt.Sprintf("%sp is not available, downloaded %s", res.Selection.Requested, res.Selection.Video.String())))
		}
	default:
		fmt.Printf("%s %s %s %s\n", icon.Get(icon.Fail), counter, res.Entry.Path(), style.Fg(color.Red)(res.Err.Error()))
	}

	if res.OK() && viper.GetBool(key.HistorySaveOnDownload) {
		if err := history.Save(res.Entry, o.animeURL, o.quality); err != nil {
			log.Warnf("failed to save history: %s", err)
		}
	}
}

func printSummary(s run.Summary) {
	if s.Planned == 0 {
		return
	}

	fmt.Println()
	fmt.Println(style.Title("Summary"))
	fmt.Printf("  %s %s\n", style.Faint("Planned  "), style.Bold(fmt.Sprint(s.Planned)))
	fmt.Printf("  %s %s\n", style.Faint("Attempted"), style.Bold(fmt.Sprint(s.Attempted)))
	fmt.Printf("  %s %s\n", style.Faint("Succeeded"), style.Fg(color.Green)(fmt.Sprint(s.Succeeded)))
	fmt.Printf("  %s %s\n", style.Faint("Skipped  "), style.Fg(color.Yellow)(fmt.Sprint(s.Skipped)))
	fmt.Printf("  %s %s\n", style.Faint("Failed   "), style.Fg(color.Red)(fmt.Sprint(s.Failed)))
}
