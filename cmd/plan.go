package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/inline"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/query"
	"github.com/jutdl/jutdl/run"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(planCmd)

	addPlanFlags(planCmd)
	planCmd.Flags().StringP("entries", "E", "", "Criteria for selecting specific entries of the plan")
	planCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	planCmd.Flags().BoolP("include-videos", "V", false, "Resolve the video URL of every planned episode")
	planCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// planCmd prints what a download would fetch without downloading anything.
var planCmd = &cobra.Command{
	Use:   "plan [anime]",
	Short: "Print the download plan of an anime without downloading it",
	Long: `Build the catalog of an anime and print the episodes a download would fetch, in order.

Entries selectors:
  first - first planned entry
  last - last planned entry
  all - every planned entry
  [number] - select entry by index (starting from 0)
  [from]-[to] - select entries by range
  @[substring]@ - select entries whose destination path contains substring`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := interruptible(cmd)
		defer stop()

		conn, err := connect(ctx)
		handleErr(err)

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		entriesFilter := mo.None[inline.EntriesFilter]()
		if description := lo.Must(cmd.Flags().GetString("entries")); description != "" {
			fn, err := inline.ParseEntriesFilter(description)
			handleErr(err)
			entriesFilter = mo.Some(fn)
		}

		quality, err := preferredQuality(cmd)
		handleErr(err)

		films := viper.GetBool(key.DownloadsFilms)
		if cmd.Flags().Changed("films") {
			films = lo.Must(cmd.Flags().GetBool("films"))
		}

		options := &inline.Options{
			Out:      writer,
			Planner:  run.New(conn.fetcher, nil, nil),
			Pages:    conn.fetcher,
			AnimeURL: jutsu.AnimeURL(args[0]),
			Policy: catalog.Policy{
				StartSeason:  lo.Must(cmd.Flags().GetInt("season")),
				StartEpisode: lo.Must(cmd.Flags().GetInt("episode")),
				IncludeFilms: films,
			},
			Quality:       quality,
			Json:          lo.Must(cmd.Flags().GetBool("json")),
			Videos:        lo.Must(cmd.Flags().GetBool("include-videos")),
			EntriesFilter: entriesFilter,
		}

		handleErr(inline.Run(ctx, options))
	},
}

func init() {
	planCmd.AddCommand(planSchemaCmd)
}

// planSchemaCmd prints the JSON schema of plan --json.
var planSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured plan output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema()))
	},
}
