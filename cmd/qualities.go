package cmd

import (
	"os"

	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/run"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(qualitiesCmd)
	qualitiesCmd.SetOut(os.Stdout)
}

// qualitiesCmd lists the qualities an anime is offered in.
var qualitiesCmd = &cobra.Command{
	Use:   "qualities [anime]",
	Short: "List the qualities offered for an anime",
	Long:  "List the qualities of the last listed episode, which the rest of the anime is assumed to share.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := interruptible(cmd)
		defer stop()

		conn, err := connect(ctx)
		handleErr(err)

		scout := run.New(conn.fetcher, nil, nil)
		links, err := scout.Listing(ctx, jutsu.AnimeURL(args[0]))
		handleErr(err)

		qualities, err := scout.Qualities(ctx, links)
		handleErr(err)

		for _, q := range qualities {
			cmd.Println(q)
		}
	},
}
