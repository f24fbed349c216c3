package cmd

import (
	"fmt"
	"os"

	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/history"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("remove", "r", "", "Forget the resume point of an anime")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists where each anime would be continued from.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the last downloaded episode of each anime",
	Run: func(cmd *cobra.Command, args []string) {
		if anime := lo.Must(cmd.Flags().GetString("remove")); anime != "" {
			handleErr(history.Remove(anime))
			cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(anime))
			return
		}

		records, err := history.List()
		handleErr(err)

		if len(records) == 0 {
			cmd.Println(style.Faint("nothing downloaded yet"))
			return
		}

		for _, r := range records {
			season, episode := r.Next()
			cmd.Printf(
				"%s %s\n  %s\n",
				style.Bold(r.AnimeName),
				style.Faint(r.AnimeURL),
				fmt.Sprintf("last %s episode %d, next season %d episode %d, %d downloaded", r.SeasonLabel, r.Episode, season, episode, r.Downloaded),
			)
		}
	},
}
