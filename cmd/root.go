// Package cmd implements the command-line interface of jutdl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/query"
	"github.com/jutdl/jutdl/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory the <anime>/<season> tree is created in")
	lo.Must0(viper.BindPFlag(key.DownloadsDir, rootCmd.PersistentFlags().Lookup("dir")))

	rootCmd.PersistentFlags().String("proxies", "", "Proxy list file")
	lo.Must0(viper.BindPFlag(key.NetworkProxiesFile, rootCmd.PersistentFlags().Lookup("proxies")))

	rootCmd.PersistentFlags().String("cookies", "", "Netscape cookie file")
	lo.Must0(viper.BindPFlag(key.NetworkCookiesFile, rootCmd.PersistentFlags().Lookup("cookies")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember the last downloaded episode of each anime")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnDownload, rootCmd.PersistentFlags().Lookup("write-history")))

	addPlanFlags(rootCmd)
	rootCmd.Flags().BoolP("yes", "y", false, "Don't ask for anything that was given by flags or config, start downloading right away")
	rootCmd.Flags().BoolP("continue", "c", false, "Start right after the last downloaded episode of the anime")
}

// rootCmd asks for an anime and downloads it.
var rootCmd = &cobra.Command{
	Use:   constant.Jutdl + " [anime]",
	Short: "Download every season of an anime from " + strings.TrimPrefix(constant.Origin, "https://"),
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download every season of an anime, one episode after another"),
	Example: "  " + constant.Jutdl + " naruto --quality 720 --season 2\n  " + constant.Jutdl + " https://jut.su/bleach/ -y",
	Args:    cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}

		ctx, stop := interruptible(cmd)
		defer stop()

		handleErr(download(ctx, cmd, args))
	},
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	defer func() {
		if r := recover(); r != nil {
			fatal(fmt.Errorf("panic: %v", r))
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// interruptible returns the command context, cancelled on Ctrl-C or SIGTERM.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, terminal.InterruptErr)
}

func handleErr(err error) {
	if err == nil {
		return
	}

	if interrupted(err) {
		log.Info("stopped by user")
		fmt.Printf("\n%s %s\n", icon.Get(icon.Warn), "Download stopped by user")
		os.Exit(0)
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}

// fatal reports an error nothing was prepared for, with the stack that led to it.
func fatal(err error) {
	stack := debug.Stack()
	log.Errorf("%s\n%s", err, stack)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n%s\n", style.ErrorTitle("unexpected error"), err, style.Faint(string(stack)))
	os.Exit(1)
}
