// Package cmd implements the command-line interface for cue.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/constant"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/tui"
	"github.com/cue-cli/cue/util"
	"github.com/cue-cli/cue/version"
	"github.com/cue-cli/cue/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist playback progress and watch statistics")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnWatch, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringSliceP("library", "L", []string{}, "Override the configured library folders")
	lo.Must0(viper.BindPFlag(key.LibraryPaths, rootCmd.PersistentFlags().Lookup("library")))

	rootCmd.Flags().BoolP("continue", "c", false, "Open straight into the continue-watching list")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the cue application.
var rootCmd = &cobra.Command{
	Use:   constant.Cue,
	Short: "A minimalist media dashboard for your local library",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A minimalist media dashboard for your local library"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		repo := openRepository()
		defer util.Ignore(repo.Close)

		options := tui.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
		}
		handleErr(tui.Run(repo, &options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
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

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openRepository opens the localized playback database, failing the command on error.
func openRepository() *repository.Repository {
	repo, err := repository.Open(where.Database())
	handleErr(err)
	return repo
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
