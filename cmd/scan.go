// Package cmd implements the command-line interface for cue.
package cmd

import (
	"fmt"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/library"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolP("fetch-metadata", "f", false, "Resolve TMDB metadata for newly discovered items")
	scanCmd.Flags().BoolP("probe", "p", false, "Probe media files for duration during the scan")
	lo.Must0(viper.BindPFlag(key.LibraryProbeOnScan, scanCmd.Flags().Lookup("probe")))
}

// scanCmd walks the configured library folders and registers discovered items.
var scanCmd = &cobra.Command{
	Use:   "scan [folders...]",
	Short: "Scan library folders and register discovered media",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		dirs := args
		if len(dirs) == 0 {
			dirs = viper.GetStringSlice(key.LibraryPaths)
		}
		if len(dirs) == 0 {
			handleErr(fmt.Errorf("no library folders configured, set %s first", style.Fg(color.Yellow)(key.LibraryPaths)))
		}

		var total int
		for _, dir := range dirs {
			erase := util.PrintErasable(fmt.Sprintf("%s Scanning %s...", icon.Get(icon.Progress), dir))
			items, err := library.Scan(repo, dir)
			erase()
			handleErr(err)

			total += len(items)
			fmt.Printf(
				"%s %s in %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				util.Quantify(len(items), "item", "items"),
				style.Fg(color.Purple)(dir),
			)
		}

		if lo.Must(cmd.Flags().GetBool("fetch-metadata")) {
			items, err := repo.Items()
			handleErr(err)

			erase := util.PrintErasable(fmt.Sprintf("%s Resolving metadata...", icon.Get(icon.Progress)))
			fetched, err := metadata.FetchAll(repo, items)
			erase()
			handleErr(err)

			fmt.Printf(
				"%s fetched metadata for %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				util.Quantify(fetched, "item", "items"),
			)
		}

		fmt.Printf("%s library holds %s\n", icon.Get(icon.Movie), util.Quantify(total, "item", "items"))
	},
}
