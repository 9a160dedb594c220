// Package cmd implements the command-line interface for cue.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/stats"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
}

// statsCmd displays the aggregated watch statistics dashboard.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display aggregated watch time, streaks and most watched items",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		summary, err := stats.Gather(repo)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(summary))
			return
		}

		fmt.Println(style.Title("Watch Stats"))
		fmt.Println()
		fmt.Printf("Total watch time  %s\n", style.Bold(util.FormatWatchTime(summary.TotalSeconds)))
		fmt.Printf("This week         %s\n", style.Bold(util.FormatWatchTime(summary.WeekSeconds)))
		fmt.Printf("Daily average     %s\n", style.Bold(util.FormatWatchTime(summary.DailyAverageSeconds)))
		fmt.Printf("Library items     %s\n", style.Bold(fmt.Sprintf("%d", summary.Items)))
		fmt.Printf("%s Current streak  %s\n", icon.Get(icon.Fire), style.Bold(util.Quantify(summary.CurrentStreak, "day", "days")))
		fmt.Printf("%s Longest streak  %s\n", icon.Get(icon.Fire), style.Bold(util.Quantify(summary.LongestStreak, "day", "days")))

		if len(summary.MostWatched) > 0 {
			fmt.Println()
			fmt.Println(style.Bold("Most watched"))
			for i, tt := range summary.MostWatched {
				fmt.Printf("  %d. %s %s\n", i+1, tt.Title, style.Faint(util.FormatWatchTime(tt.Seconds)))
			}
		}
	},
}

func init() {
	statsCmd.AddCommand(statsRecapCmd)

	statsRecapCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
}

// statsRecapCmd summarizes the trailing recap window of viewing activity.
var statsRecapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Summarize viewing activity over the trailing recap window",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		recap, err := stats.GatherRecap(repo)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(recap))
			return
		}

		fmt.Println(style.Title(fmt.Sprintf("Last %s", util.Quantify(recap.Days, "day", "days"))))
		fmt.Println()
		fmt.Printf("Watched           %s\n", style.Bold(util.FormatWatchTime(float64(recap.Minutes*60))))
		fmt.Printf("Active days       %s\n", style.Bold(fmt.Sprintf("%d of %d", recap.ActiveDays, recap.Days)))
		fmt.Printf("Sessions          %s\n", style.Bold(fmt.Sprintf("%d", len(recap.Events))))

		if len(recap.Events) > 0 {
			fmt.Println()
			fmt.Println(style.Bold("Recent sessions"))
			for _, event := range recap.Events {
				fmt.Printf(
					"  %s %s %s\n",
					style.Faint(event.StartedAt.Format("Jan 2 15:04")),
					util.FormatOffset(event.PositionEnd),
					style.Faint(util.FormatWatchTime(event.Wallclock().Seconds())),
				)
			}
		}
	},
}
