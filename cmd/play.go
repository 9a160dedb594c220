// Package cmd implements the command-line interface for cue.
package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/library"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/playback"
	"github.com/cue-cli/cue/player"
	"github.com/cue-cli/cue/query"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("restart", "r", false, "Ignore the stored resume point and start from the beginning")
	playCmd.Flags().IntP("episode", "e", -1, "Play a specific file of a folder item by index (starting from 0)")
}

// playCmd launches playback for a library item directly, without the TUI.
var playCmd = &cobra.Command{
	Use:   "play [path or title]",
	Short: "Play a library item by path or fuzzy title match",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		repo := openRepository()
		defer util.Ignore(repo.Close)

		target := args[0]
		item := resolveItem(repo, target)
		if item == nil {
			handleErr(fmt.Errorf("nothing in the library matches %s", style.Fg(color.Red)(target)))
		}

		_ = query.Remember(target, 1)

		restart := lo.Must(cmd.Flags().GetBool("restart"))
		episode := lo.Must(cmd.Flags().GetInt("episode"))

		handleErr(runPlayback(repo, item, restart, episode))
	},
}

// resolveItem finds a library item by exact path first, then by the best fuzzy
// title match.
func resolveItem(repo *repository.Repository, target string) *repository.Item {
	if abs, err := filepath.Abs(target); err == nil {
		if item, err := repo.ItemByPath(abs); err == nil && item != nil {
			return item
		}
	}

	items, err := repo.Items()
	handleErr(err)

	matched := lo.Filter(items, func(item *repository.Item, _ int) bool {
		return fuzzy.MatchFold(target, item.Title)
	})
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return fuzzy.RankMatchFold(target, matched[i].Title) < fuzzy.RankMatchFold(target, matched[j].Title)
	})
	return matched[0]
}

// runPlayback drives a full playback session for the item and persists the
// outcome. With episode >= 0 the resume point is bypassed in favor of the
// requested file.
func runPlayback(repo *repository.Repository, item *repository.Item, restart bool, episode int) error {
	files, err := library.Files(item.Path)
	if err != nil {
		return err
	}

	var (
		index  int
		offset float64
	)
	switch {
	case episode >= 0:
		if episode >= len(files) {
			return fmt.Errorf("index %d out of range, %s available", episode, util.Quantify(len(files), "file", "files"))
		}
		index = episode
	case restart:
		// Start from the top.
	default:
		index, offset, err = playback.ResumePoint(item, files)
		if errors.Is(err, playback.ErrNothingToResume) {
			index, offset = 0, 0
		} else if err != nil {
			return err
		}
	}

	kind, err := player.Select(runtime.GOOS, viper.GetString(key.Player))
	if err != nil {
		return err
	}

	executable, err := player.Executable()
	if err != nil {
		return err
	}

	fmt.Printf("%s Playing %s\n", icon.Get(icon.Play), style.Fg(color.Purple)(item.Title))

	session := &playback.Session{
		Repo:   repo,
		Item:   item,
		Files:  files,
		Driver: player.New(kind, executable),
	}

	if err := session.Run(index, offset); err != nil {
		return err
	}

	if metadata.Enabled() && !item.Fetched {
		if err := metadata.Fetch(repo, item); err != nil {
			log.Warnf("metadata for %s: %v", item.Title, err)
		}
	}

	return nil
}
