// Package cmd implements the command-line interface for cue.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/library"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/subtitles"
	"github.com/cue-cli/cue/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(subsCmd)
}

// subsCmd groups subtitle search and download operations.
var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Search and download subtitles for library items",
}

func init() {
	subsCmd.AddCommand(subsSearchCmd)

	subsSearchCmd.Flags().IntP("episode", "e", 0, "Search for a specific file of a folder item by index (starting from 0)")
}

// subsSearchCmd lists catalogue matches for one file of an item.
var subsSearchCmd = &cobra.Command{
	Use:   "search [path or title]",
	Short: "List available subtitles for a library item",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		path := resolveSubtitleFile(repo, args[0], lo.Must(cmd.Flags().GetInt("episode")))

		results, err := subtitles.Search(path)
		handleErr(err)

		if len(results) == 0 {
			fmt.Printf("%s no subtitles found for %s\n", icon.Get(icon.Fail), filepath.Base(path))
			return
		}

		fmt.Println(style.Title(fmt.Sprintf("Subtitles for %s", filepath.Base(path))))
		fmt.Println()
		for i, sub := range results {
			marker := " "
			if sub.HashMatch {
				marker = style.Fg(color.Green)(icon.Get(icon.Success))
			}
			fmt.Printf(
				"  %2d. %s %s %s %s\n",
				i+1,
				marker,
				sub.FileName,
				style.Faint(sub.Language),
				style.Faint(util.Quantify(sub.Downloads, "download", "downloads")),
			)
		}
	},
}

func init() {
	subsCmd.AddCommand(subsDownloadCmd)

	subsDownloadCmd.Flags().IntP("episode", "e", 0, "Download for a specific file of a folder item by index (starting from 0)")
	subsDownloadCmd.Flags().BoolP("all", "a", false, "Download subtitles for every file of the item")
	subsDownloadCmd.Flags().BoolP("sync", "s", false, "Align downloaded subtitles with ffsubsync")
}

// subsDownloadCmd fetches the best subtitle for one file or for every file
// of a folder item.
var subsDownloadCmd = &cobra.Command{
	Use:   "download [path or title]",
	Short: "Download the best matching subtitles for a library item",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		item := resolveItem(repo, args[0])
		if item == nil {
			handleErr(fmt.Errorf("nothing in the library matches %s", style.Fg(color.Red)(args[0])))
		}

		files, err := library.Files(item.Path)
		handleErr(err)

		sync := lo.Must(cmd.Flags().GetBool("sync"))

		targets := files
		if !lo.Must(cmd.Flags().GetBool("all")) {
			episode := lo.Must(cmd.Flags().GetInt("episode"))
			if episode < 0 || episode >= len(files) {
				handleErr(fmt.Errorf("index %d out of range, %s available", episode, util.Quantify(len(files), "file", "files")))
			}
			targets = files[episode : episode+1]
		}

		var failed int
		for _, path := range targets {
			target, err := downloadSubtitle(path, sync)
			if err != nil {
				failed++
				fmt.Printf("%s %s: %v\n", icon.Get(icon.Fail), filepath.Base(path), err)
				continue
			}
			fmt.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), filepath.Base(path), style.Faint(target))
		}

		if failed > 0 {
			handleErr(fmt.Errorf("%s failed", util.Quantify(failed, "download", "downloads")))
		}
	},
}

// downloadSubtitle fetches the best subtitle for one file, aligning it
// afterwards when requested. Alignment failures are not fatal: an unsynced
// subtitle still beats none.
func downloadSubtitle(path string, sync bool) (string, error) {
	target, err := subtitles.DownloadBest(path)
	if err != nil {
		return "", err
	}

	if sync {
		if err := subtitles.Sync(path); err != nil {
			log.Warnf("sync %s: %v", filepath.Base(path), err)
		}
	}

	return target, nil
}

// resolveSubtitleFile maps an item reference and episode index to a concrete
// media file path.
func resolveSubtitleFile(repo *repository.Repository, target string, episode int) string {
	item := resolveItem(repo, target)
	if item == nil {
		handleErr(fmt.Errorf("nothing in the library matches %s", style.Fg(color.Red)(target)))
	}

	files, err := library.Files(item.Path)
	handleErr(err)

	if episode < 0 || episode >= len(files) {
		handleErr(fmt.Errorf("index %d out of range, %s available", episode, util.Quantify(len(files), "file", "files")))
	}
	return files[episode]
}
