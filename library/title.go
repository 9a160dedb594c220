package library

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cue-cli/cue/util"
)

// Guess is the result of parsing a release-style filename.
type Guess struct {
	Title  string
	Season int
	Year   int
}

var (
	separators = regexp.MustCompile(`[._]+`)
	seasonRe   = regexp.MustCompile(`(?i)\bS(?P<season>\d{1,2})(?:E\d{1,3})?\b`)
	seasonWord = regexp.MustCompile(`(?i)\bseason[ .]?(?P<season>\d{1,2})\b`)
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// noiseRe marks the first release tag; everything from it onward is dropped.
	noiseRe = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|bluray|blu-ray|brrip|bdrip|webrip|web-dl|webdl|hdtv|dvdrip|x264|x265|h\.?264|h\.?265|hevc|aac|ac3|dts|10bit|remux|proper|repack|extended|unrated|multi|vostfr)\b`)
	bracketRe = regexp.MustCompile(`[\[(][^\])]*[\])]`)
	spacesRe  = regexp.MustCompile(`\s{2,}`)
)

// GuessTitle extracts a clean display title, season number and year from a
// filename or folder name. It is a heuristic, not a parser: release noise is
// cut, separators normalized, and the remainder title-cased as-is.
func GuessTitle(name string) Guess {
	base := util.FileStem(name)

	var g Guess

	if m := util.ReGroups(seasonRe, base); m["season"] != "" {
		g.Season, _ = strconv.Atoi(m["season"])
	} else if m := util.ReGroups(seasonWord, base); m["season"] != "" {
		g.Season, _ = strconv.Atoi(m["season"])
	}

	if m := yearRe.FindString(base); m != "" {
		g.Year, _ = strconv.Atoi(m)
	}

	clean := bracketRe.ReplaceAllString(base, " ")
	clean = separators.ReplaceAllString(clean, " ")

	// Cut at the earliest structural marker: release tag, season tag or year.
	cut := len(clean)
	for _, re := range []*regexp.Regexp{noiseRe, seasonRe, seasonWord, yearRe} {
		if loc := re.FindStringIndex(clean); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	clean = clean[:cut]

	clean = strings.ReplaceAll(clean, "-", " ")
	clean = spacesRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		clean = strings.TrimSpace(separators.ReplaceAllString(base, " "))
	}

	g.Title = clean
	return g
}
