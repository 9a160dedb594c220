// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/stats"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

var (
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
)

// streakLevelColors maps activity levels to the calendar strip palette.
var streakLevelColors = [5]lipgloss.Color{
	style.Surface,
	style.Teal,
	style.Green,
	style.Yellow,
	style.Peach,
}

func (b *statefulBubble) View() string {
	var view string

	switch b.state {
	case loadingState:
		view = b.viewLoading()
	case historyState:
		view = b.viewHistory()
	case libraryState:
		view = b.viewLibrary()
	case searchState:
		view = b.viewSearch()
	case statsState:
		view = b.viewStats()
	case playState:
		view = b.viewPlay()
	case postPlayState:
		view = b.viewPostPlay()
	case errorState:
		view = b.viewError()
	}

	return b.notifier.View(view)
}

func (b *statefulBubble) viewLoading() string {
	status := b.progressStatus
	if status == "" {
		status = "Loading"
	}

	return paddingStyle.Render(fmt.Sprintf("%s %s", b.spinnerC.View(), status))
}

func (b *statefulBubble) viewLibrary() string {
	return listExtraPaddingStyle.Render(b.libraryC.View())
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewPostPlay() string {
	return listExtraPaddingStyle.Render(b.postPlayC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, style.Faint(fmt.Sprintf("Did you mean %s? (tab to accept)", suggestion)))
	}

	return b.renderLines(lines...)
}

func (b *statefulBubble) viewPlay() string {
	title := "..."
	if b.selectedItem != nil {
		title = b.selectedItem.Title
	}

	return b.renderLines(
		style.Title("Now Playing"),
		"",
		lipgloss.NewStyle().Foreground(style.AccentColor).Bold(true).Render(title),
		"",
		fmt.Sprintf("%s %s", b.spinnerC.View(), style.Faint("Watching the player. Quit it to come back here.")),
	)
}

func (b *statefulBubble) viewStats() string {
	if b.summary == nil {
		return b.viewLoading()
	}

	s := b.summary
	lines := []string{
		style.Title("Watch Stats"),
		"",
		fmt.Sprintf("Total watch time  %s", style.Bold(util.FormatWatchTime(s.TotalSeconds))),
		fmt.Sprintf("This week         %s", style.Bold(util.FormatWatchTime(s.WeekSeconds))),
		fmt.Sprintf("Daily average     %s", style.Bold(util.FormatWatchTime(s.DailyAverageSeconds))),
		fmt.Sprintf("Library items     %s", style.Bold(fmt.Sprintf("%d", s.Items))),
		"",
		fmt.Sprintf("%s Current streak  %s", icon.Get(icon.Fire), style.Bold(util.Quantify(s.CurrentStreak, "day", "days"))),
		fmt.Sprintf("%s Longest streak  %s", icon.Get(icon.Fire), style.Bold(util.Quantify(s.LongestStreak, "day", "days"))),
		"",
		b.renderCalendarStrip(s),
	}

	if len(s.MostWatched) > 0 {
		lines = append(lines, "", style.Bold("Most watched"))
		for i, tt := range s.MostWatched {
			lines = append(lines, fmt.Sprintf("  %d. %s %s", i+1, tt.Title, style.Faint(util.FormatWatchTime(tt.Seconds))))
		}
	}

	if hour, minutes := peakHour(s.Patterns); minutes > 0 {
		lines = append(lines, "", fmt.Sprintf("Favorite hour     %s", style.Bold(fmt.Sprintf("%02d:00 - %02d:00", hour, (hour+1)%24))))
	}

	return b.renderLines(lines...)
}

// renderCalendarStrip draws one block per day of the streak window, oldest
// first, colored by activity level.
func (b *statefulBubble) renderCalendarStrip(s *stats.Summary) string {
	dates := make([]string, 0, len(s.Calendar))
	for date := range s.Calendar {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var sb strings.Builder
	for _, date := range dates {
		level := stats.LevelFor(s.Calendar[date], s.Thresholds)
		sb.WriteString(lipgloss.NewStyle().Foreground(streakLevelColors[level]).Render("■"))
	}

	if len(dates) == 0 {
		return style.Faint("No viewing activity yet")
	}

	first, _ := time.Parse("2006-01-02", dates[0])
	return fmt.Sprintf("%s  %s", sb.String(), style.Faint(fmt.Sprintf("since %s", first.Format("Jan 2"))))
}

func (b *statefulBubble) viewError() string {
	message := "unknown error"
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	width := b.width
	if width <= 0 {
		width = 80
	}

	return b.renderLines(
		style.ErrorTitle("Error"),
		"",
		fmt.Sprintf("%s %s", icon.Get(icon.Fail), wrap.String(message, width)),
	)
}

// renderLines joins content lines and appends contextual keybinding help.
func (b *statefulBubble) renderLines(lines ...string) string {
	content := strings.Join(lines, "\n")
	return paddingStyle.Render(fmt.Sprintf("%s\n\n%s", content, b.helpC.View(b.keymap)))
}

// peakHour returns the hour of day with the most accumulated watch minutes.
func peakHour(patterns map[int]float64) (hour int, minutes float64) {
	for h, m := range patterns {
		if m > minutes {
			hour, minutes = h, m
		}
	}
	return
}
