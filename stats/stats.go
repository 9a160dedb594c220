package stats

import (
	"time"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/repository"
	"github.com/spf13/viper"
)

// Summary aggregates everything the stats dashboard renders.
type Summary struct {
	// TotalSeconds is the all-time wall-clock watch time.
	TotalSeconds float64 `json:"total_seconds"`
	// WeekSeconds is the watch time of the trailing seven days, today included.
	WeekSeconds float64 `json:"week_seconds"`
	// DailyAverageSeconds is the mean watch time per active day.
	DailyAverageSeconds float64 `json:"daily_average_seconds"`
	// Items is the library size.
	Items int `json:"items"`
	// MostWatched lists the top items by accumulated watch time.
	MostWatched []repository.TitleTime `json:"most_watched"`
	// Calendar maps ISO dates to watched minutes over the streak window.
	Calendar map[string]int `json:"calendar"`
	// Thresholds are the level boundaries derived from the calendar.
	Thresholds [5]int `json:"thresholds"`
	// CurrentStreak is the running count of consecutive active days.
	CurrentStreak int `json:"current_streak"`
	// LongestStreak is the longest run within the streak window.
	LongestStreak int `json:"longest_streak"`
	// Patterns maps hour of day (0-23) to watched minutes.
	Patterns map[int]float64 `json:"patterns"`
}

// Gather assembles the full dashboard summary from the repository.
func Gather(repo *repository.Repository) (*Summary, error) {
	summary := &Summary{}

	var err error
	if summary.TotalSeconds, err = repo.TotalWatchTime(); err != nil {
		return nil, err
	}
	if summary.Items, err = repo.CountItems(); err != nil {
		return nil, err
	}
	if summary.MostWatched, err = repo.MostWatched(viper.GetInt(key.StatsMostWatched)); err != nil {
		return nil, err
	}
	if summary.Calendar, err = repo.StreakCalendar(viper.GetInt(key.StatsStreakDays)); err != nil {
		return nil, err
	}
	if summary.Patterns, err = repo.ViewingPatterns(); err != nil {
		return nil, err
	}

	summary.Thresholds = Thresholds(summary.Calendar)
	summary.CurrentStreak = CurrentStreak(summary.Calendar, time.Now())
	summary.LongestStreak = LongestStreak(summary.Calendar)
	summary.WeekSeconds = WeekSeconds(summary.Calendar, time.Now())
	summary.DailyAverageSeconds = DailyAverageSeconds(summary.Calendar)

	return summary, nil
}

// WeekSeconds sums the watch time of the trailing seven calendar days.
func WeekSeconds(calendar map[string]int, today time.Time) float64 {
	var minutes int
	for i := 0; i < 7; i++ {
		minutes += calendar[today.AddDate(0, 0, -i).Format(dateLayout)]
	}
	return float64(minutes) * 60
}

// DailyAverageSeconds averages watch time over the days with any viewing.
// Quiet days do not dilute the average.
func DailyAverageSeconds(calendar map[string]int) float64 {
	var minutes, active int
	for _, m := range calendar {
		if m > 0 {
			minutes += m
			active++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(minutes) * 60 / float64(active)
}

// Recap summarizes the trailing recap window, shown when the user returns
// after a stretch of days.
type Recap struct {
	// Days is the window length.
	Days int `json:"days"`
	// Minutes watched within the window.
	Minutes int `json:"minutes"`
	// ActiveDays is the count of days with any viewing.
	ActiveDays int `json:"active_days"`
	// Events are the sessions of the window, newest first.
	Events []*repository.WatchEvent `json:"events"`
}

// GatherRecap assembles the recap for the configured trailing window.
func GatherRecap(repo *repository.Repository) (*Recap, error) {
	days := viper.GetInt(key.StatsRecapDays)

	calendar, err := repo.StreakCalendar(days)
	if err != nil {
		return nil, err
	}

	events, err := repo.RecentEvents(viper.GetInt(key.StatsHistoryLimit))
	if err != nil {
		return nil, err
	}

	recap := &Recap{Days: days}
	for _, minutes := range calendar {
		recap.Minutes += minutes
		if minutes > 0 {
			recap.ActiveDays++
		}
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	for _, event := range events {
		if event.StartedAt.After(cutoff) {
			recap.Events = append(recap.Events, event)
		}
	}

	return recap, nil
}
