// Package stats derives the watch-time dashboard from recorded watch events.
package stats

import (
	"sort"
	"time"
)

// dateLayout matches the ISO date keys of the repository's streak calendar.
const dateLayout = "2006-01-02"

// Level grades a day's watch intensity from none (0) to heavy (4).
type Level int

// defaultThresholds are the minute boundaries between levels used until
// enough viewing history exists to derive personal ones.
var defaultThresholds = [5]int{0, 15, 30, 60, 120}

// minSamplesForDynamic is the number of active days required before
// thresholds adapt to the user's own habits.
const minSamplesForDynamic = 5

// Thresholds derives the level boundaries from the user's own viewing
// history: the 25th, 50th, 75th and 90th percentiles of active-day minutes.
// With too little history the static defaults apply.
func Thresholds(calendar map[string]int) [5]int {
	var samples []int
	for _, minutes := range calendar {
		if minutes > 0 {
			samples = append(samples, minutes)
		}
	}

	if len(samples) < minSamplesForDynamic {
		return defaultThresholds
	}

	sort.Ints(samples)

	thresholds := [5]int{0}
	for i, p := range []float64{0.25, 0.50, 0.75, 0.90} {
		idx := int(p * float64(len(samples)-1))
		thresholds[i+1] = samples[idx]
	}

	// Percentiles of clustered data can collide; keep boundaries strictly
	// increasing so every level stays reachable.
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			thresholds[i] = thresholds[i-1] + 1
		}
	}

	return thresholds
}

// LevelFor grades a day's minutes against the given boundaries.
func LevelFor(minutes int, thresholds [5]int) Level {
	level := Level(0)
	for i := 1; i < len(thresholds); i++ {
		if minutes >= thresholds[i] {
			level = Level(i)
		}
	}
	if minutes <= 0 {
		return 0
	}
	if level == 0 {
		// Any activity at all counts as the lightest level.
		level = 1
	}
	return level
}

// CurrentStreak counts consecutive active days ending at today. A quiet
// today does not break the streak yet (the day is not over), so counting
// may start at yesterday instead.
func CurrentStreak(calendar map[string]int, today time.Time) int {
	day := today
	if calendar[day.Format(dateLayout)] <= 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for calendar[day.Format(dateLayout)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the longest run of consecutive active days anywhere in
// the calendar.
func LongestStreak(calendar map[string]int) int {
	var days []time.Time
	for date, minutes := range calendar {
		if minutes <= 0 {
			continue
		}
		// Parsed in UTC on purpose: calendar arithmetic must not see DST,
		// or adjacent days come out 23 or 25 hours apart.
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		days = append(days, d)
	}

	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
