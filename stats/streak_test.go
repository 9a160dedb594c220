package stats

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func day(t time.Time, offset int) string {
	return t.AddDate(0, 0, offset).Format(dateLayout)
}

func TestThresholds(t *testing.T) {
	Convey("Given viewing calendars", t, func() {
		Convey("sparse history uses the defaults", func() {
			calendar := map[string]int{
				"2026-08-01": 30,
				"2026-08-02": 45,
			}
			So(Thresholds(calendar), ShouldResemble, defaultThresholds)
		})

		Convey("rich history derives personal boundaries", func() {
			calendar := map[string]int{}
			for i, minutes := range []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100} {
				calendar[day(time.Now(), -i)] = minutes
			}

			thresholds := Thresholds(calendar)
			So(thresholds[0], ShouldEqual, 0)
			So(thresholds[1], ShouldEqual, 30)  // p25
			So(thresholds[2], ShouldEqual, 50)  // p50
			So(thresholds[3], ShouldEqual, 70)  // p75
			So(thresholds[4], ShouldEqual, 90)  // p90
		})

		Convey("clustered history keeps boundaries strictly increasing", func() {
			calendar := map[string]int{}
			for i := 0; i < 8; i++ {
				calendar[day(time.Now(), -i)] = 30
			}

			thresholds := Thresholds(calendar)
			for i := 1; i < len(thresholds); i++ {
				So(thresholds[i], ShouldBeGreaterThan, thresholds[i-1])
			}
		})

		Convey("zero days are not samples", func() {
			calendar := map[string]int{}
			for i := 0; i < 20; i++ {
				calendar[day(time.Now(), -i)] = 0
			}
			So(Thresholds(calendar), ShouldResemble, defaultThresholds)
		})
	})
}

func TestLevelFor(t *testing.T) {
	Convey("Minutes grade against the default boundaries", t, func() {
		So(LevelFor(0, defaultThresholds), ShouldEqual, Level(0))
		So(LevelFor(5, defaultThresholds), ShouldEqual, Level(1))
		So(LevelFor(15, defaultThresholds), ShouldEqual, Level(1))
		So(LevelFor(30, defaultThresholds), ShouldEqual, Level(2))
		So(LevelFor(61, defaultThresholds), ShouldEqual, Level(3))
		So(LevelFor(300, defaultThresholds), ShouldEqual, Level(4))
	})
}

func TestCurrentStreak(t *testing.T) {
	today := time.Date(2026, 8, 30, 20, 0, 0, 0, time.Local)

	Convey("Given streak calendars", t, func() {
		Convey("an empty calendar has no streak", func() {
			So(CurrentStreak(map[string]int{}, today), ShouldEqual, 0)
		})

		Convey("consecutive days through today count", func() {
			calendar := map[string]int{
				day(today, 0):  20,
				day(today, -1): 45,
				day(today, -2): 10,
			}
			So(CurrentStreak(calendar, today), ShouldEqual, 3)
		})

		Convey("a quiet today does not break the streak yet", func() {
			calendar := map[string]int{
				day(today, -1): 45,
				day(today, -2): 10,
			}
			So(CurrentStreak(calendar, today), ShouldEqual, 2)
		})

		Convey("a gap before yesterday ends the streak", func() {
			calendar := map[string]int{
				day(today, -1): 45,
				day(today, -3): 90,
				day(today, -4): 90,
			}
			So(CurrentStreak(calendar, today), ShouldEqual, 1)
		})

		Convey("two quiet days mean the streak is over", func() {
			calendar := map[string]int{
				day(today, -2): 45,
				day(today, -3): 45,
			}
			So(CurrentStreak(calendar, today), ShouldEqual, 0)
		})
	})
}

func TestLongestStreak(t *testing.T) {
	today := time.Date(2026, 8, 30, 20, 0, 0, 0, time.Local)

	Convey("Given streak calendars", t, func() {
		Convey("the longest run anywhere wins", func() {
			calendar := map[string]int{
				day(today, 0):  20,
				day(today, -5): 45,
				day(today, -6): 10,
				day(today, -7): 10,
				day(today, -8): 10,
			}
			So(LongestStreak(calendar), ShouldEqual, 4)
		})

		Convey("an empty calendar has no run", func() {
			So(LongestStreak(map[string]int{}), ShouldEqual, 0)
		})

		Convey("a daylight saving transition does not split a run", func() {
			// 2025-03-09 is the US spring-forward date; these three days are
			// 23 and 25 wall-clock hours apart in America/New_York.
			calendar := map[string]int{
				"2025-03-08": 30,
				"2025-03-09": 30,
				"2025-03-10": 30,
			}
			So(LongestStreak(calendar), ShouldEqual, 3)
		})
	})
}

func TestWeekSeconds(t *testing.T) {
	today := time.Date(2026, 8, 30, 20, 0, 0, 0, time.Local)

	Convey("The weekly total covers the trailing seven days", t, func() {
		calendar := map[string]int{
			day(today, 0):  30,
			day(today, -3): 45,
			day(today, -6): 15,
			day(today, -7): 600, // outside the window
		}
		So(WeekSeconds(calendar, today), ShouldAlmostEqual, 90*60)
	})

	Convey("A quiet week totals zero", t, func() {
		So(WeekSeconds(map[string]int{}, today), ShouldEqual, 0)
	})
}

func TestDailyAverageSeconds(t *testing.T) {
	today := time.Date(2026, 8, 30, 20, 0, 0, 0, time.Local)

	Convey("The daily average counts active days only", t, func() {
		calendar := map[string]int{
			day(today, 0):  60,
			day(today, -1): 0,
			day(today, -2): 30,
		}
		So(DailyAverageSeconds(calendar), ShouldAlmostEqual, 45*60)
	})

	Convey("No activity means no average", t, func() {
		So(DailyAverageSeconds(map[string]int{day(today, 0): 0}), ShouldEqual, 0)
	})
}
