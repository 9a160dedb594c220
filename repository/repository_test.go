package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cue-cli/cue/key"
	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "library.db"))
	So(err, ShouldBeNil)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestItemRoundtrip(t *testing.T) {
	Convey("Saving and loading items", t, func() {
		repo := openTestRepo(t)

		item := &Item{
			ID:     uuid.New(),
			Path:   "/media/The Matrix (1999).mkv",
			Title:  "The Matrix",
			Year:   1999,
			Genres: []string{"Action", "Sci-Fi"},
			Playback: PlaybackState{
				LastFile:  "/media/The Matrix (1999).mkv",
				Position:  420,
				Duration:  8160,
				Timestamp: time.Date(2026, 8, 29, 21, 0, 0, 0, time.Local),
			},
		}
		So(repo.SaveItem(item), ShouldBeNil)

		Convey("ItemByPath returns the stored state", func() {
			got, err := repo.ItemByPath(item.Path)
			So(err, ShouldBeNil)
			So(got.ID.String(), ShouldEqual, item.ID.String())
			So(got.Title, ShouldEqual, "The Matrix")
			So(got.Genres, ShouldResemble, []string{"Action", "Sci-Fi"})
			So(got.Playback.Position, ShouldEqual, 420)
			So(got.Playback.Timestamp.Equal(item.Playback.Timestamp), ShouldBeTrue)
		})

		Convey("ItemByID returns the stored state", func() {
			got, err := repo.ItemByID(item.ID)
			So(err, ShouldBeNil)
			So(got.Path, ShouldEqual, item.Path)
		})

		Convey("Unknown lookups return ErrItemNotFound", func() {
			_, err := repo.ItemByPath("/media/nope.mkv")
			So(err, ShouldEqual, ErrItemNotFound)
		})

		Convey("Saving again updates in place", func() {
			item.Playback.Position = 900
			item.Playback.Finished = true
			So(repo.SaveItem(item), ShouldBeNil)

			got, err := repo.ItemByPath(item.Path)
			So(err, ShouldBeNil)
			So(got.Playback.Position, ShouldEqual, 900)
			So(got.Playback.Finished, ShouldBeTrue)

			n, err := repo.CountItems()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestGetOrCreate(t *testing.T) {
	Convey("GetOrCreate", t, func() {
		repo := openTestRepo(t)

		first, err := repo.GetOrCreate("/media/Show", true, "Show")
		So(err, ShouldBeNil)
		So(first.Folder, ShouldBeTrue)

		Convey("Is idempotent for the same path", func() {
			second, err := repo.GetOrCreate("/media/Show", true, "Renamed")
			So(err, ShouldBeNil)
			So(second.ID.String(), ShouldEqual, first.ID.String())
			So(second.Title, ShouldEqual, "Show")
		})
	})
}

func TestWatchEvents(t *testing.T) {
	Convey("Recording watch events", t, func() {
		repo := openTestRepo(t)
		viper.Set(key.HistoryMergeWindow, 10)
		defer viper.Set(key.HistoryMergeWindow, 0)

		item, err := repo.GetOrCreate("/media/movie.mkv", false, "Movie")
		So(err, ShouldBeNil)

		base := time.Date(2026, 8, 29, 20, 0, 0, 0, time.Local)

		So(repo.RecordWatchEvent(&WatchEvent{
			ItemID:        item.ID,
			StartedAt:     base,
			EndedAt:       base.Add(30 * time.Minute),
			PositionStart: 0,
			PositionEnd:   1800,
		}), ShouldBeNil)

		Convey("A session within the merge window extends the previous event", func() {
			So(repo.RecordWatchEvent(&WatchEvent{
				ItemID:        item.ID,
				StartedAt:     base.Add(35 * time.Minute),
				EndedAt:       base.Add(55 * time.Minute),
				PositionStart: 1800,
				PositionEnd:   3000,
			}), ShouldBeNil)

			events, err := repo.EventsForItem(item.ID, 10)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 1)
			So(events[0].PositionEnd, ShouldEqual, 3000)
			So(events[0].Wallclock(), ShouldEqual, 55*time.Minute)
		})

		Convey("A session outside the merge window creates a new event", func() {
			So(repo.RecordWatchEvent(&WatchEvent{
				ItemID:        item.ID,
				StartedAt:     base.Add(2 * time.Hour),
				EndedAt:       base.Add(2*time.Hour + 20*time.Minute),
				PositionStart: 1800,
				PositionEnd:   3000,
			}), ShouldBeNil)

			events, err := repo.EventsForItem(item.ID, 10)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 2)
		})

		Convey("Aggregates reflect the stored sessions", func() {
			total, err := repo.TotalWatchTime()
			So(err, ShouldBeNil)
			So(total, ShouldAlmostEqual, 1800, 1)

			most, err := repo.MostWatched(5)
			So(err, ShouldBeNil)
			So(len(most), ShouldEqual, 1)
			So(most[0].Title, ShouldEqual, "Movie")
			So(most[0].Seconds, ShouldAlmostEqual, 1800, 1)

			patterns, err := repo.ViewingPatterns()
			So(err, ShouldBeNil)
			So(patterns[20], ShouldAlmostEqual, 30, 0.1)
		})
	})
}
