package metadata

import (
	"testing"

	"github.com/cue-cli/cue/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordAccessors(t *testing.T) {
	Convey("Given movie and TV records", t, func() {
		movie := &Record{
			ID:          603,
			Kind:        KindMovie,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-31",
			PosterPath:  "/poster.jpg",
			Runtime:     136,
		}
		tv := &Record{
			ID:             1396,
			Kind:           KindTV,
			SeriesName:     "Breaking Bad",
			FirstAirDate:   "2008-01-20",
			EpisodeRunTime: []int{47, 60},
		}

		Convey("Name picks whichever catalogue field is populated", func() {
			So(movie.Name(), ShouldEqual, "The Matrix")
			So(tv.Name(), ShouldEqual, "Breaking Bad")
		})

		Convey("Year parses the leading date component", func() {
			So(movie.Year(), ShouldEqual, 1999)
			So(tv.Year(), ShouldEqual, 2008)
			So((&Record{}).Year(), ShouldEqual, 0)
		})

		Convey("RuntimeMinutes prefers the movie runtime, then episode length", func() {
			So(movie.RuntimeMinutes(), ShouldEqual, 136)
			So(tv.RuntimeMinutes(), ShouldEqual, 47)
			So((&Record{}).RuntimeMinutes(), ShouldEqual, 0)
		})

		Convey("image URLs are absolute, or empty when no path exists", func() {
			So(movie.PosterURL(), ShouldEqual, "https://image.tmdb.org/t/p/w500/poster.jpg")
			So(tv.PosterURL(), ShouldEqual, "")
		})

		Convey("references round-trip through parseRef", func() {
			So(movie.Ref(), ShouldEqual, "movie:603")

			kind, id, ok := parseRef(tv.Ref())
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, KindTV)
			So(id, ShouldEqual, 1396)

			_, _, ok = parseRef("garbage")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a record applied to an item", t, func() {
		record := &Record{
			ID:          603,
			Kind:        KindMovie,
			Title:       "The Matrix",
			Overview:    "A hacker discovers reality is a simulation.",
			ReleaseDate: "1999-03-31",
			PosterPath:  "/poster.jpg",
			VoteAverage: 8.2,
			VoteCount:   24000,
			Runtime:     136,
			Genres: []struct {
				ID   int    `json:"id"`
				Name string `json:"name" jsonschema:"description=Name of the genre."`
			}{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		}

		Convey("fields are copied and the item marked fetched", func() {
			item := &repository.Item{Title: "the matrix 1999"}
			apply(item, record)

			So(item.Title, ShouldEqual, "The Matrix")
			So(item.TMDBID, ShouldEqual, 603)
			So(item.Genres, ShouldResemble, []string{"Action", "Science Fiction"})
			So(item.Year, ShouldEqual, 1999)
			So(item.RuntimeMinutes, ShouldEqual, 136)
			So(item.Fetched, ShouldBeTrue)
		})

		Convey("a locked title survives", func() {
			item := &repository.Item{Title: "My Rename", TitleLocked: true}
			apply(item, record)

			So(item.Title, ShouldEqual, "My Rename")
			So(item.Fetched, ShouldBeTrue)
		})
	})
}
