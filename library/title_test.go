package library

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGuessTitle(t *testing.T) {
	Convey("Guessing titles from release-style names", t, func() {
		Convey("Should clean dotted movie names with a year", func() {
			g := GuessTitle("The.Matrix.1999.1080p.BluRay.x264.mkv")
			So(g.Title, ShouldEqual, "The Matrix")
			So(g.Year, ShouldEqual, 1999)
			So(g.Season, ShouldEqual, 0)
		})

		Convey("Should detect the season from an SxxEyy tag", func() {
			g := GuessTitle("Breaking.Bad.S01E01.720p.mkv")
			So(g.Title, ShouldEqual, "Breaking Bad")
			So(g.Season, ShouldEqual, 1)
		})

		Convey("Should detect the season from a season word", func() {
			g := GuessTitle("Some Show Season 2")
			So(g.Title, ShouldEqual, "Some Show")
			So(g.Season, ShouldEqual, 2)
		})

		Convey("Should strip bracketed release groups", func() {
			g := GuessTitle("[Group] Cool Film (2020) [1080p].mkv")
			So(g.Title, ShouldEqual, "Cool Film")
			So(g.Year, ShouldEqual, 2020)
		})

		Convey("Should convert hyphens to spaces", func() {
			g := GuessTitle("blade-runner-2049.mkv")
			So(g.Title, ShouldEqual, "blade runner")
			So(g.Year, ShouldEqual, 2049)
		})

		Convey("Should pass plain names through", func() {
			g := GuessTitle("movie.mp4")
			So(g.Title, ShouldEqual, "movie")
			So(g.Year, ShouldEqual, 0)
		})

		Convey("Should fall back to the stem when everything is cut", func() {
			g := GuessTitle("1999.mkv")
			So(g.Title, ShouldEqual, "1999")
			So(g.Year, ShouldEqual, 1999)
		})
	})
}
