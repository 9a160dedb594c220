package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("The in-memory backend round-trips files", func() {
			SetMemMapFs()

			So(API().WriteFile("/library/movie.mkv", []byte("x"), os.ModePerm), ShouldBeNil)

			content, err := API().ReadFile("/library/movie.mkv")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "x")
		})
	})
}
