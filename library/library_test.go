package library

import (
	"os"
	"testing"

	"github.com/cue-cli/cue/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func seedLibrary() {
	fs := filesystem.API()

	touch := func(path string) {
		So(fs.WriteFile(path, []byte("x"), os.ModePerm), ShouldBeNil)
	}

	So(fs.MkdirAll("/library/Show S01", os.ModePerm), ShouldBeNil)
	touch("/library/Show S01/ep2.mkv")
	touch("/library/Show S01/ep1.mkv")
	touch("/library/Show S01/cover.jpg")

	So(fs.MkdirAll("/library/.hidden", os.ModePerm), ShouldBeNil)
	touch("/library/.hidden/secret.mkv")

	So(fs.MkdirAll("/library/Extras", os.ModePerm), ShouldBeNil)
	touch("/library/Extras/readme.txt")

	touch("/library/Movie.2020.mkv")
	touch("/library/notes.txt")
}

func TestIsMediaFile(t *testing.T) {
	Convey("Recognizing media files", t, func() {
		So(IsMediaFile("/a/b.mkv"), ShouldBeTrue)
		So(IsMediaFile("/a/B.MP4"), ShouldBeTrue)
		So(IsMediaFile("/a/b.txt"), ShouldBeFalse)
		So(IsMediaFile("/a/b"), ShouldBeFalse)
	})
}

func TestFiles(t *testing.T) {
	Convey("Listing playable files", t, func() {
		seedLibrary()

		Convey("A folder yields its sorted media members", func() {
			files, err := Files("/library/Show S01")
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{
				"/library/Show S01/ep1.mkv",
				"/library/Show S01/ep2.mkv",
			})
		})

		Convey("A media file yields itself", func() {
			files, err := Files("/library/Movie.2020.mkv")
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{"/library/Movie.2020.mkv"})
		})

		Convey("A non-media file is rejected", func() {
			_, err := Files("/library/notes.txt")
			So(err, ShouldNotBeNil)
		})

		Convey("A folder without media is rejected", func() {
			_, err := Files("/library/Extras")
			So(err, ShouldNotBeNil)
		})

		Convey("A missing path is rejected", func() {
			_, err := Files("/library/nope")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDiscover(t *testing.T) {
	Convey("Discovering library candidates", t, func() {
		seedLibrary()

		entries, err := Discover("/library")
		So(err, ShouldBeNil)

		Convey("Only media folders and loose media files qualify", func() {
			So(len(entries), ShouldEqual, 2)
		})

		Convey("Loose files come with a guessed title and year", func() {
			So(entries[0].Path, ShouldEqual, "/library/Movie.2020.mkv")
			So(entries[0].Folder, ShouldBeFalse)
			So(entries[0].Title, ShouldEqual, "Movie")
			So(entries[0].Year, ShouldEqual, 2020)
		})

		Convey("Folders come with a guessed title and season", func() {
			So(entries[1].Path, ShouldEqual, "/library/Show S01")
			So(entries[1].Folder, ShouldBeTrue)
			So(entries[1].Title, ShouldEqual, "Show")
			So(entries[1].Season, ShouldEqual, 1)
		})
	})
}
