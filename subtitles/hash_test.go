package subtitles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cue-cli/cue/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestMovieHash(t *testing.T) {
	Convey("Given media files", t, func() {
		fs := filesystem.API()

		Convey("a zero-filled file hashes to its size", func() {
			content := make([]byte, hashChunkSize*2)
			So(fs.WriteFile("/media/zeros.mkv", content, os.ModePerm), ShouldBeNil)

			hash, err := MovieHash("/media/zeros.mkv")
			So(err, ShouldBeNil)
			So(hash, ShouldEqual, "0000000000020000")
		})

		Convey("leading bytes only count once when the chunks do not overlap", func() {
			content := make([]byte, hashChunkSize*2)
			content[0] = 1
			So(fs.WriteFile("/media/one.mkv", content, os.ModePerm), ShouldBeNil)

			hash, err := MovieHash("/media/one.mkv")
			So(err, ShouldBeNil)
			So(hash, ShouldEqual, "0000000000020001")
		})

		Convey("middle bytes outside both chunks are not hashed", func() {
			content := make([]byte, hashChunkSize*3)
			content[hashChunkSize+512] = 7
			So(fs.WriteFile("/media/mid.mkv", content, os.ModePerm), ShouldBeNil)

			hash, err := MovieHash("/media/mid.mkv")
			So(err, ShouldBeNil)
			So(hash, ShouldEqual, "0000000000030000")
		})

		Convey("files shorter than two chunks have no hash", func() {
			So(fs.WriteFile("/media/tiny.mkv", []byte("x"), os.ModePerm), ShouldBeNil)

			_, err := MovieHash("/media/tiny.mkv")
			So(errors.Is(err, ErrFileTooSmall), ShouldBeTrue)
		})

		Convey("missing files fail", func() {
			_, err := MovieHash("/media/nope.mkv")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTargetPath(t *testing.T) {
	Convey("Subtitles live in a .subs directory next to the media file", t, func() {
		So(
			TargetPath("/media/show/e01.mkv"),
			ShouldEqual,
			filepath.Join("/media/show", ".subs", "e01.srt"),
		)
		So(
			TargetPath("/media/Movie.2020.mkv"),
			ShouldEqual,
			filepath.Join("/media", ".subs", "Movie.2020.srt"),
		)
	})
}
