package playback

import (
	"errors"
	"testing"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/repository"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestResumePoint(t *testing.T) {
	files := []string{
		"/media/show/e01.mkv",
		"/media/show/e02.mkv",
		"/media/show/e03.mkv",
	}

	Convey("Given an item with playlist files", t, func() {
		Convey("a fresh item starts at the beginning", func() {
			item := &repository.Item{}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 0)
			So(offset, ShouldEqual, 0)
		})

		Convey("an unfinished file resumes at its stored offset", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  files[1],
				LastIndex: 1,
				Position:  421.5,
			}}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 1)
			So(offset, ShouldAlmostEqual, 421.5)
		})

		Convey("a finished file advances to the next member", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  files[0],
				LastIndex: 0,
				Finished:  true,
			}}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 1)
			So(offset, ShouldEqual, 0)
		})

		Convey("finishing the last member leaves nothing to resume", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  files[2],
				LastIndex: 2,
				Finished:  true,
			}}
			_, _, err := ResumePoint(item, files)
			So(errors.Is(err, ErrNothingToResume), ShouldBeTrue)
		})

		Convey("a stale index is corrected by path lookup", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  files[2],
				LastIndex: 0, // playlist grew since last session
				Position:  60,
			}}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 2)
			So(offset, ShouldEqual, 60)
		})

		Convey("a moved file is found again by basename", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  "/old/location/e02.mkv",
				LastIndex: 5,
				Position:  60,
			}}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 1)
			So(offset, ShouldEqual, 60)
		})

		Convey("a vanished file resets to the beginning", func() {
			item := &repository.Item{Playback: repository.PlaybackState{
				LastFile:  "/media/show/deleted.mkv",
				LastIndex: 1,
				Position:  300,
			}}
			index, offset, err := ResumePoint(item, files)
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 0)
			So(offset, ShouldEqual, 0)
		})
	})
}

func TestFileFinished(t *testing.T) {
	Convey("Finished detection", t, func() {
		Convey("an unknown duration never finishes", func() {
			So(fileFinished(5000, 0), ShouldBeFalse)
		})

		Convey("stopping within the final seconds finishes", func() {
			So(fileFinished(1405, 1412), ShouldBeTrue)
		})

		Convey("crossing the completion threshold finishes", func() {
			So(fileFinished(1390, 1412), ShouldBeTrue)
		})

		Convey("mid-file positions do not finish", func() {
			So(fileFinished(700, 1412), ShouldBeFalse)
		})

		Convey("the configured percentage is read as 1-100", func() {
			viper.Set(key.PlayerCompletionPercentage, 95)
			defer viper.Set(key.PlayerCompletionPercentage, 0)

			Convey("99% of a long film finishes even 72 seconds from the end", func() {
				So(fileFinished(7128, 7200), ShouldBeTrue)
			})

			Convey("halfway through does not", func() {
				So(fileFinished(3600, 7200), ShouldBeFalse)
			})
		})
	})
}
