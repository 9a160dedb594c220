package inline

import (
	"testing"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParseItemPicker(t *testing.T) {
	items := []*repository.Item{
		{Title: "The Matrix"},
		{Title: "The Matrix Reloaded"},
		{Title: "Blade Runner"},
	}

	Convey("Given picker descriptions", t, func() {
		Convey("first picks the first match", func() {
			picker, err := ParseItemPicker("first", "")
			So(err, ShouldBeNil)
			So(picker(items), ShouldEqual, items[0])
		})

		Convey("last picks the final match", func() {
			picker, err := ParseItemPicker("last", "")
			So(err, ShouldBeNil)
			So(picker(items), ShouldEqual, items[2])
		})

		Convey("exact requires a full title match", func() {
			picker, err := ParseItemPicker("exact", "Blade Runner")
			So(err, ShouldBeNil)
			So(picker(items), ShouldEqual, items[2])

			picker, err = ParseItemPicker("exact", "blade")
			So(err, ShouldBeNil)
			So(picker(items), ShouldBeNil)
		})

		Convey("an index clamps to the list bounds", func() {
			picker, err := ParseItemPicker("1", "")
			So(err, ShouldBeNil)
			So(picker(items), ShouldEqual, items[1])

			picker, err = ParseItemPicker("99", "")
			So(err, ShouldBeNil)
			So(picker(items), ShouldEqual, items[2])
		})

		Convey("pickers tolerate empty result sets", func() {
			for _, kind := range []string{"first", "last", "0"} {
				picker, err := ParseItemPicker(kind, "")
				So(err, ShouldBeNil)
				So(picker(nil), ShouldBeNil)
			}
		})

		Convey("garbage descriptions fail", func() {
			_, err := ParseItemPicker("fanciest", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMatch(t *testing.T) {
	items := []*repository.Item{
		{Title: "The Matrix"},
		{Title: "Blade Runner"},
		{Title: "The Matrix Reloaded"},
	}

	Convey("Given a library", t, func() {
		Convey("an empty query matches everything", func() {
			So(match(items, ""), ShouldHaveLength, 3)
		})

		Convey("fuzzy matching is case-insensitive", func() {
			matched := match(items, "matrix")
			So(matched, ShouldHaveLength, 2)
			So(matched[0].Title, ShouldEqual, "The Matrix")
		})

		Convey("no match yields an empty list", func() {
			So(match(items, "alien"), ShouldHaveLength, 0)
		})
	})
}
