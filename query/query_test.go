package query

import (
	"testing"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		Convey("When remembering queries", func() {
			So(Remember("the matrix", 1), ShouldBeNil)
			So(Remember("the martian", 10), ShouldBeNil)

			Convey("Then suggestions are sorted by rank", func() {
				// Drop the in-memory layer to force a read from the cache file.
				suggestionCache = make(map[string][]*queryRecord)

				s := SuggestMany("the mar")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "the martian")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  The MATRIX  "), ShouldEqual, "the matrix")
			})
		})
	})
}
