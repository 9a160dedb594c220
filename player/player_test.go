package player

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSelect(t *testing.T) {
	Convey("Given the driver dispatch table", t, func() {
		Convey("mpv on linux resolves to the stdout driver", func() {
			kind, err := Select("linux", "mpv")
			So(err, ShouldBeNil)
			So(kind, ShouldEqual, KindStdout)
		})

		Convey("mpv on windows resolves to the stdout driver", func() {
			kind, err := Select("windows", "mpv")
			So(err, ShouldBeNil)
			So(kind, ShouldEqual, KindStdout)
		})

		Convey("celluloid on linux resolves to the ipc driver", func() {
			kind, err := Select("linux", "celluloid")
			So(err, ShouldBeNil)
			So(kind, ShouldEqual, KindIPC)
		})

		Convey("celluloid on windows is a configuration error", func() {
			_, err := Select("windows", "celluloid")
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})

		Convey("an unknown player is a configuration error", func() {
			_, err := Select("linux", "vlc")
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})

		Convey("an unknown platform is a configuration error", func() {
			_, err := Select("plan9", "mpv")
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})
	})
}

func TestKindString(t *testing.T) {
	Convey("Kinds render their names", t, func() {
		So(KindStdout.String(), ShouldEqual, "stdout")
		So(KindIPC.String(), ShouldEqual, "ipc")
		So(Kind(42).String(), ShouldEqual, "unknown")
	})
}

func TestParseStatusLine(t *testing.T) {
	Convey("Given mpv status lines", t, func() {
		Convey("a complete line parses all fields", func() {
			status, err := parseStatusLine("cue-status:83.250000|1412.000000|/media/show/e01.mkv")
			So(err, ShouldBeNil)
			So(status.Position, ShouldAlmostEqual, 83.25)
			So(status.Duration, ShouldAlmostEqual, 1412.0)
			So(status.Path, ShouldEqual, "/media/show/e01.mkv")
		})

		Convey("empty position and duration mean a file still loading", func() {
			status, err := parseStatusLine("cue-status:||/media/show/e01.mkv")
			So(err, ShouldBeNil)
			So(status.Position, ShouldEqual, 0)
			So(status.Duration, ShouldEqual, 0)
			So(status.Path, ShouldEqual, "/media/show/e01.mkv")
		})

		Convey("paths containing the separator survive", func() {
			status, err := parseStatusLine("cue-status:1|2|/media/a|b.mkv")
			So(err, ShouldBeNil)
			So(status.Path, ShouldEqual, "/media/a|b.mkv")
		})

		Convey("too few fields fail", func() {
			_, err := parseStatusLine("cue-status:42.0")
			So(err, ShouldNotBeNil)
		})

		Convey("garbage numbers fail", func() {
			_, err := parseStatusLine("cue-status:abc|1412|/x.mkv")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestScanStatusLines(t *testing.T) {
	Convey("The splitter treats both \\r and \\n as terminators", t, func() {
		split := func(input string) []string {
			var tokens []string
			data := []byte(input)
			for {
				advance, token, _ := scanStatusLines(data, true)
				if advance == 0 {
					break
				}
				tokens = append(tokens, string(token))
				data = data[advance:]
			}
			return tokens
		}

		So(split("a\rb\nc"), ShouldResemble, []string{"a", "b", "c"})
		So(split("one line"), ShouldResemble, []string{"one line"})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("Titles are stripped of control characters and quotes", t, func() {
		So(sanitizeTitle("A\nTitle\t"), ShouldEqual, "A Title")
		So(sanitizeTitle(`The "Show"`), ShouldEqual, "The 'Show'")
		So(sanitizeTitle("  padded  "), ShouldEqual, "padded")
	})
}

func TestCelluloidMpvOptions(t *testing.T) {
	Convey("The embedded option string", t, func() {
		Convey("quotes multi-word titles so they survive word splitting", func() {
			So(
				celluloidMpvOptions("/tmp/cue.sock", "My Long Title"),
				ShouldEqual,
				`--input-ipc-server=/tmp/cue.sock --pause --sub-file-paths=.subs --force-media-title="My Long Title"`,
			)
		})

		Convey("omits the title option when there is none", func() {
			So(
				celluloidMpvOptions("/tmp/cue.sock", ""),
				ShouldEqual,
				"--input-ipc-server=/tmp/cue.sock --pause --sub-file-paths=.subs",
			)
		})

		Convey("never lets a double quote into the quoted value", func() {
			So(
				celluloidMpvOptions("/tmp/cue.sock", `The "Show"`),
				ShouldEqual,
				`--input-ipc-server=/tmp/cue.sock --pause --sub-file-paths=.subs --force-media-title="The 'Show'"`,
			)
		})
	})
}
