package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("Init installs a text logger", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("InitWith rejects unknown formats and nil writers", func() {
			So(InitWith(&bytes.Buffer{}, "xml"), ShouldNotBeNil)
			So(InitWith(nil, FormatText), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatJSON), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		ctx := context.Background()

		Convey("Fields, component and source are emitted", func() {
			Named("catalog").Info(ctx, "loaded", Int("rows", 3), Error(errors.New("boom")))
			out := buf.String()
			So(out, ShouldContainSubstring, `"msg":"loaded"`)
			So(out, ShouldContainSubstring, `"rows":3`)
			So(out, ShouldContainSubstring, `"component":"catalog"`)
			So(out, ShouldContainSubstring, `"error":"boom"`)
			So(out, ShouldContainSubstring, `logger_test.go`)
		})

		Convey("Debug is suppressed at info level", func() {
			Get().Debug(ctx, "hidden")
			So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
		})

		Convey("Debug is emitted after lowering the level", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")
			So(buf.String(), ShouldContainSubstring, "visible")
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("SetLevelString accepts known levels only", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Nop logger never panics", t, func() {
		l := Nop().Named("x")
		So(func() { l.Info(context.Background(), "ignored", String("k", "v")) }, ShouldNotPanic)
	})
}
