package log

import (
	"bytes"
	"testing"

	"github.com/aurora-stream/aurora/filesystem"
	"github.com/aurora-stream/aurora/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup should succeed and keep logging off", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup should open the log file and enable output", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeTrue)
		})
	})
}

func TestEntries(t *testing.T) {
	Convey("Given output captured in a buffer", t, func() {
		var buf bytes.Buffer
		configure(&buf, true, "info")

		Convey("WithFields should write structured fields", func() {
			WithFields(Fields{"mode": "proxied", "reason": "probe failed"}).Warn("stream resolution degraded")
			So(buf.String(), ShouldContainSubstring, `"mode":"proxied"`)
			So(buf.String(), ShouldContainSubstring, "stream resolution degraded")
		})

		Convey("Chained fields should merge without touching the parent", func() {
			parent := WithField("locator", "movie-42")
			parent.WithFields(Fields{"mode": "direct"}).Info("resolved")
			So(buf.String(), ShouldContainSubstring, `"locator":"movie-42"`)
			So(buf.String(), ShouldContainSubstring, `"mode":"direct"`)
			So(parent.fields, ShouldNotContainKey, "mode")
		})

		Convey("A single chained field should extend the entry", func() {
			WithField("locator", "movie-42").WithField("error", "boom").Warn("revoke blob")
			So(buf.String(), ShouldContainSubstring, `"locator":"movie-42"`)
			So(buf.String(), ShouldContainSubstring, `"error":"boom"`)
		})

		Convey("Entries below the level should be dropped", func() {
			WithField("phase", "idle").Debug("hidden")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Nothing should be written once logging is disabled", func() {
			enabled.Store(false)
			Info("ignored")
			WithField("k", "v").Error("ignored")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}
