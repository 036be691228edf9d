package where

import (
	"path/filepath"
	"testing"

	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/custom/aurora")
			So(Config(), ShouldEqual, "/custom/aurora")
			So(lo.Must(filesystem.API().IsDir("/custom/aurora")), ShouldBeTrue)
		})

		Convey("Intro() lives in the assets directory", func() {
			So(filepath.Base(Intro()), ShouldEqual, constant.IntroFilename)
			So(lo.Must(filesystem.API().IsDir(Assets())), ShouldBeTrue)
		})

		Convey("Blobs() is created under the temp directory", func() {
			path := Blobs()
			So(filepath.Dir(path), ShouldEqual, Temp())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
