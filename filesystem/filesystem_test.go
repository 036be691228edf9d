package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			So(IsOs(), ShouldBeTrue)
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
			So(IsOs(), ShouldBeFalse)
		})

		Convey("Use should install the given backend", func() {
			fs := afero.NewMemMapFs()
			Use(fs)
			So(afero.WriteFile(fs, "/probe", []byte("x"), 0o644), ShouldBeNil)
			exists, err := API().Exists("/probe")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})
	})
}
