package blob

import (
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestRegistry(t *testing.T) {
	Convey("Given a registry on an in-memory filesystem", t, func() {
		fs := afero.NewMemMapFs()
		registry := NewRegistry(fs, "/tmp/aurora/blobs")

		Convey("Create should store the body behind a blob URL", func() {
			url, err := registry.Create(strings.NewReader("segment-bytes"), "video/mp4")
			So(err, ShouldBeNil)
			So(IsBlob(url), ShouldBeTrue)
			So(url, ShouldStartWith, "blob:aurora/")
			So(registry.Len(), ShouldEqual, 1)
			So(registry.ContentType(url), ShouldEqual, "video/mp4")
			So(registry.Size(url), ShouldEqual, int64(len("segment-bytes")))

			f, err := registry.Open(url)
			So(err, ShouldBeNil)
			data, _ := io.ReadAll(f)
			_ = f.Close()
			So(string(data), ShouldEqual, "segment-bytes")

			Convey("Revoke should delete the backing file", func() {
				path, ok := registry.Path(url)
				So(ok, ShouldBeTrue)

				So(registry.Revoke(url), ShouldBeNil)
				So(registry.Len(), ShouldEqual, 0)
				exists, _ := afero.Exists(fs, path)
				So(exists, ShouldBeFalse)

				Convey("and a second revoke should report an unknown blob", func() {
					So(registry.Revoke(url), ShouldEqual, ErrUnknown)
				})
			})
		})

		Convey("RevokeAll should release every blob", func() {
			_, _ = registry.Create(strings.NewReader("a"), "")
			_, _ = registry.Create(strings.NewReader("b"), "")
			registry.RevokeAll()
			So(registry.Len(), ShouldEqual, 0)
		})

		Convey("Open should reject unknown URLs", func() {
			_, err := registry.Open(Scheme + "missing")
			So(err, ShouldEqual, ErrUnknown)
		})
	})
}
