package store

import (
	"testing"

	"github.com/aurora-stream/aurora/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		filesystem.SetMemMapFs()
		ResetCache()

		Convey("Load should return an empty state", func() {
			state, err := Load()
			So(err, ShouldBeNil)
			So(state.User, ShouldBeNil)
			So(APIToken().IsPresent(), ShouldBeFalse)
			So(CurrentProfileID().IsPresent(), ShouldBeFalse)
		})

		Convey("SetCurrentProfile without a user should be ignored", func() {
			So(SetCurrentProfile(Profile{ID: "p1"}), ShouldBeNil)
			So(CurrentProfileID().IsPresent(), ShouldBeFalse)
		})

		Convey("When a user with profiles is saved", func() {
			So(SetUser(&User{
				ID:       "u1",
				Email:    "viewer@example.com",
				Profiles: []Profile{{ID: "p1", Name: "Main"}, {ID: "p2", Name: "Kids", Kids: true}},
			}), ShouldBeNil)

			Convey("Selecting a profile should persist its id", func() {
				So(SetCurrentProfile(Profile{ID: "p2", Name: "Kids"}), ShouldBeNil)
				So(CurrentProfileID().MustGet(), ShouldEqual, "p2")

				Convey("and survive a fresh handle", func() {
					ResetCache()
					So(CurrentProfileID().MustGet(), ShouldEqual, "p2")
				})
			})

			Convey("The API token should be stored alongside", func() {
				So(SetAPIToken("tok-123"), ShouldBeNil)
				So(APIToken().MustGet(), ShouldEqual, "tok-123")

				state, err := Load()
				So(err, ShouldBeNil)
				So(state.User.Email, ShouldEqual, "viewer@example.com")
				So(len(state.User.Profiles), ShouldEqual, 2)
			})
		})
	})
}
