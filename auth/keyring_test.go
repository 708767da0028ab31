package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestToken(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		So(DeleteToken(), ShouldBeNil)

		Convey("No token is returned", func() {
			token, err := GetToken()
			So(err, ShouldBeNil)
			So(token.IsAbsent(), ShouldBeTrue)
		})

		Convey("A saved token is returned", func() {
			So(SetToken("secret"), ShouldBeNil)
			token, err := GetToken()
			So(err, ShouldBeNil)
			So(token.MustGet(), ShouldEqual, "secret")

			Convey("And deleted", func() {
				So(DeleteToken(), ShouldBeNil)
				token, err := GetToken()
				So(err, ShouldBeNil)
				So(token.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("An empty token is refused", func() {
			So(SetToken(""), ShouldNotBeNil)
		})
	})
}
