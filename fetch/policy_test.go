package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicy(t *testing.T) {
	Convey("Given a policy of three attempts", t, func() {
		p := Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Penalty: 3}
		a := p.Start("https://site.tld")
		So(a.State, ShouldEqual, Pending)

		a = p.Next(a, Outcome{})
		So(a.State, ShouldEqual, InFlight)
		So(a.Number, ShouldEqual, 1)

		Convey("A success is terminal", func() {
			a = p.Next(a, Outcome{Status: 200})
			So(a.State, ShouldEqual, Success)
			So(a.State.Terminal(), ShouldBeTrue)
			So(p.Next(a, Outcome{}), ShouldResemble, a)
		})

		Convey("A server error schedules a linear retry", func() {
			a = p.Next(a, Outcome{Status: 500, Err: &HTTPStatusError{StatusCode: 500}})
			So(a.State, ShouldEqual, RetryScheduled)
			So(a.NextDelay, ShouldEqual, 100*time.Millisecond)

			a = p.Next(p.Next(a, Outcome{}), Outcome{Err: &NetworkError{Err: errors.New("reset")}})
			So(a.Number, ShouldEqual, 2)
			So(a.NextDelay, ShouldEqual, 200*time.Millisecond)
		})

		Convey("Rate limiting triples the delay", func() {
			a = p.Next(a, Outcome{Status: 429, Err: &HTTPStatusError{StatusCode: 429}})
			So(a.NextDelay, ShouldEqual, 300*time.Millisecond)

			a = p.Next(p.Next(a, Outcome{}), Outcome{Status: 403, Err: &HTTPStatusError{StatusCode: 403}})
			So(a.NextDelay, ShouldEqual, 600*time.Millisecond)
		})

		Convey("The last attempt fails terminally", func() {
			for i := 0; i < 3; i++ {
				a = p.Next(a, Outcome{Status: 503, Err: &HTTPStatusError{StatusCode: 503}})
				if a.State == RetryScheduled {
					a = p.Next(a, Outcome{})
				}
			}
			So(a.State, ShouldEqual, Failed)
			So(a.Number, ShouldEqual, 3)
		})

		Convey("Parse errors and cancellation are never retried", func() {
			So(p.Next(a, Outcome{Err: &ParseError{Err: errors.New("bad")}}).State, ShouldEqual, Failed)
			So(p.Next(a, Outcome{Err: context.Canceled}).State, ShouldEqual, Failed)
		})
	})
}

func TestRotator(t *testing.T) {
	Convey("Given a rotator", t, func() {
		r := newRotator(42)

		Convey("The first attempt uses the default identity", func() {
			id := r.For(1)
			So(id.UserAgent, ShouldEqual, UserAgents[0])
			So(id.Referer, ShouldBeEmpty)
			So(id.Header().Get("Accept-Language"), ShouldEqual, "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3")
			So(id.Header().Get("Cache-Control"), ShouldEqual, "no-cache")
		})

		Convey("Later attempts draw from the pools", func() {
			for i := 2; i < 20; i++ {
				id := r.For(i)
				So(UserAgents[:], ShouldContain, id.UserAgent)
				So(Referers, ShouldContain, id.Referer)
				So(id.Header().Get("Referer"), ShouldEqual, id.Referer)
			}
		})
	})
}
