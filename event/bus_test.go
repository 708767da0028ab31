package event

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBus(t *testing.T) {
	Convey("Given a bus with two subscribers", t, func() {
		bus := NewBus[string]()
		var got []string
		unsubA := bus.Subscribe(func(s string) { got = append(got, "a:"+s) })
		bus.Subscribe(func(s string) { got = append(got, "b:"+s) })

		Convey("Publish reaches both in order", func() {
			bus.Publish("x")
			So(got, ShouldResemble, []string{"a:x", "b:x"})
		})

		Convey("Unsubscribed callbacks stop receiving", func() {
			unsubA()
			unsubA()
			bus.Publish("y")
			So(got, ShouldResemble, []string{"b:y"})
			So(bus.Len(), ShouldEqual, 1)
		})

		Convey("A subscriber may unsubscribe itself while publishing", func() {
			var unsub func()
			unsub = bus.Subscribe(func(string) { unsub() })
			So(func() { bus.Publish("z") }, ShouldNotPanic)
			So(bus.Len(), ShouldEqual, 2)
		})
	})
}
