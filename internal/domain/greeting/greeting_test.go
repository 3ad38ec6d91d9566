package greeting_test

import (
	"testing"

	"github.com/okian/hello/internal/domain/greeting"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoot(t *testing.T) {
	Convey("Given the root greeting", t, func() {
		Convey("Then it should always be Hello World!", func() {
			So(greeting.Root(), ShouldEqual, "Hello World!")
			So(greeting.Root(), ShouldEqual, greeting.Root())
		})
	})
}

func TestGreet(t *testing.T) {
	Convey("Given names to greet", t, func() {
		cases := []struct {
			name string
			want string
		}{
			{name: "World", want: "Hello, World!"},
			{name: "", want: "Hello, !"},
			{name: "  ", want: "Hello,   !"},
			{name: "Zoë", want: "Hello, Zoë!"},
			{name: "世界", want: "Hello, 世界!"},
			{name: "<b>x</b>", want: "Hello, <b>x</b>!"},
			{name: "a%20b", want: "Hello, a%20b!"},
		}

		Convey("Then each name should be echoed verbatim", func() {
			for _, tc := range cases {
				So(greeting.Greet(tc.name), ShouldEqual, tc.want)
			}
		})
	})
}
