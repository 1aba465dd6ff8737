package logger_test

import (
	"context"
	"testing"

	"github.com/KenTen-21/WeatherApp/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello", logger.String("k", "v"))
			}, ShouldNotPanic)
		})

		Convey("Named returns a scoped logger", func() {
			l := logger.Named("forecast")
			So(l, ShouldNotBeNil)
			So(func() {
				l.Debug(context.Background(), "scoped", logger.Int("n", 1))
			}, ShouldNotPanic)
		})

		Convey("SetLevelString accepts known levels", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("nope"), ShouldNotBeNil)
			So(logger.SetLevelString("info"), ShouldBeNil)
		})

		Convey("Sync never fails", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
