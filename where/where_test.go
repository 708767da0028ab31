package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Directories are created on resolution", func() {
			for _, dir := range []func() string{Config, Cache, Logs, Providers, Store, Scrapes} {
				path := dir()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			}
		})

		Convey("Files live under their parent directories", func() {
			So(filepath.Dir(History()), ShouldEqual, Config())
			So(filepath.Dir(Queries()), ShouldEqual, Cache())
			So(filepath.Dir(SQLite()), ShouldEqual, Cache())
		})

		Convey("STREAMDEX_CONFIG_PATH overrides the config directory", func() {
			t.Setenv(EnvConfigPath, "/custom/streamdex")
			So(Config(), ShouldEqual, "/custom/streamdex")
			So(Providers(), ShouldEqual, filepath.Join("/custom/streamdex", "providers"))
		})
	})
}
