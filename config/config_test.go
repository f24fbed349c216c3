package config

import (
	"testing"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.NetworkTimeout), ShouldEqual, 10)
			So(viper.GetString(key.NetworkProxiesFile), ShouldEqual, "proxies.txt")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("network.cookies_file")
			So(result, ShouldEqual, "network_cookies_file")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.DownloadsQuality]

		Convey("Env should be prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "JUTDL_DOWNLOADS_QUALITY")
		})

		Convey("Type name should follow the default value", func() {
			So(field.typeName(), ShouldEqual, "string")
			films := Default[key.DownloadsFilms]
			So(films.typeName(), ShouldEqual, "bool")
		})

		Convey("Parse should follow the default value type", func() {
			timeout := Default[key.NetworkTimeout]
			v, err := timeout.Parse([]string{"30"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 30)

			_, err = timeout.Parse([]string{"soon"})
			So(err, ShouldNotBeNil)

			films := Default[key.DownloadsFilms]
			v, err = films.Parse([]string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)

			_, err = field.Parse(nil)
			So(err, ShouldNotBeNil)
		})
	})
}
