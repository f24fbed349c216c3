// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "JUTDL_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be explicitly specified via the JUTDL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Jutdl))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Jutdl))
}

// Logs resolves the directory holding the rotating log file.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the per-anime resume registry.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the remembered anime identifiers used for prompt suggestions.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Downloads resolves the root of the <anime>/<season> tree.
func Downloads() string {
	return ensureDir(viper.GetString(key.DownloadsDir))
}

// Cookies resolves the Netscape cookie file. The file itself may not exist.
func Cookies() string {
	return viper.GetString(key.NetworkCookiesFile)
}

// Proxies resolves the proxy list file. The file itself may not exist.
func Proxies() string {
	return viper.GetString(key.NetworkProxiesFile)
}
