// Package filesystem provides a swappable afero backend for every file the application touches:
// downloaded episodes, the history registry, the log directory and the cookie and proxy lists.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Exists reports whether path exists. Stat errors other than "not exist" count as absent.
func Exists(path string) bool {
	ok, err := backend.Exists(path)
	return err == nil && ok
}
