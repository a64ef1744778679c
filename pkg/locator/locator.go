// Package locator parses object-storage locator strings of the form
// <scheme>://<container>/<object-prefix> and normalizes local directory
// paths.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformed is returned when a locator string cannot be split into a
// container name and an object prefix.
var ErrMalformed = errors.New("malformed storage locator")

// Locator addresses a container and an object prefix below it. The prefix
// may be empty, which means the container root.
type Locator struct {
	Container string
	Prefix    string
}

func (l Locator) String() string {
	return l.Container + "/" + l.Prefix
}

// Parse splits a locator into container and prefix. The scheme marker
// ("<scheme>://") is stripped when present; a locator without the marker is
// tolerated and treated as "<container>/<prefix>".
func Parse(raw, scheme string) (Locator, error) {
	return parse(raw, scheme, false)
}

// ParseStrict behaves like Parse but rejects locators that do not carry the
// scheme marker.
func ParseStrict(raw, scheme string) (Locator, error) {
	return parse(raw, scheme, true)
}

func parse(raw, scheme string, requireMarker bool) (Locator, error) {
	marker := scheme + "://"
	rest := raw
	if strings.HasPrefix(raw, marker) {
		rest = raw[len(marker):]
	} else if requireMarker {
		return Locator{}, fmt.Errorf("%w: %q does not start with %q", ErrMalformed, raw, marker)
	}

	container, prefix, _ := strings.Cut(rest, "/")
	if container == "" {
		return Locator{}, fmt.Errorf("%w: %q has no container name", ErrMalformed, raw)
	}
	return Locator{Container: container, Prefix: prefix}, nil
}

// NormalizeDir appends the platform separator to a directory path when it
// is missing. Pure string manipulation, no I/O.
func NormalizeDir(dir string) string {
	sep := string(os.PathSeparator)
	if strings.HasSuffix(dir, sep) {
		return dir
	}
	return dir + sep
}

// ExpandUser replaces a leading "~" with the current user's home directory
// and cleans the result. The path is returned unchanged when the home
// directory cannot be determined.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~"+string(os.PathSeparator)) || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Clean(path)
		}
		return filepath.Clean(filepath.Join(home, path[1:]))
	}
	return filepath.Clean(path)
}
