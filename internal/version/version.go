// Package version holds the release version of the library.
package version

import "github.com/coreos/go-semver/semver"

// Product is the name used to identify this library in the X-Mailer field.
const Product = "go-mimelite"

const raw = "0.3.0"

// Version is the semantic version of this library.
var Version = semver.New(raw)

// String returns the version as a string.
func String() string {
	return Version.String()
}

// Mailer returns the value of the X-Mailer field.
func Mailer() string {
	return Product + " " + Version.String()
}

// AtLeast returns true if this library is at least the given version. It
// returns an error if the given version cannot be parsed.
func AtLeast(want string) (bool, error) {
	w, err := semver.NewVersion(want)
	if err != nil {
		return false, err
	}
	return !Version.LessThan(*w), nil
}
