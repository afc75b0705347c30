// Package pgversion parses and compares PG release numbers such as "2.17".
package pgversion

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// DefaultVersion is the PG release targeted when none is configured.
const DefaultVersion = "2.17"

// ErrInvalidVersion is returned for strings that do not start with a number.
var ErrInvalidVersion = errors.New("invalid PG version")

//nolint:gochecknoglobals // Compiled once.
var versionRx = regexp.MustCompile(`^\s*(\d+)(?:\.(\d+))?`)

// Version is a major.minor PG release.
type Version struct {
	Major int
	Minor int
}

// Parse reads the leading "major[.minor]" of s. A missing minor is 0.
func Parse(s string) (Version, error) {
	m := versionRx.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	minor := 0
	if m[2] != "" {
		if minor, err = strconv.Atoi(m[2]); err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
	}
	return Version{Major: major, Minor: minor}, nil
}

// MustParse is Parse for known-good constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns DefaultVersion parsed.
func Default() Version {
	return MustParse(DefaultVersion)
}

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	return cmp.Compare(v.Minor, o.Minor)
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// String formats the version as "major.minor".
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
