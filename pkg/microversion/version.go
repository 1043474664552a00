/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package microversion

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	goversion "github.com/hashicorp/go-version"
)

// Latest is the magic version string asking a service for its newest microversion.
const Latest = "latest"

var (
	// ErrInvalidVersion is raised when a version string is not of the form X.Y.
	ErrInvalidVersion = errors.New("invalid microversion")

	// ErrInvalidRange is raised when a minimum version exceeds a maximum.
	ErrInvalidRange = errors.New("invalid microversion range")
)

var versionRegex = regexp.MustCompile(`^([1-9][0-9]*)\.([1-9][0-9]*|0)$`)

// Version is a parsed major.minor microversion.  The zero value is the null
// version, meaning that no microversion was requested.
type Version struct {
	// version is nil for the null and latest versions.
	version *goversion.Version
	latest  bool
}

// Null returns the null version.
func Null() Version {
	return Version{}
}

// New returns a numeric version.
func New(major, minor int64) Version {
	return Version{
		version: goversion.Must(goversion.NewVersion(fmt.Sprintf("%d.%d", major, minor))),
	}
}

// Parse parses a microversion string.  An empty string is the null version and
// "latest" is greater than any numeric version.
func Parse(s string) (Version, error) {
	if s == "" {
		return Null(), nil
	}

	if s == Latest {
		return Version{latest: true}, nil
	}

	// go-version is laxer, accepting "2", "v2.1" and pre-releases.
	if !versionRegex.MatchString(s) {
		return Null(), fmt.Errorf("%w: %q must be of the form X.Y or %q", ErrInvalidVersion, s, Latest)
	}

	v, err := goversion.NewVersion(s)
	if err != nil {
		return Null(), fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	}

	return Version{version: v}, nil
}

// MustParse is like Parse but panics on error, it's intended for static tables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return v
}

// IsNull tells whether no version was requested.
func (v Version) IsNull() bool {
	return v.version == nil && !v.latest
}

// IsLatest tells whether this is the "latest" version.
func (v Version) IsLatest() bool {
	return v.latest
}

func (v Version) segment(i int) int64 {
	switch {
	case v.latest:
		return math.MaxInt64
	case v.version == nil:
		return 0
	}

	return v.version.Segments64()[i]
}

// Major returns the major component.
func (v Version) Major() int64 {
	return v.segment(0)
}

// Minor returns the minor component.
func (v Version) Minor() int64 {
	return v.segment(1)
}

// Next returns the version immediately following this one.
func (v Version) Next() Version {
	if v.IsNull() || v.latest {
		return v
	}

	return New(v.Major(), v.Minor()+1)
}

func (v Version) String() string {
	switch {
	case v.IsNull():
		return ""
	case v.latest:
		return Latest
	}

	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// Compare returns -1, 0 or 1.  The null version sorts before everything and
// latest after everything.
func (v Version) Compare(o Version) int {
	switch {
	case v.IsNull() && o.IsNull(), v.latest && o.latest:
		return 0
	case v.IsNull(), o.latest:
		return -1
	case o.IsNull(), v.latest:
		return 1
	}

	return v.version.Compare(o.version)
}

// Matches tells whether the version is inside the inclusive range [min, max],
// where a null bound is unbounded.  The null version matches nothing.
func (v Version) Matches(minimum, maximum Version) bool {
	if v.IsNull() {
		return false
	}

	if !minimum.IsNull() && v.Compare(minimum) < 0 {
		return false
	}

	if !maximum.IsNull() && v.Compare(maximum) > 0 {
		return false
	}

	return true
}
