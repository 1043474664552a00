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

package schema

import (
	"fmt"

	"github.com/openstack/tempest-sub006/pkg/microversion"
)

// VersionRange binds an entry to an inclusive microversion range.  An empty
// Min means from the beginning, an empty Max means open ended.
type VersionRange struct {
	Min    string
	Max    string
	Schema *Entry
}

func (r VersionRange) String() string {
	minimum, maximum := r.Min, r.Max

	if minimum == "" {
		minimum = "-"
	}

	if maximum == "" {
		maximum = "-"
	}

	return minimum + ".." + maximum
}

// Table is the ordered, non-overlapping list of version ranges for an
// operation.  Tables are built once and never mutated.
type Table []VersionRange

// Static returns a table with a single entry covering every version, used
// by services that do not take microversions.
func Static(entry *Entry) Table {
	return Table{
		{Schema: entry},
	}
}

func (t Table) ranges() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.String()
	}

	return out
}

// Resolve selects the entry applying to a microversion.  With no microversion
// the base entry, the one with no minimum, is returned.  A version outside
// every range is an error.
func Resolve(table Table, active string) (*Entry, error) {
	version, err := microversion.Parse(active)
	if err != nil {
		return nil, err
	}

	for _, r := range table {
		if version.IsNull() {
			if r.Min == "" {
				return r.Schema, nil
			}

			continue
		}

		minimum, err := microversion.Parse(r.Min)
		if err != nil {
			return nil, fmt.Errorf("%w: range %s: %w", ErrInvalidSchema, r, err)
		}

		maximum, err := microversion.Parse(r.Max)
		if err != nil {
			return nil, fmt.Errorf("%w: range %s: %w", ErrInvalidSchema, r, err)
		}

		if version.Matches(minimum, maximum) {
			return r.Schema, nil
		}
	}

	return nil, &SchemaRangeError{
		Version: active,
		Ranges:  table.ranges(),
	}
}

// Check verifies the table is well formed: ranges are ordered, contiguous and
// non-overlapping, only the first may be unbounded below and only the last
// unbounded above, and every entry's schema is valid.
//
//nolint:cyclop
func (t Table) Check() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty version table", ErrInvalidSchema)
	}

	var previous microversion.Version

	for i, r := range t {
		if r.Schema == nil {
			return fmt.Errorf("%w: range %s has no schema", ErrInvalidSchema, r)
		}

		if err := CheckEntry(r.Schema); err != nil {
			return fmt.Errorf("range %s: %w", r, err)
		}

		minimum, err := microversion.Parse(r.Min)
		if err != nil {
			return fmt.Errorf("%w: range %s: %w", ErrInvalidSchema, r, err)
		}

		maximum, err := microversion.Parse(r.Max)
		if err != nil {
			return fmt.Errorf("%w: range %s: %w", ErrInvalidSchema, r, err)
		}

		if minimum.IsLatest() || maximum.IsLatest() {
			return fmt.Errorf("%w: range %s must not be bounded by %q", ErrInvalidSchema, r, microversion.Latest)
		}

		if !minimum.IsNull() && !maximum.IsNull() && minimum.Compare(maximum) > 0 {
			return fmt.Errorf("%w: range %s is inverted", ErrInvalidSchema, r)
		}

		if minimum.IsNull() && i != 0 {
			return fmt.Errorf("%w: range %s is unbounded below but is not first", ErrInvalidSchema, r)
		}

		if maximum.IsNull() && i != len(t)-1 {
			return fmt.Errorf("%w: range %s is unbounded above but is not last", ErrInvalidSchema, r)
		}

		if i != 0 && minimum.Compare(previous.Next()) != 0 {
			return fmt.Errorf("%w: range %s does not follow on from %s", ErrInvalidSchema, r, previous)
		}

		previous = maximum
	}

	return nil
}
