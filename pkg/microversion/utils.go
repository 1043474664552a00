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
)

// ErrHeaderMismatch is raised when a service does not echo the requested microversion.
var ErrHeaderMismatch = errors.New("microversion header mismatch")

// SelectRequestMicroversion picks the microversion a test should request, that is
// the larger of the test's own minimum and the configured minimum.
func SelectRequestMicroversion(testMin, configMin string) (string, error) {
	t, err := Parse(testMin)
	if err != nil {
		return "", err
	}

	c, err := Parse(configMin)
	if err != nil {
		return "", err
	}

	if t.Compare(c) >= 0 {
		return t.String(), nil
	}

	return c.String(), nil
}

// CheckSkip returns a non-empty reason when the microversions a test supports
// do not intersect those the cloud is configured to support.
func CheckSkip(testMin, testMax, configMin, configMax string) (string, error) {
	versions := make([]Version, 4)

	for i, s := range []string{testMin, testMax, configMin, configMax} {
		v, err := Parse(s)
		if err != nil {
			return "", err
		}

		versions[i] = v
	}

	tMin, tMax, cMin, cMax := versions[0], versions[1], versions[2], versions[3]

	if !tMin.IsNull() && !tMax.IsNull() && tMin.Compare(tMax) > 0 {
		return "", fmt.Errorf("%w: test minimum %s is greater than maximum %s", ErrInvalidRange, tMin, tMax)
	}

	if !cMin.IsNull() && !cMax.IsNull() && cMin.Compare(cMax) > 0 {
		return "", fmt.Errorf("%w: configured minimum %s is greater than maximum %s", ErrInvalidRange, cMin, cMax)
	}

	if !tMax.IsNull() && !cMin.IsNull() && tMax.Compare(cMin) < 0 {
		return fmt.Sprintf("test requires microversion at most %s, but the configured minimum is %s", tMax, cMin), nil
	}

	if !tMin.IsNull() && !cMax.IsNull() && tMin.Compare(cMax) > 0 {
		return fmt.Sprintf("test requires microversion at least %s, but the configured maximum is %s", tMin, cMax), nil
	}

	return "", nil
}
