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
	"fmt"
	"net/http"
	"strings"
)

// HeaderName is the generic microversion header shared by all services.
const HeaderName = "OpenStack-API-Version"

// Service describes how a service negotiates microversions.
type Service struct {
	// Name is the service type used in the OpenStack-API-Version header.
	Name string
	// LegacyHeader is an optional service specific header carrying the
	// bare version, e.g. X-OpenStack-Nova-API-Version.
	LegacyHeader string
}

//nolint:gochecknoglobals
var (
	Compute = Service{
		Name:         "compute",
		LegacyHeader: "X-OpenStack-Nova-API-Version",
	}

	Volume = Service{
		Name: "volume",
	}

	Placement = Service{
		Name: "placement",
	}
)

// Enabled tells whether the service takes microversions at all.
func (s Service) Enabled() bool {
	return s.Name != ""
}

// SetHeaders adds the request headers selecting a microversion.  Nothing
// is added for the null version.
func (s Service) SetHeaders(header http.Header, version string) {
	if !s.Enabled() || version == "" {
		return
	}

	header.Set(HeaderName, s.Name+" "+version)

	if s.LegacyHeader != "" {
		header.Set(s.LegacyHeader, version)
	}
}

// ResponseVersion extracts the microversion a service responded with, or
// the empty string if there is none.
func (s Service) ResponseVersion(header http.Header) string {
	if !s.Enabled() {
		return ""
	}

	// The generic header may be repeated, or comma separated, one value per service.
	for _, value := range header.Values(HeaderName) {
		for _, part := range strings.Split(value, ",") {
			fields := strings.Fields(part)
			if len(fields) == 2 && strings.EqualFold(fields[0], s.Name) {
				return fields[1]
			}
		}
	}

	if s.LegacyHeader != "" {
		return header.Get(s.LegacyHeader)
	}

	return ""
}

// AssertHeaderMatchesRequest checks that the response carries the requested
// microversion.  Requests for the null version or "latest" always pass.
func AssertHeaderMatchesRequest(s Service, requested string, header http.Header) error {
	if !s.Enabled() || requested == "" || requested == Latest {
		return nil
	}

	actual := s.ResponseVersion(header)
	if actual == "" {
		return fmt.Errorf("%w: %s response is missing the %s header, requested %s", ErrHeaderMismatch, s.Name, HeaderName, requested)
	}

	a, err := Parse(actual)
	if err != nil {
		return err
	}

	r, err := Parse(requested)
	if err != nil {
		return err
	}

	if a.Compare(r) != 0 {
		return fmt.Errorf("%w: %s requested %s, got %s", ErrHeaderMismatch, s.Name, requested, actual)
	}

	return nil
}
