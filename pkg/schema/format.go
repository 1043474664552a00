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
	"net"
	"net/mail"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormatChecker tells whether a string satisfies a named format.
type FormatChecker func(string) bool

// formats are the named string formats schemas may reference.
//
//nolint:gochecknoglobals
var formats = map[string]FormatChecker{
	"uri":               checkURI,
	"uri-reference":     checkURIReference,
	"ipv4":              checkIPv4,
	"ipv6":              checkIPv6,
	"uuid":              checkUUID,
	"date-time":         checkDateTime,
	"iso8601-date-time": checkISO8601DateTime,
	"email":             checkEmail,
	"mac-address":       checkMACAddress,
}

// KnownFormat tells whether a format name is recognised.
func KnownFormat(name string) bool {
	_, ok := formats[name]

	return ok
}

func checkURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return u.IsAbs()
}

func checkURIReference(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}

	_, err := url.Parse(s)

	return err == nil
}

func checkIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}

	return addr.Is4()
}

func checkIPv6(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}

	return addr.Is6()
}

func checkUUID(s string) bool {
	// uuid.Parse also takes URN and braced forms, APIs only emit the
	// canonical 36 character form.
	if len(s) != 36 {
		return false
	}

	_, err := uuid.Parse(s)

	return err == nil
}

func checkDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339Nano, s)

	return err == nil
}

// iso8601Layouts are the timestamp shapes the services emit, with and
// without fractional seconds and zone designators.
//
//nolint:gochecknoglobals
var iso8601Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

func checkISO8601DateTime(s string) bool {
	for _, layout := range iso8601Layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}

	return false
}

func checkEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}

	return addr.Address == s
}

func checkMACAddress(s string) bool {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return false
	}

	return len(hw) == 6
}
