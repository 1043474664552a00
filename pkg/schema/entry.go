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
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf8"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Entry is the contract for one operation over one microversion range: the
// allowed status codes and, optionally, the shape of the body and headers.
type Entry struct {
	statusCodes     sets.Set[int]
	body            Node
	headers         map[string]Node
	requiredHeaders []string
}

// NewEntry returns an entry accepting the given status codes, and no body.
func NewEntry(statusCodes ...int) *Entry {
	return &Entry{
		statusCodes: sets.New(statusCodes...),
	}
}

func (e *Entry) clone() *Entry {
	return &Entry{
		statusCodes:     e.statusCodes.Clone(),
		body:            e.body,
		headers:         maps.Clone(e.headers),
		requiredHeaders: slices.Clone(e.requiredHeaders),
	}
}

// WithStatusCodes returns a copy accepting only the given status codes.
func (e *Entry) WithStatusCodes(statusCodes ...int) *Entry {
	c := e.clone()
	c.statusCodes = sets.New(statusCodes...)

	return c
}

// WithBody returns a copy with a body schema.
func (e *Entry) WithBody(n Node) *Entry {
	c := e.clone()
	c.body = n

	return c
}

// WithHeaders returns a copy with header schemas, checked when present.
func (e *Entry) WithHeaders(headers map[string]Node) *Entry {
	c := e.clone()
	c.headers = make(map[string]Node, len(headers))

	for name, n := range headers {
		c.headers[http.CanonicalHeaderKey(name)] = n
	}

	return c
}

// WithRequiredHeaders returns a copy where the named headers must be present.
func (e *Entry) WithRequiredHeaders(names ...string) *Entry {
	c := e.clone()

	for _, name := range names {
		c.requiredHeaders = append(c.requiredHeaders, http.CanonicalHeaderKey(name))
	}

	c.requiredHeaders = sortedUnique(c.requiredHeaders)

	return c
}

// StatusCodes returns the allowed status codes in ascending order.
func (e *Entry) StatusCodes() []int {
	return sets.List(e.statusCodes)
}

// Body returns the body schema, nil when no body is expected.
func (e *Entry) Body() Node {
	return e.body
}

// Headers returns the header schemas keyed by canonical header name.
func (e *Entry) Headers() map[string]Node {
	return maps.Clone(e.headers)
}

// RequiredHeaders returns the headers that must be present.
func (e *Entry) RequiredHeaders() []string {
	return slices.Clone(e.requiredHeaders)
}

// ValidateResponse checks a response against an entry.  The status code is
// checked first, then the decoded body, then the headers.  The first violation
// is returned as an *InvalidHTTPResponseStatus, *InvalidHTTPResponseBody or
// *InvalidHTTPResponseHeader.
func ValidateResponse(entry *Entry, statusCode int, body any, headers http.Header) error {
	if !entry.statusCodes.Has(statusCode) {
		return &InvalidHTTPResponseStatus{
			Expected: entry.StatusCodes(),
			Actual:   statusCode,
		}
	}

	if err := validateBody(entry, body); err != nil {
		return err
	}

	return validateHeaders(entry, headers)
}

// ValidateRawResponse is like ValidateResponse, but decodes the body first.
func ValidateRawResponse(entry *Entry, statusCode int, raw []byte, headers http.Header) error {
	if !entry.statusCodes.Has(statusCode) {
		return &InvalidHTTPResponseStatus{
			Expected: entry.StatusCodes(),
			Actual:   statusCode,
		}
	}

	body, err := DecodeBody(raw)
	if err != nil {
		return err
	}

	if err := validateBody(entry, body); err != nil {
		return err
	}

	return validateHeaders(entry, headers)
}

// Decode parses a JSON body, keeping numbers as json.Number so integers
// and floats remain distinguishable.  An empty body decodes to nil.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var body any

	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}

	return body, nil
}

// DecodeBody is Decode reporting malformed JSON as an *InvalidHTTPResponseBody
// at the body root.
func DecodeBody(raw []byte) (any, error) {
	body, err := Decode(raw)
	if err != nil {
		return nil, &InvalidHTTPResponseBody{
			Field: field.Invalid(field.NewPath("body"), truncate(raw), "must be valid JSON: "+err.Error()),
		}
	}

	return body, nil
}

func validateBody(entry *Entry, body any) error {
	path := field.NewPath("body")

	if entry.body == nil {
		if !isEmpty(body) {
			return &InvalidHTTPResponseBody{
				Field: field.Forbidden(path, "response body should not exist"),
			}
		}

		return nil
	}

	return wrapViolation(Validate(entry.body, path, body), func(ferr *field.Error) error {
		return &InvalidHTTPResponseBody{Field: ferr}
	})
}

func validateHeaders(entry *Entry, headers http.Header) error {
	path := field.NewPath("header")

	for _, name := range entry.requiredHeaders {
		if len(headers.Values(name)) == 0 {
			return &InvalidHTTPResponseHeader{
				Field: field.Required(path.Key(name), ""),
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(entry.headers)) {
		values := headers.Values(name)
		if len(values) == 0 {
			continue
		}

		n := entry.headers[name]

		err := wrapViolation(Validate(n, path.Key(name), coerceHeader(n, values[0])), func(ferr *field.Error) error {
			return &InvalidHTTPResponseHeader{Field: ferr}
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// wrapViolation turns a *field.Error into the typed error the caller wants,
// passing schema defects through untouched.
func wrapViolation(err error, wrap func(*field.Error) error) error {
	if err == nil {
		return nil
	}

	var ferr *field.Error
	if errors.As(err, &ferr) {
		return wrap(ferr)
	}

	return err
}

// coerceHeader converts a header string to the scalar a primitive schema
// wants, headers are always strings on the wire.
func coerceHeader(n Node, value string) any {
	p, ok := n.(*Primitive)
	if !ok || len(p.types) == 0 || slices.Contains(p.types, TypeString) {
		return value
	}

	for _, t := range p.types {
		switch t {
		case TypeInteger, TypeNumber:
			if _, err := strconv.ParseFloat(value, 64); err == nil {
				return json.Number(value)
			}
		case TypeBoolean:
			if b, err := strconv.ParseBool(value); err == nil {
				return b
			}
		case TypeString, TypeNull:
		}
	}

	return value
}

func isEmpty(body any) bool {
	if body == nil {
		return true
	}

	if s, ok := body.(string); ok {
		return s == ""
	}

	v := reflect.ValueOf(body)

	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return v.Len() == 0
	default:
	}

	return false
}

func truncate(raw []byte) string {
	const limit = 64

	if len(raw) > limit {
		n := limit

		// Never split a multi-byte rune.
		for n > 0 && !utf8.RuneStart(raw[n]) {
			n--
		}

		return string(raw[:n]) + "..."
	}

	return string(raw)
}
