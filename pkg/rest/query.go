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

package rest

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// AddQuery encodes a query parameter in form style, arrays as repeated keys.
// Nil pointers and nil slices are skipped, which lets optional parameters be
// passed straight through.
func AddQuery(values url.Values, name string, value any) error {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return nil
		}
	default:
	}

	fragment, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}

	parsed, err := url.ParseQuery(fragment)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}

	for k, vs := range parsed {
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	return nil
}

// Expand substitutes {name} path parameters, escaping each value.
func Expand(template string, params map[string]string) (string, error) {
	var b strings.Builder

	for {
		start := strings.IndexByte(template, '{')
		if start < 0 {
			b.WriteString(template)

			return b.String(), nil
		}

		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated parameter in %q", ErrMissingParameter, template)
		}

		name := template[start+1 : start+end]

		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
		}

		b.WriteString(template[:start])
		b.WriteString(url.PathEscape(value))

		template = template[start+end+1:]
	}
}
