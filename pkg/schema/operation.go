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
	"regexp"
)

// Operation is one API call and its versioned response contract.
type Operation struct {
	// Name identifies the operation within its service, e.g. ShowServer.
	Name string
	// Method is the HTTP method.
	Method string
	// Path is the templated request path relative to the service
	// endpoint, parameters are written {like_this}.
	Path string
	// Table selects the response contract by microversion.
	Table Table
}

var pathParameterRegex = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Resolve selects the entry for a microversion.
func (o *Operation) Resolve(version string) (*Entry, error) {
	entry, err := Resolve(o.Table, version)
	if err != nil {
		return nil, fmt.Errorf("%s %s (%s): %w", o.Method, o.Path, o.Name, err)
	}

	return entry, nil
}

// Parameters returns the path parameter names in order of appearance.
func (o *Operation) Parameters() []string {
	matches := pathParameterRegex.FindAllStringSubmatch(o.Path, -1)

	names := make([]string, len(matches))
	for i, match := range matches {
		names[i] = match[1]
	}

	return names
}

// Check verifies the operation's version table.
func (o *Operation) Check() error {
	if err := o.Table.Check(); err != nil {
		return fmt.Errorf("%s: %w", o.Name, err)
	}

	return nil
}
