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
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	// ErrSchemaNotFound is raised when no version range matches a microversion.
	ErrSchemaNotFound = errors.New("no schema found for microversion")

	// ErrInvalidSchema is raised when a schema definition itself is broken.
	ErrInvalidSchema = errors.New("invalid schema definition")

	// ErrInvalidStatus is raised when a response status is not expected.
	ErrInvalidStatus = errors.New("invalid HTTP response status")

	// ErrInvalidBody is raised when a response body does not match its schema.
	ErrInvalidBody = errors.New("invalid HTTP response body")

	// ErrInvalidHeader is raised when a response header does not match its schema.
	ErrInvalidHeader = errors.New("invalid HTTP response header")
)

// SchemaRangeError means the version table has no entry for a microversion.
// This is a defect in the table, or in the test configuration, and is never
// transient.
type SchemaRangeError struct {
	// Version is the requested microversion, empty if none was.
	Version string
	// Ranges describes the table that was searched.
	Ranges []string
}

func (e *SchemaRangeError) Error() string {
	version := e.Version
	if version == "" {
		version = "<none>"
	}

	return fmt.Sprintf("%s %s in ranges [%s]", ErrSchemaNotFound, version, strings.Join(e.Ranges, ", "))
}

func (e *SchemaRangeError) Unwrap() error {
	return ErrSchemaNotFound
}

// InvalidHTTPResponseStatus means the status code was not in the allowed set.
type InvalidHTTPResponseStatus struct {
	Expected []int
	Actual   int
}

func (e *InvalidHTTPResponseStatus) Error() string {
	return fmt.Sprintf("%s: expected one of %v, got %d", ErrInvalidStatus, e.Expected, e.Actual)
}

func (e *InvalidHTTPResponseStatus) Unwrap() error {
	return ErrInvalidStatus
}

// InvalidHTTPResponseBody means the body did not match its schema, Field
// locates the first violation.
type InvalidHTTPResponseBody struct {
	Field *field.Error
}

func (e *InvalidHTTPResponseBody) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidBody, e.Field.Error())
}

func (e *InvalidHTTPResponseBody) Unwrap() error {
	return ErrInvalidBody
}

// InvalidHTTPResponseHeader means a header did not match its schema.
type InvalidHTTPResponseHeader struct {
	Field *field.Error
}

func (e *InvalidHTTPResponseHeader) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidHeader, e.Field.Error())
}

func (e *InvalidHTTPResponseHeader) Unwrap() error {
	return ErrInvalidHeader
}

func invalidSchema(path *field.Path, format string, a ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSchema, path, fmt.Sprintf(format, a...))
}
