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

// Package openapi renders registered response contracts as OpenAPI 3.0
// documents, so they may be diffed against, or fed to, other tooling.
package openapi

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/openstack/tempest-sub006/pkg/schema"

	"k8s.io/utils/ptr"
)

const (
	// Version is the OpenAPI version documents are written in.
	Version = "3.0.3"

	// PatternPropertiesExtension carries regex keyed maps, which OpenAPI
	// 3.0 cannot express, as JSON Schema.
	PatternPropertiesExtension = "x-patternProperties"

	// MicroversionExtension records the microversion a document was
	// rendered at.
	MicroversionExtension = "x-openstack-microversion"
)

var (
	// ErrUnsupported is raised when a node cannot be rendered.
	ErrUnsupported = errors.New("unsupported schema node")
)

// Document renders every operation at a microversion.  Operations with no
// contract at that microversion are left out, the empty version selects
// each operation's base contract.
func Document(service string, ops []*schema.Operation, version string) (*openapi3.T, error) {
	title := version
	if title == "" {
		title = "base"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   service,
			Version: title,
		},
		Paths: openapi3.NewPaths(),
	}

	if version != "" {
		doc.Extensions = map[string]any{
			MicroversionExtension: version,
		}
	}

	for _, op := range ops {
		entry, err := op.Resolve(version)
		if err != nil {
			if errors.Is(err, schema.ErrSchemaNotFound) {
				continue
			}

			return nil, err
		}

		operation, err := renderOperation(op, entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.Name, err)
		}

		item := doc.Paths.Value(op.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(op.Path, item)
		}

		item.SetOperation(op.Method, operation)
	}

	return doc, nil
}

func renderOperation(op *schema.Operation, entry *schema.Entry) (*openapi3.Operation, error) {
	operation := openapi3.NewOperation()
	operation.OperationID = op.Name
	operation.Responses = openapi3.NewResponsesWithCapacity(len(entry.StatusCodes()))

	for _, name := range op.Parameters() {
		operation.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}

	response := openapi3.NewResponse().WithDescription(op.Name + " response")

	if body := entry.Body(); body != nil {
		s, err := Schema(body)
		if err != nil {
			return nil, err
		}

		response.WithJSONSchema(s)
	}

	headers := entry.Headers()
	required := entry.RequiredHeaders()

	if len(headers) != 0 || len(required) != 0 {
		response.Headers = openapi3.Headers{}

		for name, n := range headers {
			s, err := Schema(n)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", name, err)
			}

			response.Headers[name] = &openapi3.HeaderRef{
				Value: &openapi3.Header{
					Parameter: openapi3.Parameter{
						Schema:   openapi3.NewSchemaRef("", s),
						Required: slices.Contains(required, name),
					},
				},
			}
		}

		for _, name := range required {
			if _, ok := response.Headers[name]; !ok {
				response.Headers[name] = &openapi3.HeaderRef{
					Value: &openapi3.Header{
						Parameter: openapi3.Parameter{
							Schema:   openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
							Required: true,
						},
					},
				}
			}
		}
	}

	for _, status := range entry.StatusCodes() {
		operation.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{Value: response})
	}

	return operation, nil
}

// Schema converts a node to an OpenAPI schema.  Null is expressed with
// nullable, and multiple non-null types become a oneOf.
func Schema(n schema.Node) (*openapi3.Schema, error) {
	switch t := n.(type) {
	case *schema.Object:
		return objectSchema(t)
	case *schema.Array:
		items, err := Schema(t.Items())
		if err != nil {
			return nil, err
		}

		s := openapi3.NewArraySchema().WithItems(items)

		minimum, maximum := t.ItemBounds()
		if minimum != nil {
			s.MinItems = uint64(*minimum) //nolint:gosec
		}

		if maximum != nil {
			s.MaxItems = ptr.To(uint64(*maximum)) //nolint:gosec
		}

		return s, nil
	case *schema.Primitive:
		return primitiveSchema(t), nil
	case *schema.OneOf:
		alternatives, err := alternativeSchemas(t.Alternatives())
		if err != nil {
			return nil, err
		}

		return &openapi3.Schema{OneOf: alternatives}, nil
	case *schema.AnyOf:
		alternatives, err := alternativeSchemas(t.Alternatives())
		if err != nil {
			return nil, err
		}

		return &openapi3.Schema{AnyOf: alternatives}, nil
	case *schema.PatternProperties:
		return patternPropertiesSchema(t)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupported, n)
}

func objectSchema(o *schema.Object) (*openapi3.Schema, error) {
	s := openapi3.NewObjectSchema()

	for _, name := range o.PropertyNames() {
		n, _ := o.Property(name)

		property, err := Schema(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		s.WithProperty(name, property)
	}

	s.Required = o.Required()

	switch policy, values := o.Additional(); policy {
	case schema.AdditionalForbidden:
		s.AdditionalProperties = openapi3.AdditionalProperties{Has: ptr.To(false)}
	case schema.AdditionalValidated:
		additional, err := Schema(values)
		if err != nil {
			return nil, err
		}

		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: openapi3.NewSchemaRef("", additional)}
	case schema.AdditionalAllowed:
	}

	return s, nil
}

func patternPropertiesSchema(p *schema.PatternProperties) (*openapi3.Schema, error) {
	patterns := p.Patterns()

	keys := make([]string, 0, len(patterns))
	for key := range patterns {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	values := make([]schema.Node, len(keys))
	for i, key := range keys {
		values[i] = patterns[key]
	}

	var additional *openapi3.Schema

	if len(values) == 1 {
		s, err := Schema(values[0])
		if err != nil {
			return nil, err
		}

		additional = s
	} else {
		alternatives, err := alternativeSchemas(values)
		if err != nil {
			return nil, err
		}

		additional = &openapi3.Schema{AnyOf: alternatives}
	}

	s := openapi3.NewObjectSchema()
	s.AdditionalProperties = openapi3.AdditionalProperties{Schema: openapi3.NewSchemaRef("", additional)}
	s.Extensions = map[string]any{
		PatternPropertiesExtension: schema.ToJSONSchema(p)["patternProperties"],
	}

	return s, nil
}

func alternativeSchemas(nodes []schema.Node) (openapi3.SchemaRefs, error) {
	refs := make(openapi3.SchemaRefs, len(nodes))

	for i, n := range nodes {
		s, err := Schema(n)
		if err != nil {
			return nil, err
		}

		refs[i] = openapi3.NewSchemaRef("", s)
	}

	return refs, nil
}

func primitiveSchema(p *schema.Primitive) *openapi3.Schema {
	var types []string

	nullable := false

	for _, t := range p.AllowedTypes() {
		if t == schema.TypeNull {
			nullable = true
			continue
		}

		types = append(types, string(t))
	}

	s := &openapi3.Schema{}

	switch len(types) {
	case 0:
		if nullable {
			// Only null, which 3.0 spells as a nullable enum of null.
			s.Nullable = true
			s.Enum = []any{nil}

			return s
		}
	case 1:
		s = typedSchema(p, types[0])
	default:
		for _, t := range types {
			s.OneOf = append(s.OneOf, openapi3.NewSchemaRef("", typedSchema(p, t)))
		}
	}

	s.Nullable = nullable

	if enum := p.Enum(); len(enum) != 0 {
		s.Enum = enum
	}

	return s
}

// typedSchema renders the constraints that apply to one type.
func typedSchema(p *schema.Primitive, t string) *openapi3.Schema {
	s := &openapi3.Schema{
		Type: &openapi3.Types{t},
	}

	switch t {
	case openapi3.TypeString:
		s.Format = p.Format()
		s.Pattern = p.Pattern()

		minimum, maximum := p.LengthBounds()
		if minimum != nil {
			s.MinLength = uint64(*minimum) //nolint:gosec
		}

		if maximum != nil {
			s.MaxLength = ptr.To(uint64(*maximum)) //nolint:gosec
		}
	case openapi3.TypeInteger, openapi3.TypeNumber:
		s.Min, s.Max = p.Bounds()
	}

	return s
}

