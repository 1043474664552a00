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
	"slices"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Check verifies a schema definition: every node is a known kind, every
// object's required names are declared properties, formats are known and
// composite nodes are non-empty.
func Check(n Node) error {
	return check(n, field.NewPath("schema"))
}

// CheckEntry verifies an entry's status codes, body and header schemas.
func CheckEntry(e *Entry) error {
	if e.statusCodes.Len() == 0 {
		return fmt.Errorf("%w: no status codes", ErrInvalidSchema)
	}

	if e.body != nil {
		if err := check(e.body, field.NewPath("body")); err != nil {
			return err
		}
	}

	for name, n := range e.headers {
		if err := check(n, field.NewPath("header").Key(name)); err != nil {
			return err
		}
	}

	return nil
}

//nolint:cyclop,gocognit
func check(n Node, path *field.Path) error {
	switch t := n.(type) {
	case *Object:
		if t == nil {
			break
		}

		for _, name := range t.required {
			if _, ok := t.properties[name]; !ok {
				return invalidSchema(path, "required property %q is not declared", name)
			}
		}

		for _, name := range t.PropertyNames() {
			if err := check(t.properties[name], path.Child(name)); err != nil {
				return err
			}
		}

		if t.additional == AdditionalValidated {
			return check(t.values, path.Child("additionalProperties"))
		}

		return nil
	case *Array:
		if t == nil {
			break
		}

		return check(t.items, path.Child("items"))
	case *Primitive:
		if t == nil {
			break
		}

		for _, typ := range t.types {
			if !slices.Contains([]Type{TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeNull}, typ) {
				return invalidSchema(path, "unknown type %q", typ)
			}
		}

		if t.format != "" && !KnownFormat(t.format) {
			return invalidSchema(path, "unknown format %q", t.format)
		}

		return nil
	case *OneOf:
		if t == nil {
			break
		}

		return checkAlternatives(t.alternatives, path.Child("oneOf"))
	case *AnyOf:
		if t == nil {
			break
		}

		return checkAlternatives(t.alternatives, path.Child("anyOf"))
	case *PatternProperties:
		if t == nil {
			break
		}

		if len(t.patterns) == 0 {
			return invalidSchema(path, "patternProperties has no patterns")
		}

		for _, pp := range t.patterns {
			if err := check(pp.schema, path.Key(pp.pattern.String())); err != nil {
				return err
			}
		}

		return nil
	}

	return invalidSchema(path, "unknown schema node %T", n)
}

func checkAlternatives(alternatives []Node, path *field.Path) error {
	if len(alternatives) == 0 {
		return invalidSchema(path, "no alternatives")
	}

	for i, alternative := range alternatives {
		if err := check(alternative, path.Index(i)); err != nil {
			return err
		}
	}

	return nil
}
