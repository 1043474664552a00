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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Validate checks a decoded JSON value against a schema.  A violation is
// returned as a *field.Error rooted at path, a broken schema as an error
// wrapping ErrInvalidSchema.  Validation stops at the first violation.
func Validate(n Node, path *field.Path, value any) error {
	switch t := n.(type) {
	case *Object:
		if t != nil {
			return validateObject(t, path, value)
		}
	case *Array:
		if t != nil {
			return validateArray(t, path, value)
		}
	case *Primitive:
		if t != nil {
			return validatePrimitive(t, path, value)
		}
	case *OneOf:
		if t != nil {
			return validateOneOf(t, path, value)
		}
	case *AnyOf:
		if t != nil {
			return validateAnyOf(t, path, value)
		}
	case *PatternProperties:
		if t != nil {
			return validatePatternProperties(t, path, value)
		}
	}

	return invalidSchema(path, "unknown schema node %T", n)
}

func validateObject(o *Object, path *field.Path, value any) error {
	m, ok := asObject(value)
	if !ok {
		return field.TypeInvalid(path, value, "must be an object")
	}

	for _, name := range o.required {
		if _, ok := m[name]; !ok {
			return field.Required(path.Child(name), "")
		}
	}

	for _, key := range sortedKeys(m) {
		child := path.Child(key)

		if schema, ok := o.properties[key]; ok {
			if err := Validate(schema, child, m[key]); err != nil {
				return err
			}

			continue
		}

		switch o.additional {
		case AdditionalAllowed:
		case AdditionalForbidden:
			return field.Forbidden(child, fmt.Sprintf("additional property not in %s", quoted(o.PropertyNames())))
		case AdditionalValidated:
			if err := Validate(o.values, child, m[key]); err != nil {
				return err
			}
		default:
			return invalidSchema(path, "unknown additional properties policy %d", o.additional)
		}
	}

	return nil
}

func validateArray(a *Array, path *field.Path, value any) error {
	items, ok := asArray(value)
	if !ok {
		return field.TypeInvalid(path, value, "must be an array")
	}

	if a.minItems != nil && len(items) < *a.minItems {
		return field.Invalid(path, len(items), fmt.Sprintf("must have at least %d items", *a.minItems))
	}

	if a.maxItems != nil && len(items) > *a.maxItems {
		return field.TooMany(path, len(items), *a.maxItems)
	}

	for i, item := range items {
		if err := Validate(a.items, path.Index(i), item); err != nil {
			return err
		}
	}

	return nil
}

//nolint:cyclop
func validatePrimitive(p *Primitive, path *field.Path, value any) error {
	if len(p.types) != 0 && !slices.ContainsFunc(p.types, func(t Type) bool { return isType(t, value) }) {
		return field.TypeInvalid(path, value, "must be of type "+typeList(p.types))
	}

	if len(p.enum) != 0 && !slices.ContainsFunc(p.enum, func(e any) bool { return equal(e, value) }) {
		return field.NotSupported(path, value, enumStrings(p.enum))
	}

	if s, ok := value.(string); ok {
		if p.format != "" {
			check, ok := formats[p.format]
			if !ok {
				return invalidSchema(path, "unknown format %q", p.format)
			}

			if !check(s) {
				return field.Invalid(path, s, "must be a valid "+p.format)
			}
		}

		if p.pattern != nil && !p.pattern.MatchString(s) {
			return field.Invalid(path, s, fmt.Sprintf("must match pattern %q", p.pattern.String()))
		}

		length := utf8.RuneCountInString(s)

		if p.minLength != nil && length < *p.minLength {
			return field.Invalid(path, s, fmt.Sprintf("must be at least %d characters", *p.minLength))
		}

		if p.maxLength != nil && length > *p.maxLength {
			return field.TooLong(path, s, *p.maxLength)
		}
	}

	if f, ok := asNumber(value); ok {
		if p.minimum != nil && f < *p.minimum {
			return field.Invalid(path, value, fmt.Sprintf("must be greater than or equal to %v", *p.minimum))
		}

		if p.maximum != nil && f > *p.maximum {
			return field.Invalid(path, value, fmt.Sprintf("must be less than or equal to %v", *p.maximum))
		}
	}

	return nil
}

func validateOneOf(o *OneOf, path *field.Path, value any) error {
	if len(o.alternatives) == 0 {
		return invalidSchema(path, "oneOf has no alternatives")
	}

	var (
		matched  int
		failures []string
	)

	for _, alternative := range o.alternatives {
		err := Validate(alternative, path, value)
		if err == nil {
			matched++
			continue
		}

		var ferr *field.Error
		if !errors.As(err, &ferr) {
			return err
		}

		failures = append(failures, ferr.ErrorBody())
	}

	switch matched {
	case 1:
		return nil
	case 0:
		return field.Invalid(path, value, "must match exactly one alternative: "+strings.Join(failures, "; "))
	}

	return field.Invalid(path, value, fmt.Sprintf("must match exactly one alternative, matched %d", matched))
}

func validateAnyOf(a *AnyOf, path *field.Path, value any) error {
	if len(a.alternatives) == 0 {
		return invalidSchema(path, "anyOf has no alternatives")
	}

	failures := make([]string, 0, len(a.alternatives))

	for _, alternative := range a.alternatives {
		err := Validate(alternative, path, value)
		if err == nil {
			return nil
		}

		var ferr *field.Error
		if !errors.As(err, &ferr) {
			return err
		}

		failures = append(failures, ferr.ErrorBody())
	}

	return field.Invalid(path, value, "must match at least one alternative: "+strings.Join(failures, "; "))
}

func validatePatternProperties(p *PatternProperties, path *field.Path, value any) error {
	m, ok := asObject(value)
	if !ok {
		return field.TypeInvalid(path, value, "must be an object")
	}

	for _, key := range sortedKeys(m) {
		child := path.Key(key)
		matched := false

		for _, pp := range p.patterns {
			if !pp.pattern.MatchString(key) {
				continue
			}

			matched = true

			if err := Validate(pp.schema, child, m[key]); err != nil {
				return err
			}
		}

		if !matched {
			return field.Forbidden(child, "key does not match any of "+quoted(patternStrings(p.patterns)))
		}
	}

	return nil
}

func asObject(value any) (map[string]any, bool) {
	switch t := value.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = v
		}

		return m, true
	}

	return nil, false
}

func asArray(value any) ([]any, bool) {
	switch t := value.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}

		return out, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}

		return out, true
	}

	return nil, false
}

//nolint:cyclop
func asNumber(value any) (float64, bool) {
	switch t := value.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}

	return 0, false
}

func isInteger(value any) bool {
	if n, ok := value.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return true
		}
	}

	f, ok := asNumber(value)

	return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
}

func isType(t Type, value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		return isInteger(value)
	case TypeNumber:
		_, ok := asNumber(value)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNull:
		return value == nil
	}

	return false
}

// equal compares scalars, treating all numeric representations alike.
func equal(a, b any) bool {
	if fa, ok := asNumber(a); ok {
		fb, ok := asNumber(b)
		return ok && fa == fb
	}

	switch a.(type) {
	case string, bool, nil:
		return a == b
	}

	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

func typeList(types []Type) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = string(t)
	}

	return strings.Join(s, " or ")
}

func enumStrings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = "null"
			continue
		}

		out[i] = fmt.Sprint(v)
	}

	return out
}

func patternStrings(patterns []patternProperty) []string {
	out := make([]string, len(patterns))
	for i, pp := range patterns {
		out[i] = pp.pattern.String()
	}

	return out
}

func quoted(names []string) string {
	q := make([]string, len(names))
	for i, name := range names {
		q[i] = fmt.Sprintf("%q", name)
	}

	return "[" + strings.Join(q, ", ") + "]"
}
