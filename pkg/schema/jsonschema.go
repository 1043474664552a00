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

// ToJSONSchema renders a node as a JSON Schema (draft 4) document, for
// diagnostics and for feeding third party validators.
//
// The OpenAPI rendering cannot stand in here.  OpenAPI 3.0 schemas have no
// "null" type and no patternProperties, so kin-openapi expresses both with
// nullable and an extension, and the result is not a schema a draft 4
// validator will accept.
func ToJSONSchema(n Node) map[string]any {
	switch t := n.(type) {
	case *Object:
		out := map[string]any{
			"type": "object",
		}

		if len(t.properties) != 0 {
			properties := make(map[string]any, len(t.properties))
			for name, p := range t.properties {
				properties[name] = ToJSONSchema(p)
			}

			out["properties"] = properties
		}

		if len(t.required) != 0 {
			out["required"] = t.Required()
		}

		switch t.additional {
		case AdditionalForbidden:
			out["additionalProperties"] = false
		case AdditionalValidated:
			out["additionalProperties"] = ToJSONSchema(t.values)
		case AdditionalAllowed:
		}

		return out
	case *Array:
		out := map[string]any{
			"type":  "array",
			"items": ToJSONSchema(t.items),
		}

		if t.minItems != nil {
			out["minItems"] = *t.minItems
		}

		if t.maxItems != nil {
			out["maxItems"] = *t.maxItems
		}

		return out
	case *Primitive:
		return primitiveJSONSchema(t)
	case *OneOf:
		return map[string]any{
			"oneOf": alternativesJSONSchema(t.alternatives),
		}
	case *AnyOf:
		return map[string]any{
			"anyOf": alternativesJSONSchema(t.alternatives),
		}
	case *PatternProperties:
		patterns := make(map[string]any, len(t.patterns))
		for _, pp := range t.patterns {
			patterns[pp.pattern.String()] = ToJSONSchema(pp.schema)
		}

		return map[string]any{
			"type":                 "object",
			"patternProperties":    patterns,
			"additionalProperties": false,
		}
	}

	return map[string]any{}
}

func primitiveJSONSchema(p *Primitive) map[string]any {
	out := map[string]any{}

	switch len(p.types) {
	case 0:
	case 1:
		out["type"] = string(p.types[0])
	default:
		types := make([]string, len(p.types))
		for i, t := range p.types {
			types[i] = string(t)
		}

		out["type"] = types
	}

	if p.format != "" {
		out["format"] = p.format
	}

	if p.pattern != nil {
		out["pattern"] = p.pattern.String()
	}

	if len(p.enum) != 0 {
		out["enum"] = p.Enum()
	}

	if p.minLength != nil {
		out["minLength"] = *p.minLength
	}

	if p.maxLength != nil {
		out["maxLength"] = *p.maxLength
	}

	if p.minimum != nil {
		out["minimum"] = *p.minimum
	}

	if p.maximum != nil {
		out["maximum"] = *p.maximum
	}

	return out
}

func alternativesJSONSchema(alternatives []Node) []any {
	out := make([]any, len(alternatives))
	for i, alternative := range alternatives {
		out[i] = ToJSONSchema(alternative)
	}

	return out
}
