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
	"maps"
	"regexp"
	"slices"
	"sort"
)

// Kind identifies a schema node variant.
type Kind string

const (
	KindObject            Kind = "object"
	KindArray             Kind = "array"
	KindPrimitive         Kind = "primitive"
	KindOneOf             Kind = "oneOf"
	KindAnyOf             Kind = "anyOf"
	KindPatternProperties Kind = "patternProperties"
)

// Type is a JSON primitive type tag.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
)

// Node is a structural descriptor of a JSON value.  The set of node kinds
// is closed, only the types in this package implement it.  Nodes are immutable
// once constructed, composition functions return new values and may share
// children.
type Node interface {
	Kind() Kind

	sealed()
}

// Properties maps property names to their schemas.
type Properties map[string]Node

// AdditionalPolicy controls properties not named in an object's schema.
type AdditionalPolicy int

const (
	// AdditionalAllowed accepts any undeclared property, the JSON Schema default.
	AdditionalAllowed AdditionalPolicy = iota
	// AdditionalForbidden rejects undeclared properties.
	AdditionalForbidden
	// AdditionalValidated accepts undeclared properties whose values validate
	// against a schema.
	AdditionalValidated
)

// Object describes a JSON object.
type Object struct {
	properties Properties
	required   []string
	additional AdditionalPolicy
	values     Node
}

// NewObject returns an object schema that allows additional properties.
func NewObject(properties Properties, required ...string) *Object {
	return &Object{
		properties: maps.Clone(properties),
		required:   sortedUnique(required),
	}
}

// NewClosedObject returns an object schema that forbids additional properties.
func NewClosedObject(properties Properties, required ...string) *Object {
	return NewObject(properties, required...).Closed()
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) sealed()    {}

func (o *Object) clone() *Object {
	return &Object{
		properties: maps.Clone(o.properties),
		required:   slices.Clone(o.required),
		additional: o.additional,
		values:     o.values,
	}
}

// Property returns a named property schema.
func (o *Object) Property(name string) (Node, bool) {
	n, ok := o.properties[name]

	return n, ok
}

// PropertyNames returns the declared property names in sorted order.
func (o *Object) PropertyNames() []string {
	return slices.Sorted(maps.Keys(o.properties))
}

// Required returns the required property names in sorted order.
func (o *Object) Required() []string {
	return slices.Clone(o.required)
}

// Additional returns the additional properties policy, and the schema of
// additional values for AdditionalValidated.
func (o *Object) Additional() (AdditionalPolicy, Node) {
	return o.additional, o.values
}

// Extend adds or replaces properties.
func (o *Object) Extend(properties Properties) *Object {
	c := o.clone()

	if c.properties == nil {
		c.properties = Properties{}
	}

	maps.Copy(c.properties, properties)

	return c
}

// Without removes properties, and any requirement on them.
func (o *Object) Without(names ...string) *Object {
	c := o.clone()

	for _, name := range names {
		delete(c.properties, name)
	}

	c.required = slices.DeleteFunc(c.required, func(name string) bool {
		return slices.Contains(names, name)
	})

	return c
}

// Require marks properties as required.
func (o *Object) Require(names ...string) *Object {
	c := o.clone()
	c.required = sortedUnique(append(c.required, names...))

	return c
}

// Unrequire marks properties as optional.
func (o *Object) Unrequire(names ...string) *Object {
	c := o.clone()
	c.required = slices.DeleteFunc(c.required, func(name string) bool {
		return slices.Contains(names, name)
	})

	return c
}

// Closed forbids additional properties.
func (o *Object) Closed() *Object {
	c := o.clone()
	c.additional = AdditionalForbidden
	c.values = nil

	return c
}

// Open allows any additional properties.
func (o *Object) Open() *Object {
	c := o.clone()
	c.additional = AdditionalAllowed
	c.values = nil

	return c
}

// AdditionalValues allows additional properties whose values match n.
func (o *Object) AdditionalValues(n Node) *Object {
	c := o.clone()
	c.additional = AdditionalValidated
	c.values = n

	return c
}

// Array describes a JSON array.
type Array struct {
	items    Node
	minItems *int
	maxItems *int
}

// NewArray returns an array whose elements all match items.
func NewArray(items Node) *Array {
	return &Array{
		items: items,
	}
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) sealed()    {}

// Items returns the element schema.
func (a *Array) Items() Node {
	return a.items
}

// ItemBounds returns the element count bounds, nil when unbounded.
func (a *Array) ItemBounds() (*int, *int) {
	return a.minItems, a.maxItems
}

// WithMinItems returns a copy with a lower bound on the element count.
func (a *Array) WithMinItems(n int) *Array {
	c := *a
	c.minItems = &n

	return &c
}

// WithMaxItems returns a copy with an upper bound on the element count.
func (a *Array) WithMaxItems(n int) *Array {
	c := *a
	c.maxItems = &n

	return &c
}

// Primitive describes a scalar.  No types means any JSON value is accepted.
type Primitive struct {
	types     []Type
	format    string
	pattern   *regexp.Regexp
	enum      []any
	minLength *int
	maxLength *int
	minimum   *float64
	maximum   *float64
}

// Types returns a primitive that accepts any of the given types.
func Types(types ...Type) *Primitive {
	return &Primitive{
		types: slices.Clone(types),
	}
}

// Any accepts any JSON value.
func Any() *Primitive {
	return &Primitive{}
}

// String accepts a string.
func String() *Primitive {
	return Types(TypeString)
}

// Integer accepts an integral number.
func Integer() *Primitive {
	return Types(TypeInteger)
}

// Number accepts any number.
func Number() *Primitive {
	return Types(TypeNumber)
}

// Boolean accepts true or false.
func Boolean() *Primitive {
	return Types(TypeBoolean)
}

// Null accepts only null.
func Null() *Primitive {
	return Types(TypeNull)
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Primitive) sealed()    {}

func (p *Primitive) clone() *Primitive {
	c := *p
	c.types = slices.Clone(p.types)
	c.enum = slices.Clone(p.enum)

	return &c
}

// AllowedTypes returns the accepted types, empty meaning any.
func (p *Primitive) AllowedTypes() []Type {
	return slices.Clone(p.types)
}

// Format returns the format constraint, if any.
func (p *Primitive) Format() string {
	return p.format
}

// Pattern returns the pattern constraint, if any.
func (p *Primitive) Pattern() string {
	if p.pattern == nil {
		return ""
	}

	return p.pattern.String()
}

// Enum returns the permitted values, if constrained.
func (p *Primitive) Enum() []any {
	return slices.Clone(p.enum)
}

// LengthBounds returns the string length bounds, nil when unbounded.
func (p *Primitive) LengthBounds() (*int, *int) {
	return p.minLength, p.maxLength
}

// Bounds returns the numeric bounds, nil when unbounded.
func (p *Primitive) Bounds() (*float64, *float64) {
	return p.minimum, p.maximum
}

// OrNull returns a copy that also accepts null.
func (p *Primitive) OrNull() *Primitive {
	c := p.clone()

	if len(c.types) != 0 && !slices.Contains(c.types, TypeNull) {
		c.types = append(c.types, TypeNull)
	}

	if len(c.enum) != 0 && !slices.Contains(c.enum, nil) {
		c.enum = append(c.enum, nil)
	}

	return c
}

// WithFormat returns a copy that checks string values against a named format.
func (p *Primitive) WithFormat(format string) *Primitive {
	c := p.clone()
	c.format = format

	return c
}

// WithPattern returns a copy that checks string values against a regular
// expression.  Schemas are static, so a bad pattern panics.
func (p *Primitive) WithPattern(pattern string) *Primitive {
	c := p.clone()
	c.pattern = regexp.MustCompile(pattern)

	return c
}

// WithEnum returns a copy that only accepts the given values.
func (p *Primitive) WithEnum(values ...any) *Primitive {
	c := p.clone()
	c.enum = slices.Clone(values)

	return c
}

// WithMinLength returns a copy with a lower bound on string length.
func (p *Primitive) WithMinLength(n int) *Primitive {
	c := p.clone()
	c.minLength = &n

	return c
}

// WithMaxLength returns a copy with an upper bound on string length.
func (p *Primitive) WithMaxLength(n int) *Primitive {
	c := p.clone()
	c.maxLength = &n

	return c
}

// WithMinimum returns a copy with an inclusive lower bound on numbers.
func (p *Primitive) WithMinimum(n float64) *Primitive {
	c := p.clone()
	c.minimum = &n

	return c
}

// WithMaximum returns a copy with an inclusive upper bound on numbers.
func (p *Primitive) WithMaximum(n float64) *Primitive {
	c := p.clone()
	c.maximum = &n

	return c
}

// OneOf matches when exactly one alternative does.
type OneOf struct {
	alternatives []Node
}

// NewOneOf returns an exclusive choice.
func NewOneOf(alternatives ...Node) *OneOf {
	return &OneOf{
		alternatives: slices.Clone(alternatives),
	}
}

func (*OneOf) Kind() Kind { return KindOneOf }
func (*OneOf) sealed()    {}

// Alternatives returns the choices.
func (o *OneOf) Alternatives() []Node {
	return slices.Clone(o.alternatives)
}

// AnyOf matches when at least one alternative does.
type AnyOf struct {
	alternatives []Node
}

// NewAnyOf returns an inclusive choice.
func NewAnyOf(alternatives ...Node) *AnyOf {
	return &AnyOf{
		alternatives: slices.Clone(alternatives),
	}
}

func (*AnyOf) Kind() Kind { return KindAnyOf }
func (*AnyOf) sealed()    {}

// Alternatives returns the choices.
func (a *AnyOf) Alternatives() []Node {
	return slices.Clone(a.alternatives)
}

// Nullable accepts null or whatever n accepts.
func Nullable(n Node) Node {
	if p, ok := n.(*Primitive); ok && len(p.types) != 0 && len(p.enum) == 0 {
		return p.OrNull()
	}

	return NewOneOf(Null(), n)
}

type patternProperty struct {
	pattern *regexp.Regexp
	schema  Node
}

// PatternProperties describes a map whose keys match regular expressions.
// Every key must match at least one pattern, and the value must validate
// against every matching pattern's schema.
type PatternProperties struct {
	patterns []patternProperty
}

// NewPatternProperties returns a regex keyed map schema.
func NewPatternProperties(patterns map[string]Node) *PatternProperties {
	keys := make([]string, 0, len(patterns))
	for key := range patterns {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	p := &PatternProperties{
		patterns: make([]patternProperty, 0, len(keys)),
	}

	for _, key := range keys {
		p.patterns = append(p.patterns, patternProperty{
			pattern: regexp.MustCompile(key),
			schema:  patterns[key],
		})
	}

	return p
}

func (*PatternProperties) Kind() Kind { return KindPatternProperties }
func (*PatternProperties) sealed()    {}

// Patterns returns the patterns and their value schemas.
func (p *PatternProperties) Patterns() map[string]Node {
	out := make(map[string]Node, len(p.patterns))

	for _, pp := range p.patterns {
		out[pp.pattern.String()] = pp.schema
	}

	return out
}

func sortedUnique(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)

	return slices.Compact(out)
}
