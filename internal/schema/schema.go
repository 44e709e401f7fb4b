// Package schema describes the shape of records exposed to callers and
// projects upstream records onto that shape.
package schema

import "sort"

// ValueType is the declared type of a property.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
)

// Property declares one field of an object schema.
type Property struct {
	// Name is the field name exposed to callers
	Name string

	// FromKey is the upstream key the value is read from; empty means Name
	FromKey string

	Type        ValueType
	Description string

	// Items describes array elements
	Items *Property

	// Properties describes nested object fields
	Properties []Property

	// IncludeUnknown marks an open object whose keys are not declared
	IncludeUnknown bool
}

// SourceKey returns the upstream key for the property.
func (p Property) SourceKey() string {
	if p.FromKey != "" {
		return p.FromKey
	}
	return p.Name
}

// ObjectSchema describes a record type.
type ObjectSchema struct {
	// Identity names the record type
	Identity string

	// IDProperty is the property that uniquely identifies a record
	IDProperty string

	// DisplayProperty is the property used as the record label
	DisplayProperty string

	// Featured lists the properties shown by default
	Featured []string

	// Properties are the declared fields, in display order
	Properties []Property
}

// Property returns the named property and whether it exists.
func (s *ObjectSchema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// SourceKeys returns the upstream key of every declared property.
func (s *ObjectSchema) SourceKeys() []string {
	keys := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		keys = append(keys, p.SourceKey())
	}
	return keys
}

// KeySet returns the retained-key set for the schema plus additional keys.
func (s *ObjectSchema) KeySet(additional ...string) KeySet {
	return NewKeySet(append(s.SourceKeys(), additional...)...)
}

// TypeName renders the property type with its element or openness marker,
// for example "array<string>" or "object{*}".
func (p Property) TypeName() string {
	switch {
	case p.Type == TypeArray && p.Items != nil:
		return "array<" + p.Items.TypeName() + ">"
	case p.Type == TypeObject && p.IncludeUnknown:
		return "object{*}"
	default:
		return string(p.Type)
	}
}

// Fields returns the declared fields of an object property, or of the
// elements of an array property.
func (p Property) Fields() []Property {
	if p.Items != nil {
		return p.Items.Fields()
	}
	return p.Properties
}

// Label returns the record's display value, falling back to its ID.
func (s *ObjectSchema) Label(record map[string]interface{}) string {
	for _, name := range []string{s.DisplayProperty, s.IDProperty} {
		if name == "" {
			continue
		}
		p, ok := s.Property(name)
		if !ok {
			continue
		}
		if v, ok := record[p.SourceKey()].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// DisplayOrder orders keys for presentation: featured properties first in
// their declared order, then the remaining keys sorted.
func (s *ObjectSchema) DisplayOrder(keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	ordered := make([]string, 0, len(keys))
	for _, name := range s.Featured {
		if present[name] {
			ordered = append(ordered, name)
			delete(present, name)
		}
	}

	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
