package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	NIL_OBJ       = "NIL"
	UNDEFINED_OBJ = "UNDEFINED"
	BOOLEAN_OBJ   = "BOOLEAN"
	NUMBER_OBJ    = "NUMBER"
	STRING_OBJ    = "STRING"

	LIST_OBJ          = "LIST"
	MAP_OBJ           = "MAP"
	STRUCT_SCHEMA_OBJ = "STRUCT_SCHEMA"
	STRUCT_OBJ        = "STRUCT"
	MATCH_RESULT_OBJ  = "MATCH_RESULT"

	ERROR_OBJ   = "ERROR"
	UNBOUND_OBJ = "UNBOUND"
)

var (
	NIL       = &Nil{}
	UNDEFINED = &Undefined{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
	// UNBOUND marks a name declared by some alternative of an or-pattern but
	// not produced by the branch that actually matched. It is distinct from
	// UNDEFINED, which is an ordinary value an input can carry.
	UNBOUND = &Unbound{}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Structured is the capability object patterns match against: keyed property
// access plus enumeration of own keys in a stable order.
type Structured interface {
	Object
	HasProperty(key string) bool
	GetProperty(key string) Object
	OwnKeys() []string
}

// ListLike is the capability array patterns match against.
type ListLike interface {
	Object
	Len() int
	At(index int) Object
}

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "null" }

// Undefined is the absent-value sentinel. A null literal pattern never
// matches it; only an explicit Nil input matches null.
type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }

type Unbound struct{}

func (u *Unbound) Type() ObjectType { return UNBOUND_OBJ }
func (u *Unbound) Inspect() string  { return "<unbound>" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer

	elements := []string{}
	for _, e := range l.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

func (l *List) Len() int { return len(l.Elements) }
func (l *List) At(index int) Object {
	if index < 0 || index >= len(l.Elements) {
		return UNDEFINED
	}
	return l.Elements[index]
}

// Map is a structured value with string keys. Insertion order is preserved
// so rest-pattern collection and OwnKeys enumeration stay deterministic.
type Map struct {
	keys  []string
	pairs map[string]Object
}

func NewMap() *Map {
	return &Map{pairs: make(map[string]Object)}
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer

	pairs := []string{}
	for _, k := range m.keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, m.pairs[k].Inspect()))
	}

	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")

	return out.String()
}

// Put sets a key, keeping the original insertion position on overwrite.
func (m *Map) Put(key string, val Object) *Map {
	if m.pairs == nil {
		m.pairs = make(map[string]Object)
	}
	if _, exists := m.pairs[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.pairs[key] = val
	return m
}

func (m *Map) Get(key string) (Object, bool) {
	val, ok := m.pairs[key]
	return val, ok
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) HasProperty(key string) bool {
	_, ok := m.pairs[key]
	return ok
}

func (m *Map) GetProperty(key string) Object {
	if val, ok := m.pairs[key]; ok {
		return val
	}
	return UNDEFINED
}

func (m *Map) OwnKeys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// MatcherFunc is the extractor customization hook: it receives the candidate
// value and reports whether the extractor accepts it, and against which value
// structural matching should continue.
type MatcherFunc func(value Object) (ExtractorOutcome, error)

// StructSchema is a nominal type marker. It doubles as an extractor
// reference: with a Matcher hook it customizes matching, without one the
// dispatcher falls back to an is-instance-of check against the schema.
type StructSchema struct {
	Name    string
	Fields  []string
	Matcher MatcherFunc
}

func (s *StructSchema) Type() ObjectType { return STRUCT_SCHEMA_OBJ }
func (s *StructSchema) Inspect() string {
	var out bytes.Buffer
	out.WriteString(s.Name)
	out.WriteString(" struct {")
	out.WriteString(strings.Join(s.Fields, ", "))
	out.WriteString("}")
	return out.String()
}

type StructValue struct {
	Schema *StructSchema
	Fields *Map
}

func (s *StructValue) Type() ObjectType { return STRUCT_OBJ }
func (s *StructValue) Inspect() string {
	name := "struct"
	if s.Schema != nil && s.Schema.Name != "" {
		name = s.Schema.Name
	}
	return name + " " + s.Fields.Inspect()
}

func (s *StructValue) HasProperty(key string) bool   { return s.Fields.HasProperty(key) }
func (s *StructValue) GetProperty(key string) Object { return s.Fields.GetProperty(key) }
func (s *StructValue) OwnKeys() []string             { return s.Fields.OwnKeys() }

// NewStruct builds an instance of schema with fields in declaration order.
func NewStruct(schema *StructSchema, values ...Object) *StructValue {
	fields := NewMap()
	for i, name := range schema.Fields {
		if i < len(values) {
			fields.Put(name, values[i])
		} else {
			fields.Put(name, UNDEFINED)
		}
	}
	return &StructValue{Schema: schema, Fields: fields}
}

// MatchResult is the value produced by a successful regexp pattern: list-like
// over the whole match and its numbered capture groups, and structured with
// the named captures under "groups" plus "index" and "input".
type MatchResult struct {
	Submatches []Object // index 0 is the whole match; UNDEFINED for non-participating groups
	Groups     *Map     // named captures
	Index      int      // byte offset of the whole match
	Input      string
}

func (m *MatchResult) Type() ObjectType { return MATCH_RESULT_OBJ }
func (m *MatchResult) Inspect() string {
	var out bytes.Buffer
	parts := []string{}
	for _, s := range m.Submatches {
		parts = append(parts, s.Inspect())
	}
	out.WriteString("match[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

func (m *MatchResult) Len() int { return len(m.Submatches) }
func (m *MatchResult) At(index int) Object {
	if index < 0 || index >= len(m.Submatches) {
		return UNDEFINED
	}
	return m.Submatches[index]
}

func (m *MatchResult) HasProperty(key string) bool {
	return key == "groups" || key == "index" || key == "input"
}

func (m *MatchResult) GetProperty(key string) Object {
	switch key {
	case "groups":
		return m.Groups
	case "index":
		return &Number{Value: float64(m.Index)}
	case "input":
		return &String{Value: m.Input}
	}
	return UNDEFINED
}

func (m *MatchResult) OwnKeys() []string {
	return []string{"groups", "index", "input"}
}

type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Message }

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Truthy interprets a guard result: false, null, undefined and unbound are
// falsy, everything else is truthy.
func Truthy(obj Object) bool {
	switch obj {
	case NIL, UNDEFINED, UNBOUND, FALSE:
		return false
	case TRUE:
		return true
	}
	if b, ok := obj.(*Boolean); ok {
		return b.Value
	}
	return obj != nil
}

// Equals is the strict, type-discriminating equality literal patterns use.
// Null equals only null; undefined equals only undefined.
func Equals(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}

	switch aVal := a.(type) {
	case *Nil, *Undefined, *Unbound:
		return true

	case *Boolean:
		return aVal.Value == b.(*Boolean).Value

	case *Number:
		return aVal.Value == b.(*Number).Value

	case *String:
		return aVal.Value == b.(*String).Value

	case *List:
		bList := b.(*List)
		if len(aVal.Elements) != len(bList.Elements) {
			return false
		}
		for i, elem := range aVal.Elements {
			if !Equals(elem, bList.Elements[i]) {
				return false
			}
		}
		return true

	case *Map:
		bMap := b.(*Map)
		if aVal.Len() != bMap.Len() {
			return false
		}
		for _, k := range aVal.keys {
			bv, ok := bMap.Get(k)
			if !ok || !Equals(aVal.pairs[k], bv) {
				return false
			}
		}
		return true
	}

	// Structs, schemas and match results compare by identity.
	return a == b
}
