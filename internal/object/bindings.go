package object

import (
	"bytes"
	"strings"
)

// Bindings is the environment a clause accumulates while matching: an
// ordered mapping from variable name to value (or UNBOUND). A clause attempt
// owns exactly one Bindings; on failure the whole environment is discarded,
// so callers never observe a partially-applied one.
type Bindings struct {
	names  []string
	values map[string]Object
}

func NewBindings() *Bindings {
	return &Bindings{values: make(map[string]Object)}
}

// Bind maps name to val. Rebinding overwrites the previous value and keeps
// the original position in the name order.
func (b *Bindings) Bind(name string, val Object) {
	if _, exists := b.values[name]; !exists {
		b.names = append(b.names, name)
	}
	b.values[name] = val
}

// Merge folds other into b; on a name collision other's value wins.
func (b *Bindings) Merge(other *Bindings) {
	for _, name := range other.names {
		b.Bind(name, other.values[name])
	}
}

// WithUnbound adds each name mapped to UNBOUND unless it is already present,
// so guards and bodies can reference a name bound only in a sibling
// alternative without failing.
func (b *Bindings) WithUnbound(names []string) {
	for _, name := range names {
		if _, exists := b.values[name]; !exists {
			b.Bind(name, UNBOUND)
		}
	}
}

// Get returns the bound value. A name set to UNBOUND reports ok with the
// UNBOUND sentinel; an unknown name reports !ok.
func (b *Bindings) Get(name string) (Object, bool) {
	val, ok := b.values[name]
	return val, ok
}

// Lookup is Get with UNDEFINED for unknown names, the shape guard callbacks
// usually want.
func (b *Bindings) Lookup(name string) Object {
	if val, ok := b.values[name]; ok {
		return val
	}
	return UNDEFINED
}

func (b *Bindings) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

func (b *Bindings) Len() int { return len(b.names) }

// ToMap copies the bindings into a structured value, e.g. for rendering.
func (b *Bindings) ToMap() *Map {
	m := NewMap()
	for _, name := range b.names {
		m.Put(name, b.values[name])
	}
	return m
}

func (b *Bindings) Inspect() string {
	var out bytes.Buffer
	parts := []string{}
	for _, name := range b.names {
		parts = append(parts, name+"="+b.values[name].Inspect())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}
