package ast

import (
	"bytes"
	"regexp"
	"strings"

	"patma/internal/object"
)

// Pattern is one immutable node of a pattern tree. Trees are built once per
// match expression (by the parser or by hand) and never mutated afterwards.
type Pattern interface {
	patternNode()
	String() string
	// BoundNames lists every variable name the pattern can bind, in
	// first-appearance order. It is a static property of the pattern shape,
	// independent of any input value.
	BoundNames() []string
}

// Literal matches by strict equality against a constant.
type Literal struct {
	Value object.Object // Nil, Undefined, Boolean, Number or String
}

func (l *Literal) patternNode()         {}
func (l *Literal) String() string       { return l.Value.Inspect() }
func (l *Literal) BoundNames() []string { return nil }

// Variable matches anything and binds the value under Name.
type Variable struct {
	Name string
}

func (v *Variable) patternNode()         {}
func (v *Variable) String() string       { return v.Name }
func (v *Variable) BoundNames() []string { return []string{v.Name} }

type ObjectEntry struct {
	Key     string
	Pattern Pattern
}

// ObjectPattern destructures a structured value. Every entry key must be
// present on the value; extra properties are ignored. Rest, when set, names
// a binding target only - it is never a nested pattern, a constraint the
// parser enforces before the engine ever runs.
type ObjectPattern struct {
	Entries []ObjectEntry
	Rest    string
}

func (o *ObjectPattern) patternNode() {}
func (o *ObjectPattern) String() string {
	var out bytes.Buffer
	parts := []string{}
	for _, entry := range o.Entries {
		if v, ok := entry.Pattern.(*Variable); ok && v.Name == entry.Key {
			parts = append(parts, entry.Key)
			continue
		}
		parts = append(parts, entry.Key+": "+entry.Pattern.String())
	}
	if o.Rest != "" {
		parts = append(parts, "..."+o.Rest)
	}
	out.WriteString("{")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}
func (o *ObjectPattern) BoundNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, entry := range o.Entries {
		names = appendNames(names, seen, entry.Pattern.BoundNames())
	}
	if o.Rest != "" {
		names = appendNames(names, seen, []string{o.Rest})
	}
	return names
}

// ArrayPattern destructures a list-like value positionally. Without Rest the
// length must equal the element count exactly; with Rest the trailing
// elements are collected into a fresh list and matched against Rest.
type ArrayPattern struct {
	Elements []Pattern
	Rest     Pattern
}

func (a *ArrayPattern) patternNode() {}
func (a *ArrayPattern) String() string {
	var out bytes.Buffer
	parts := []string{}
	for _, elem := range a.Elements {
		parts = append(parts, elem.String())
	}
	if a.Rest != nil {
		parts = append(parts, "..."+a.Rest.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}
func (a *ArrayPattern) BoundNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, elem := range a.Elements {
		names = appendNames(names, seen, elem.BoundNames())
	}
	if a.Rest != nil {
		names = appendNames(names, seen, a.Rest.BoundNames())
	}
	return names
}

// RegExpPattern matches text against a regular expression compiled once at
// construction. On success the match result (whole match, numbered groups,
// named groups) can be destructured further by Sub.
type RegExpPattern struct {
	Regex *regexp.Regexp
	Sub   Pattern
}

func (r *RegExpPattern) patternNode() {}
func (r *RegExpPattern) String() string {
	src := "/" + strings.ReplaceAll(r.Regex.String(), "/", `\/`) + "/"
	if r.Sub != nil {
		return src + " (" + r.Sub.String() + ")"
	}
	return src
}
func (r *RegExpPattern) BoundNames() []string {
	if r.Sub == nil {
		return nil
	}
	return r.Sub.BoundNames()
}

// Or tries its alternatives in declared order; the first success wins.
type Or struct {
	Alternatives []Pattern // non-empty
}

func (o *Or) patternNode() {}
func (o *Or) String() string {
	parts := []string{}
	for _, alt := range o.Alternatives {
		parts = append(parts, alt.String())
	}
	return "(" + strings.Join(parts, " || ") + ")"
}
func (o *Or) BoundNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, alt := range o.Alternatives {
		names = appendNames(names, seen, alt.BoundNames())
	}
	return names
}

// And matches every conjunct against the same input value.
type And struct {
	Conjuncts []Pattern // non-empty
}

func (a *And) patternNode() {}
func (a *And) String() string {
	parts := []string{}
	for _, c := range a.Conjuncts {
		parts = append(parts, c.String())
	}
	return "(" + strings.Join(parts, " && ") + ")"
}
func (a *And) BoundNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range a.Conjuncts {
		names = appendNames(names, seen, c.BoundNames())
	}
	return names
}

// Extractor wraps Inner with a customization hook. Name is resolved against
// the evaluator's extractor registry when the clause runs.
type Extractor struct {
	Name  string
	Inner Pattern
}

func (e *Extractor) patternNode() {}
func (e *Extractor) String() string {
	return e.Name + "(" + e.Inner.String() + ")"
}
func (e *Extractor) BoundNames() []string { return e.Inner.BoundNames() }

// ExtractorNames walks pat and collects every extractor reference it uses,
// deduplicated in first-appearance order.
func ExtractorNames(pat Pattern) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch node := p.(type) {
		case *ObjectPattern:
			for _, entry := range node.Entries {
				walk(entry.Pattern)
			}
		case *ArrayPattern:
			for _, elem := range node.Elements {
				walk(elem)
			}
			if node.Rest != nil {
				walk(node.Rest)
			}
		case *RegExpPattern:
			if node.Sub != nil {
				walk(node.Sub)
			}
		case *Or:
			for _, alt := range node.Alternatives {
				walk(alt)
			}
		case *And:
			for _, c := range node.Conjuncts {
				walk(c)
			}
		case *Extractor:
			names = appendNames(names, seen, []string{node.Name})
			walk(node.Inner)
		}
	}
	walk(pat)
	return names
}

func appendNames(dst []string, seen map[string]bool, src []string) []string {
	for _, name := range src {
		if !seen[name] {
			seen[name] = true
			dst = append(dst, name)
		}
	}
	return dst
}
