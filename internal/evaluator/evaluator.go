package evaluator

import (
	"fmt"

	"patma/internal/ast"
	"patma/internal/object"
)

// Guard decides whether a structurally matched clause is taken. It sees the
// clause bindings and returns a value interpreted through object.Truthy.
type Guard func(env *object.Bindings) (object.Object, error)

// Body produces the clause result once the clause is selected.
type Body func(env *object.Bindings) (object.Object, error)

// Clause pairs a pattern with an optional guard and a body. Clauses are
// tried strictly in order and at most one body runs per evaluation.
type Clause struct {
	Pattern ast.Pattern
	Guard   Guard
	Body    Body
}

// MatchError reports that no clause accepted the input value.
type MatchError struct {
	Value object.Object
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("no pattern matched value %s", e.Value.Inspect())
}

// Evaluator resolves extractor references against a registry of schemas.
// The zero registry is valid; patterns without extractors never consult it.
type Evaluator struct {
	extractors map[string]*object.StructSchema
}

func New() *Evaluator {
	return &Evaluator{extractors: make(map[string]*object.StructSchema)}
}

// Register makes schema available to extractor patterns under schema.Name.
func (e *Evaluator) Register(schema *object.StructSchema) {
	e.extractors[schema.Name] = schema
}

// Evaluate tries each clause against value in order. The first clause whose
// pattern matches and whose guard passes supplies the result. A failed
// clause leaves no trace: its bindings are discarded wholesale and the next
// clause starts from an empty environment. Guard and body errors abort the
// evaluation immediately; no later clause is consulted.
func (e *Evaluator) Evaluate(value object.Object, clauses []Clause) (object.Object, error) {
	for _, clause := range clauses {
		env, ok, err := e.Match(clause.Pattern, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if clause.Guard != nil {
			verdict, err := clause.Guard(env)
			if err != nil {
				return nil, err
			}
			if !object.Truthy(verdict) {
				continue
			}
		}

		if clause.Body == nil {
			return object.UNDEFINED, nil
		}
		return clause.Body(env)
	}
	return nil, &MatchError{Value: value}
}

// Match runs a single pattern against value in a fresh environment. On
// success the returned bindings are complete; on failure they are nil.
func (e *Evaluator) Match(pat ast.Pattern, value object.Object) (*object.Bindings, bool, error) {
	env := object.NewBindings()
	ok, err := e.matchPattern(pat, value, env)
	if err != nil || !ok {
		return nil, false, err
	}
	return env, true, nil
}

// CheckClauses validates every extractor reference in clauses against the
// registry, so a rules file with a typo fails before any input is consumed.
func (e *Evaluator) CheckClauses(clauses []Clause) error {
	for i, clause := range clauses {
		for _, name := range ast.ExtractorNames(clause.Pattern) {
			if _, ok := e.extractors[name]; !ok {
				return fmt.Errorf("clause %d: unknown extractor %q", i, name)
			}
		}
	}
	return nil
}

func (e *Evaluator) matchPattern(pat ast.Pattern, value object.Object, env *object.Bindings) (bool, error) {
	switch node := pat.(type) {
	case *ast.Literal:
		return object.Equals(node.Value, value), nil

	case *ast.Variable:
		env.Bind(node.Name, value)
		return true, nil

	case *ast.ObjectPattern:
		return e.matchObjectPattern(node, value, env)

	case *ast.ArrayPattern:
		return e.matchArrayPattern(node, value, env)

	case *ast.RegExpPattern:
		return e.matchRegExpPattern(node, value, env)

	case *ast.Or:
		return e.matchOrPattern(node, value, env)

	case *ast.And:
		return e.matchAndPattern(node, value, env)

	case *ast.Extractor:
		return e.matchExtractorPattern(node, value, env)
	}

	return false, fmt.Errorf("unsupported pattern node %T", pat)
}

func (e *Evaluator) matchObjectPattern(pat *ast.ObjectPattern, value object.Object, env *object.Bindings) (bool, error) {
	structured, ok := value.(object.Structured)
	if !ok {
		return false, nil
	}

	for _, entry := range pat.Entries {
		if !structured.HasProperty(entry.Key) {
			return false, nil
		}
		matched, err := e.matchPattern(entry.Pattern, structured.GetProperty(entry.Key), env)
		if err != nil || !matched {
			return matched, err
		}
	}

	if pat.Rest != "" {
		consumed := make(map[string]bool, len(pat.Entries))
		for _, entry := range pat.Entries {
			consumed[entry.Key] = true
		}
		rest := object.NewMap()
		for _, key := range structured.OwnKeys() {
			if !consumed[key] {
				rest.Put(key, structured.GetProperty(key))
			}
		}
		env.Bind(pat.Rest, rest)
	}

	return true, nil
}

func (e *Evaluator) matchArrayPattern(pat *ast.ArrayPattern, value object.Object, env *object.Bindings) (bool, error) {
	list, ok := value.(object.ListLike)
	if !ok {
		return false, nil
	}

	if pat.Rest == nil {
		if list.Len() != len(pat.Elements) {
			return false, nil
		}
	} else if list.Len() < len(pat.Elements) {
		return false, nil
	}

	for i, elem := range pat.Elements {
		matched, err := e.matchPattern(elem, list.At(i), env)
		if err != nil || !matched {
			return matched, err
		}
	}

	if pat.Rest != nil {
		rest := &object.List{}
		for i := len(pat.Elements); i < list.Len(); i++ {
			rest.Elements = append(rest.Elements, list.At(i))
		}
		return e.matchPattern(pat.Rest, rest, env)
	}

	return true, nil
}

func (e *Evaluator) matchRegExpPattern(pat *ast.RegExpPattern, value object.Object, env *object.Bindings) (bool, error) {
	str, ok := value.(*object.String)
	if !ok {
		return false, nil
	}

	loc := pat.Regex.FindStringSubmatchIndex(str.Value)
	if loc == nil {
		return false, nil
	}

	if pat.Sub == nil {
		return true, nil
	}

	result := &object.MatchResult{
		Groups: object.NewMap(),
		Index:  loc[0],
		Input:  str.Value,
	}
	names := pat.Regex.SubexpNames()
	for i := 0; i*2 < len(loc); i++ {
		var sub object.Object = object.UNDEFINED
		if loc[i*2] >= 0 {
			sub = &object.String{Value: str.Value[loc[i*2]:loc[i*2+1]]}
		}
		result.Submatches = append(result.Submatches, sub)
		if i < len(names) && names[i] != "" {
			result.Groups.Put(names[i], sub)
		}
	}

	return e.matchPattern(pat.Sub, result, env)
}

// matchOrPattern tries each alternative in a scratch environment so a
// failing branch leaves env untouched. After the first success every name
// any alternative can bind is forced present, mapped to the unbound sentinel
// when the winning branch did not produce it.
func (e *Evaluator) matchOrPattern(pat *ast.Or, value object.Object, env *object.Bindings) (bool, error) {
	for _, alt := range pat.Alternatives {
		scratch := object.NewBindings()
		matched, err := e.matchPattern(alt, value, scratch)
		if err != nil {
			return false, err
		}
		if matched {
			env.Merge(scratch)
			env.WithUnbound(pat.BoundNames())
			return true, nil
		}
	}
	return false, nil
}

// matchAndPattern matches every conjunct against the same original value,
// never against anything a previous conjunct produced. Conjunct bindings
// merge in order, so a name bound twice takes its value from the last
// conjunct that bound it.
func (e *Evaluator) matchAndPattern(pat *ast.And, value object.Object, env *object.Bindings) (bool, error) {
	merged := object.NewBindings()
	for _, conjunct := range pat.Conjuncts {
		scratch := object.NewBindings()
		matched, err := e.matchPattern(conjunct, value, scratch)
		if err != nil || !matched {
			return matched, err
		}
		merged.Merge(scratch)
	}
	env.Merge(merged)
	return true, nil
}

func (e *Evaluator) matchExtractorPattern(pat *ast.Extractor, value object.Object, env *object.Bindings) (bool, error) {
	schema, ok := e.extractors[pat.Name]
	if !ok {
		return false, fmt.Errorf("unknown extractor %q", pat.Name)
	}

	if schema.Matcher != nil {
		outcome, err := schema.Matcher(value)
		if err != nil {
			return false, err
		}
		if !outcome.Accepted() {
			return false, nil
		}
		return e.matchPattern(pat.Inner, outcome.Value(value), env)
	}

	// No hook: fall back to a nominal is-instance-of check.
	sv, ok := value.(*object.StructValue)
	if !ok || sv.Schema != schema {
		return false, nil
	}
	return e.matchPattern(pat.Inner, value, env)
}
