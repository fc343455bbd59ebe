package ast

import (
	"regexp"
	"testing"

	"patma/internal/object"
)

func TestExtractorNames(t *testing.T) {
	pat := &Or{Alternatives: []Pattern{
		&Extractor{Name: "Point", Inner: &ObjectPattern{
			Entries: []ObjectEntry{
				{Key: "x", Pattern: &Extractor{Name: "Even", Inner: &Variable{Name: "x"}}},
			},
		}},
		&ArrayPattern{Elements: []Pattern{
			&Extractor{Name: "Point", Inner: &Variable{Name: "p"}},
		}},
	}}

	names := ExtractorNames(pat)
	if len(names) != 2 || names[0] != "Point" || names[1] != "Even" {
		t.Errorf("wrong extractor names: %v", names)
	}
	if ExtractorNames(&Literal{Value: object.NIL}) != nil {
		t.Error("a literal references no extractors")
	}
}

func TestBoundNamesDeduplicate(t *testing.T) {
	pat := &And{Conjuncts: []Pattern{
		&Variable{Name: "v"},
		&ObjectPattern{
			Entries: []ObjectEntry{{Key: "a", Pattern: &Variable{Name: "v"}}},
			Rest:    "rest",
		},
	}}
	names := pat.BoundNames()
	if len(names) != 2 || names[0] != "v" || names[1] != "rest" {
		t.Errorf("wrong bound names: %v", names)
	}
}

func TestRegExpPatternString(t *testing.T) {
	pat := &RegExpPattern{Regex: regexp.MustCompile(`api/v(\d+)`)}
	if pat.String() != `/api\/v(\d+)/` {
		t.Errorf("slashes must be re-escaped: %s", pat.String())
	}
}
