package object

import (
	"math"
	"testing"
)

func TestFromJSONPreservesKeyOrder(t *testing.T) {
	obj, err := FromJSON([]byte(`{"z": 1, "a": {"m": null, "b": [true, "x"]}, "k": 2.5}`))
	if err != nil {
		t.Fatal(err)
	}

	m, ok := obj.(*Map)
	if !ok {
		t.Fatalf("expected *Map, got %T", obj)
	}
	keys := m.OwnKeys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" || keys[2] != "k" {
		t.Fatalf("key order lost: %v", keys)
	}

	inner := m.GetProperty("a").(*Map)
	innerKeys := inner.OwnKeys()
	if innerKeys[0] != "m" || innerKeys[1] != "b" {
		t.Errorf("nested key order lost: %v", innerKeys)
	}
	if inner.GetProperty("m") != NIL {
		t.Error("JSON null must decode to the null object")
	}
}

func TestFromJSONScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`42`, "42"},
		{`-0.25`, "-0.25"},
		{`"hi"`, `"hi"`},
		{`true`, "true"},
		{`null`, "null"},
		{`[]`, "[]"},
	}
	for _, tt := range tests {
		obj, err := FromJSON([]byte(tt.input))
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", tt.input, err)
		}
		if obj.Inspect() != tt.expected {
			t.Errorf("FromJSON(%q): expected=%s, got=%s", tt.input, tt.expected, obj.Inspect())
		}
	}

	if _, err := FromJSON([]byte(`{broken`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestToJSON(t *testing.T) {
	m := NewMap()
	m.Put("z", &Number{Value: 1})
	m.Put("a", &List{Elements: []Object{NIL, UNDEFINED, TRUE}})
	m.Put("s", &String{Value: `quote "me"`})

	data, err := ToJSON(m)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"z":1,"a":[null,null,true],"s":"quote \"me\""}`
	if string(data) != expected {
		t.Errorf("wrong JSON.\nexpected=%s\ngot=     %s", expected, string(data))
	}
}

func TestToJSONSpecialNumbers(t *testing.T) {
	data, err := ToJSON(&Number{Value: math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "null" {
		t.Errorf("NaN must render as null, got %s", string(data))
	}
}

func TestToJSONStructAndBindings(t *testing.T) {
	schema := &StructSchema{Name: "Point", Fields: []string{"x", "y"}}
	p := NewStruct(schema, &Number{Value: 3}, &Number{Value: 4})

	data, err := ToJSON(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"x":3,"y":4}` {
		t.Errorf("struct JSON wrong: %s", string(data))
	}

	b := NewBindings()
	b.Bind("p", p)
	b.Bind("tag", UNBOUND)
	data, err = ToJSON(b.ToMap())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"p":{"x":3,"y":4},"tag":null}` {
		t.Errorf("bindings JSON wrong: %s", string(data))
	}
}
