package object

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FromJSON decodes one JSON document into the value model. Object key order
// is preserved, which is why this walks decoder tokens instead of
// unmarshalling into a Go map.
func FromJSON(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	obj, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Put(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			list := &List{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list.Elements = append(list.Elements, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)

	case string:
		return &String{Value: t}, nil

	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return &Number{Value: f}, nil

	case bool:
		return NativeBoolToBooleanObject(t), nil

	case nil:
		return NIL, nil
	}

	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// ToJSON renders a value as JSON, preserving map key order. Undefined and
// unbound render as null; match results render as their submatch array.
func ToJSON(obj Object) ([]byte, error) {
	var out bytes.Buffer
	if err := encodeValue(&out, obj); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func encodeValue(out *bytes.Buffer, obj Object) error {
	switch o := obj.(type) {
	case nil, *Nil, *Undefined, *Unbound:
		out.WriteString("null")

	case *Boolean:
		out.WriteString(strconv.FormatBool(o.Value))

	case *Number:
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			out.WriteString("null")
			return nil
		}
		out.WriteString(strconv.FormatFloat(o.Value, 'g', -1, 64))

	case *String:
		return encodeString(out, o.Value)

	case *List:
		out.WriteByte('[')
		for i, elem := range o.Elements {
			if i > 0 {
				out.WriteByte(',')
			}
			if err := encodeValue(out, elem); err != nil {
				return err
			}
		}
		out.WriteByte(']')

	case *Map:
		out.WriteByte('{')
		for i, key := range o.keys {
			if i > 0 {
				out.WriteByte(',')
			}
			if err := encodeString(out, key); err != nil {
				return err
			}
			out.WriteByte(':')
			if err := encodeValue(out, o.pairs[key]); err != nil {
				return err
			}
		}
		out.WriteByte('}')

	case *StructValue:
		return encodeValue(out, o.Fields)

	case *MatchResult:
		return encodeValue(out, &List{Elements: o.Submatches})

	default:
		return encodeString(out, obj.Inspect())
	}
	return nil
}

func encodeString(out *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	out.Write(quoted)
	return nil
}
