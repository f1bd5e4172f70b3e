package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ValueKind discriminates the variants of a property Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a schema-free property value. It is a tagged variant over the
// JSON-compatible kinds instead of a dynamically-typed bag, so property
// contents stay type-checked while the store treats them as opaque.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
	Obj  Properties
}

func NullValue() Value            { return Value{Kind: KindNull} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func ListValue(vs ...Value) Value { return Value{Kind: KindList, List: vs} }
func MapValue(p Properties) Value { return Value{Kind: KindMap, Obj: p} }

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.Obj.Equal(o.Obj)
	}
	return false
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindMap:
		return v.Obj.MarshalJSON()
	}
	return nil, errors.Errorf("unknown value kind %d", v.Kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Property is one key/value entry of a property bag.
type Property struct {
	Key   string
	Value Value
}

// Properties is an ordered string→Value mapping. Insertion order is
// preserved through JSON round-trips.
type Properties []Property

// Get returns the value for key and whether it is present.
func (p Properties) Get(key string) (Value, bool) {
	for _, entry := range p {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// GetString returns the string value for key, or "" when absent or not a string.
func (p Properties) GetString(key string) string {
	if v, ok := p.Get(key); ok && v.Kind == KindString {
		return v.Str
	}
	return ""
}

// Set replaces the value for key in place, appending when absent.
func (p *Properties) Set(key string, value Value) {
	for i, entry := range *p {
		if entry.Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Delete removes key, preserving the order of the remaining entries.
func (p *Properties) Delete(key string) {
	for i, entry := range *p {
		if entry.Key == key {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return
		}
	}
}

// Equal reports whether two property bags have identical entries in
// identical order.
func (p Properties) Equal(o Properties) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Key != o[i].Key || !p[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := entry.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("properties must be a JSON object")
	}
	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// decodeValue consumes one JSON value from the decoder.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		n, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "invalid number %q", t.String())
		}
		return NumberValue(n), nil
	case json.Delim:
		switch t {
		case '[':
			list := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				list = append(list, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Value{Kind: KindList, List: list}, nil
		case '{':
			obj, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return MapValue(obj), nil
		}
	}
	return Value{}, errors.Errorf("unexpected JSON token %v", tok)
}

// decodeObject consumes object members after the opening brace, including
// the closing brace.
func decodeObject(dec *json.Decoder) (Properties, error) {
	props := Properties{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return props, nil
}
