package nodeedit

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Value is the result of parsing edited text.
type Value struct {
	raw  []byte
	kind Kind

	// Coerced is true when the text was not valid JSON and the value was
	// derived from the node's declared type instead.
	Coerced bool
	// NumberFallback is true when a number was expected but the text was not
	// a finite number, so the text was kept as a string.
	NumberFallback bool
}

// JSON returns the JSON encoding of the value.
func (v Value) JSON() []byte {
	if len(v.raw) == 0 {
		return []byte("null")
	}
	return v.raw
}

// Kind returns the JSON type of the value.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// Interface decodes the value into Go types: map[string]any, []any, string,
// float64, bool or nil.
func (v Value) Interface() any {
	var out any
	if err := json.Unmarshal(v.JSON(), &out, jsontext.AllowDuplicateNames(true), jsontext.AllowInvalidUTF8(true)); err != nil {
		return nil
	}
	return out
}

func (v Value) String() string { return string(v.JSON()) }

// ParseEdit converts edited text back into a value. Valid JSON always wins;
// otherwise the text is coerced according to original, the declared type of
// the node's first row ("" when unknown). ParseEdit never fails.
func ParseEdit(text string, original Kind) Value {
	if v, ok := parseStrict(text); ok {
		return v
	}
	return coerce(text, original)
}

func parseStrict(text string) (Value, bool) {
	var probe any
	if err := json.Unmarshal([]byte(text), &probe, jsontext.AllowDuplicateNames(true)); err != nil {
		return Value{}, false
	}
	raw := []byte(strings.TrimSpace(text))
	return Value{raw: raw, kind: kindOfRaw(raw)}, true
}

func coerce(text string, original Kind) Value {
	switch original {
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			v := stringValue(text)
			v.NumberFallback = true
			return v
		}
		return Value{raw: marshal(f), kind: KindNumber, Coerced: true}
	case KindBoolean:
		return Value{raw: marshal(text == "true"), kind: KindBoolean, Coerced: true}
	case KindNull:
		return Value{raw: []byte("null"), kind: KindNull, Coerced: true}
	default:
		return stringValue(text)
	}
}

func stringValue(text string) Value {
	return Value{raw: marshal(text), kind: KindString, Coerced: true}
}

func marshal(v any) []byte {
	b, err := json.Marshal(v, jsontext.AllowInvalidUTF8(true))
	if err != nil {
		return []byte("null")
	}
	return b
}

func kindOfRaw(raw []byte) Kind {
	if len(raw) == 0 {
		return KindNull
	}
	switch raw[0] {
	case '{':
		return KindObject
	case '[':
		return KindArray
	case '"':
		return KindString
	case 't', 'f':
		return KindBoolean
	case 'n':
		return KindNull
	default:
		return KindNumber
	}
}

// ValueOf wraps an arbitrary Go value. It is used for values that did not
// come from edited text.
func ValueOf(x any) (Value, error) {
	b, err := json.Marshal(x, jsontext.AllowInvalidUTF8(true))
	if err != nil {
		return Value{}, err
	}
	b = bytes.TrimSpace(b)
	return Value{raw: b, kind: kindOfRaw(b)}, nil
}
