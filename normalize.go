package nodeedit

import (
	"bytes"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Normalize renders a node's rows as editable text.
//
// No rows give "{}". A single keyless row is the node itself and renders as
// the bare value. Otherwise the keyed, non-container rows are written as a
// JSON object with 2-space indentation, in row order. Nested arrays and
// objects are left out; they are separate nodes.
func Normalize(rows []Row) string {
	if len(rows) == 0 {
		return "{}"
	}
	if len(rows) == 1 && !rows[0].Keyed {
		return plainText(rows[0].Value)
	}

	type entry struct {
		key   string
		value any
	}
	var fields []entry
	pos := map[string]int{}
	for _, r := range rows {
		if !r.Keyed || r.Kind.IsContainer() {
			continue
		}
		if i, ok := pos[r.Key]; ok {
			fields[i].value = r.Value
			continue
		}
		pos[r.Key] = len(fields)
		fields = append(fields, entry{key: r.Key, value: r.Value})
	}
	if len(fields) == 0 {
		return "{}"
	}

	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent("  "), jsontext.AllowInvalidUTF8(true))
	err := enc.WriteToken(jsontext.ObjectStart)
	for _, f := range fields {
		if err != nil {
			break
		}
		if err = enc.WriteToken(jsontext.String(f.key)); err == nil {
			err = json.MarshalEncode(enc, f.value)
		}
	}
	if err == nil {
		err = enc.WriteToken(jsontext.ObjectEnd)
	}
	if err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// plainText mirrors how a scalar prints in the graph: strings as-is, other
// values in their JSON form.
func plainText(v any) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case string:
		return vv
	case fmt.Stringer:
		return vv.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
