package nodeedit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/gjson"
)

// Segment models one path step: either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns an object-key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path locates a node from the document root.
type Path []Segment

// Root is the path of the top-level value.
var Root = Path{}

// FormatPath renders p as a bracket path: $["customer"][0]["name"].
func FormatPath(p Path) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		b.WriteByte('[')
		if seg.IsIndex {
			b.WriteString(strconv.Itoa(seg.Index))
		} else {
			b.Write(quoteKey(seg.Key))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func quoteKey(k string) []byte {
	b, err := json.Marshal(k, jsontext.AllowInvalidUTF8(true))
	if err != nil {
		return []byte(strconv.Quote(k))
	}
	return b
}

// String implements fmt.Stringer using FormatPath.
func (p Path) String() string { return FormatPath(p) }

// Pointer renders p as an RFC 6901 JSON Pointer ("" for the root).
func (p Path) Pointer() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg.IsIndex {
			b.WriteString(strconv.Itoa(seg.Index))
			continue
		}
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// ParsePointer splits an RFC 6901 JSON Pointer into unescaped tokens.
// Both "" and "/" denote the root.
func ParsePointer(p string) ([]string, error) {
	if p == "" || p == "/" {
		return []string{}, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("nodeedit: JSON Pointer must start with '/': %q", p)
	}
	parts := strings.Split(p, "/")[1:]
	toks := make([]string, 0, len(parts))
	for _, s := range parts {
		toks = append(toks, strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~"))
	}
	return toks, nil
}

// ResolvePointer converts a JSON Pointer into a typed Path by walking doc:
// a numeric token addressing an array becomes an index, anything else a key.
// doc may contain comments and trailing commas.
func ResolvePointer(doc, pointer string) (Path, error) {
	toks, err := ParsePointer(pointer)
	if err != nil {
		return nil, err
	}
	clean, err := stripComments(doc)
	if err != nil {
		return nil, err
	}
	path := make(Path, 0, len(toks))
	cur := gjson.Parse(clean)
	for _, tok := range toks {
		var seg Segment
		switch {
		case cur.IsArray():
			i, convErr := strconv.Atoi(tok)
			if convErr != nil || i < 0 {
				return nil, fmt.Errorf("nodeedit: %q is not an array index at %s: %w", tok, FormatPath(path), ErrPathNotFound)
			}
			seg = Index(i)
		case cur.IsObject():
			seg = Key(tok)
		default:
			return nil, fmt.Errorf("nodeedit: cannot descend into scalar at %s: %w", FormatPath(path), ErrPathNotFound)
		}
		path = append(path, seg)
		cur, err = lookup(clean, path)
		if err != nil {
			return nil, err
		}
	}
	return path, nil
}

// gjsonPath renders p in gjson path syntax. Keys are escaped so that dots,
// wildcards, modifiers and query characters are taken literally.
func gjsonPath(p Path) (string, error) {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.IsIndex {
			if seg.Index < 0 {
				return "", fmt.Errorf("nodeedit: negative index %d: %w", seg.Index, ErrPathNotFound)
			}
			parts[i] = strconv.Itoa(seg.Index)
			continue
		}
		if seg.Key == "" {
			return "", ErrUnsupportedPath
		}
		parts[i] = escapeKey(seg.Key)
	}
	return strings.Join(parts, "."), nil
}

func escapeKey(k string) string {
	needsEscape := false
	for i := 0; i < len(k); i++ {
		if shouldEscapeKeyChar(k[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return k
	}
	var b strings.Builder
	b.Grow(len(k) * 2)
	for i := 0; i < len(k); i++ {
		if shouldEscapeKeyChar(k[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(k[i])
	}
	return b.String()
}

// gjson takes any escaped byte literally, so over-escaping is harmless.
func shouldEscapeKeyChar(c byte) bool {
	switch c {
	case '\\', '.', ':', '|', '@', '*', '?', '#', ',', '(', ')', '=', '!', '<', '>', '~', '%', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

var (
	// ErrPathNotFound is returned when a path does not address a value in the document.
	ErrPathNotFound = errors.New("nodeedit: path not found")
	// ErrUnsupportedPath is returned for paths the locator cannot address (empty object keys).
	ErrUnsupportedPath = errors.New("nodeedit: empty object keys are not addressable")
)
