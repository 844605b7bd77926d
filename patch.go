package nodeedit

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
)

var (
	// ErrMalformedDocument is returned when the document text is not JSON (comments and trailing commas allowed).
	ErrMalformedDocument = errors.New("nodeedit: malformed document")
	// ErrUnresolvedPath is returned for a nil Path. Use Root for the top-level value.
	ErrUnresolvedPath = errors.New("nodeedit: unresolved path")
	// ErrVerifyFailed is returned when the patched text does not match the intended change.
	ErrVerifyFailed = errors.New("nodeedit: patched document does not match the requested change")
)

// PatchError reports a failed node edit.
type PatchError struct {
	Path Path
	Err  error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("nodeedit: patch at %s: %v", FormatPath(e.Path), e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }

// Edit is a single text replacement: Length bytes at Offset become Content.
type Edit struct {
	Offset  int
	Length  int
	Content string
}

// PatchOptions control how new values are written.
type PatchOptions struct {
	// Indent is the per-level indentation of inserted structure. Default two spaces.
	Indent string
	// DetectIndent takes the indentation from the document being edited
	// (see DetectIndent) instead of Indent.
	DetectIndent bool
	// SkipVerify disables the semantic check of the patched document.
	SkipVerify bool
}

// DefaultPatchOptions are used when nil options are passed.
var DefaultPatchOptions = &PatchOptions{Indent: "  "}

// ApplyNodeEdit replaces the value at path in doc with v and returns the new
// document text. Text outside the replaced value is preserved byte for byte.
// On error doc is to be considered unchanged.
func ApplyNodeEdit(doc string, path Path, v Value) (string, error) {
	return ApplyNodeEditWithOptions(doc, path, v, nil)
}

// ApplyNodeEditWithOptions is ApplyNodeEdit with explicit options.
func ApplyNodeEditWithOptions(doc string, path Path, v Value, opts *PatchOptions) (string, error) {
	if opts == nil {
		opts = DefaultPatchOptions
	}
	edits, err := ComputeEdits(doc, path, v, opts)
	if err != nil {
		return doc, err
	}
	out, err := ApplyEdits(doc, edits)
	if err != nil {
		return doc, &PatchError{Path: path, Err: err}
	}
	if !opts.SkipVerify {
		if err := verifyEdit(doc, out, path, v); err != nil {
			return doc, &PatchError{Path: path, Err: err}
		}
	}
	return out, nil
}

// ComputeEdits returns the edits that replace the value at path in doc with v.
func ComputeEdits(doc string, path Path, v Value, opts *PatchOptions) ([]Edit, error) {
	if opts == nil {
		opts = DefaultPatchOptions
	}
	if path == nil {
		return nil, &PatchError{Path: path, Err: ErrUnresolvedPath}
	}
	clean, err := stripComments(doc)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	res, err := lookup(clean, path)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}

	indent := opts.Indent
	switch {
	case opts.DetectIndent:
		indent = DetectIndent(doc)
	case indent == "":
		indent = DefaultPatchOptions.Indent
	}
	content := formatValue(v.JSON(), lineIndent(doc, res.Index), indent)
	return []Edit{{Offset: res.Index, Length: len(res.Raw), Content: content}}, nil
}

// ApplyEdits applies edits to doc. Edits must not overlap.
func ApplyEdits(doc string, edits []Edit) (string, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset > sorted[j].Offset })

	out := doc
	end := len(doc) + 1
	for _, e := range sorted {
		if e.Offset < 0 || e.Length < 0 || e.Offset+e.Length > len(doc) {
			return doc, fmt.Errorf("nodeedit: edit [%d,+%d) out of range for %d bytes", e.Offset, e.Length, len(doc))
		}
		if e.Offset+e.Length > end {
			return doc, fmt.Errorf("nodeedit: overlapping edits at offset %d", e.Offset)
		}
		out = out[:e.Offset] + e.Content + out[e.Offset+e.Length:]
		end = e.Offset
	}
	return out, nil
}

// ReplaceOperation describes replacing the value at path with v as an
// RFC 6902 JSON Patch. The root path has no replace form and is rejected.
func ReplaceOperation(path Path, v Value) (jsonpatch.Patch, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("nodeedit: JSON Patch cannot replace the document root")
	}
	var b bytes.Buffer
	b.WriteString(`[{"op":"replace","path":`)
	b.Write(quoteKey(path.Pointer()))
	b.WriteString(`,"value":`)
	b.Write(v.JSON())
	b.WriteString(`}]`)
	return jsonpatch.DecodePatch(b.Bytes())
}

// stripComments blanks comments and trailing commas, keeping every byte
// offset of doc valid in the result.
func stripComments(doc string) (string, error) {
	clean := jsonc.ToJSON([]byte(doc))
	if len(clean) != len(doc) || !gjson.ValidBytes(clean) {
		return "", ErrMalformedDocument
	}
	return string(clean), nil
}

// lookup locates the value at p in clean and checks that every step
// descends into a container of the right kind.
func lookup(clean string, p Path) (gjson.Result, error) {
	if len(p) == 0 {
		start := len(clean) - len(strings.TrimLeft(clean, " \t\r\n"))
		raw := strings.TrimRight(clean[start:], " \t\r\n")
		res := gjson.Parse(raw)
		res.Raw = raw
		res.Index = start
		return res, nil
	}

	parent := gjson.Parse(clean)
	var res gjson.Result
	for i, seg := range p {
		switch {
		case seg.IsIndex && !parent.IsArray():
			return res, fmt.Errorf("%s is not an array: %w", FormatPath(p[:i]), ErrPathNotFound)
		case !seg.IsIndex && !parent.IsObject():
			return res, fmt.Errorf("%s is not an object: %w", FormatPath(p[:i]), ErrPathNotFound)
		}
		gp, err := gjsonPath(p[:i+1])
		if err != nil {
			return res, err
		}
		res = gjson.Get(clean, gp)
		if !res.Exists() {
			return res, fmt.Errorf("%s: %w", FormatPath(p[:i+1]), ErrPathNotFound)
		}
		parent = res
	}
	if res.Index <= 0 || res.Index+len(res.Raw) > len(clean) || clean[res.Index:res.Index+len(res.Raw)] != res.Raw {
		return res, fmt.Errorf("nodeedit: cannot locate %s in document text", FormatPath(p))
	}
	return res, nil
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(doc string, offset int) string {
	start := strings.LastIndexByte(doc[:offset], '\n') + 1
	i := start
	for i < len(doc) && (doc[i] == ' ' || doc[i] == '\t') {
		i++
	}
	return doc[start:i]
}

// formatValue pretty-prints raw with indent per level; continuation lines are
// prefixed with the indentation of the line the value starts on.
func formatValue(raw []byte, prefix, indent string) string {
	out := pretty.PrettyOptions(raw, &pretty.Options{Prefix: prefix, Indent: indent})
	return string(bytes.TrimSpace(out))
}

func verifyEdit(before, after string, path Path, v Value) error {
	cleanBefore, err := stripComments(before)
	if err != nil {
		return err
	}
	cleanAfter, err := stripComments(after)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}

	var want []byte
	if len(path) == 0 {
		want = v.JSON()
	} else {
		op, err := ReplaceOperation(path, v)
		if err != nil {
			return err
		}
		want, err = op.Apply([]byte(cleanBefore))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
		}
	}
	if !jsonpatch.Equal(want, []byte(cleanAfter)) {
		return ErrVerifyFailed
	}
	return nil
}
