package nodeedit

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pmezard/go-difflib/difflib"
)

func TestApplyNodeEditScalarInCompactDocument(t *testing.T) {
	doc := `{"a":{"b":1}}`
	out, err := ApplyNodeEdit(doc, Path{Key("a"), Key("b")}, ParseEdit("2", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"a":{"b":2}}` {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestApplyNodeEditPreservesCommentsAndTrailingCommas(t *testing.T) {
	original := `{
  // service config
  "name": "api",
  "replicas": 2, /* scaled by hand */
  "tags": ["a", "b",],
}
`
	out, err := ApplyNodeEdit(original, Path{Key("replicas")}, ParseEdit("3", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	want := strings.Replace(original, `"replicas": 2,`, `"replicas": 3,`, 1)
	if out != want {
		t.Fatalf("unexpected output:\n%s", unifiedDiff(want, out))
	}
	adds, removes := diffStats(unifiedDiff(original, out))
	if adds != 1 || removes != 1 {
		t.Fatalf("expected single-line change, got %d additions / %d removals", adds, removes)
	}
}

func TestApplyNodeEditInsertsStructureWithTwoSpaceIndent(t *testing.T) {
	original := `{
  "spec": {
    "limits": 1,
    "name": "web"
  }
}
`
	out, err := ApplyNodeEdit(original, Path{Key("spec"), Key("limits")}, ParseEdit(`{"cpu":"1","mem":"2Gi"}`, KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	want := `{
  "spec": {
    "limits": {
      "cpu": "1",
      "mem": "2Gi"
    },
    "name": "web"
  }
}
`
	if out != want {
		t.Fatalf("unexpected output:\n%s", unifiedDiff(want, out))
	}
}

func TestApplyNodeEditFourSpaceDocumentKeepsItsIndentOutsideEdit(t *testing.T) {
	original := "{\n    \"a\": {\n        \"b\": true\n    },\n    \"c\": 1\n}\n"
	out, err := ApplyNodeEdit(original, Path{Key("c")}, ParseEdit("7", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != strings.Replace(original, `"c": 1`, `"c": 7`, 1) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestApplyNodeEditArrayElement(t *testing.T) {
	doc := `{"items": [1, 2, 3]}`
	out, err := ApplyNodeEdit(doc, Path{Key("items"), Index(1)}, ParseEdit("20", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"items": [1, 20, 3]}` {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestApplyNodeEditCoercedStringIsQuoted(t *testing.T) {
	doc := `{"name": "old"}`
	out, err := ApplyNodeEdit(doc, Path{Key("name")}, ParseEdit("new name", KindString))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"name": "new name"}` {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestApplyNodeEditKeysWithPathSyntax(t *testing.T) {
	doc := `{"a.b": {"c*": 1, "#": 2}}`
	out, err := ApplyNodeEdit(doc, Path{Key("a.b"), Key("c*")}, ParseEdit("5", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"a.b": {"c*": 5, "#": 2}}` {
		t.Fatalf("unexpected document: %s", out)
	}
	out, err = ApplyNodeEdit(out, Path{Key("a.b"), Key("#")}, ParseEdit("6", KindNumber))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"a.b": {"c*": 5, "#": 6}}` {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestApplyNodeEditRoot(t *testing.T) {
	doc := "// header\n{\"a\": 1}\n"
	out, err := ApplyNodeEdit(doc, Root, ParseEdit("42", KindObject))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != "// header\n42\n" {
		t.Fatalf("unexpected document: %q", out)
	}
}

func TestApplyNodeEditMissingPathLeavesDocumentUnchanged(t *testing.T) {
	doc := "{\n  \"a\": {\"b\": 1}\n}\n"
	paths := []Path{
		{Key("a"), Key("x")},
		{Key("missing")},
		{Key("a"), Index(0)},
		{Key("a"), Key("b"), Key("c")},
	}
	for _, p := range paths {
		out, err := ApplyNodeEdit(doc, p, ParseEdit("2", KindNumber))
		if err == nil {
			t.Fatalf("%s: expected error", FormatPath(p))
		}
		if !errors.Is(err, ErrPathNotFound) {
			t.Fatalf("%s: expected ErrPathNotFound, got %v", FormatPath(p), err)
		}
		var pe *PatchError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected *PatchError, got %T", FormatPath(p), err)
		}
		if out != doc {
			t.Fatalf("%s: document changed:\n%s", FormatPath(p), out)
		}
	}
}

func TestApplyNodeEditIndexIntoObjectFails(t *testing.T) {
	doc := `{"0": "zero"}`
	if _, err := ApplyNodeEdit(doc, Path{Index(0)}, ParseEdit("1", KindNumber)); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	out, err := ApplyNodeEdit(doc, Path{Key("0")}, ParseEdit("1", KindString))
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if out != `{"0": 1}` {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestApplyNodeEditMalformedDocument(t *testing.T) {
	doc := `{"a": 1,, "b"}`
	out, err := ApplyNodeEdit(doc, Path{Key("a")}, ParseEdit("2", KindNumber))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
	if out != doc {
		t.Fatalf("document changed: %s", out)
	}
}

func TestApplyNodeEditUnresolvedAndUnsupportedPaths(t *testing.T) {
	doc := `{"": 1}`
	if _, err := ApplyNodeEdit(doc, nil, ParseEdit("2", KindNumber)); !errors.Is(err, ErrUnresolvedPath) {
		t.Fatalf("expected ErrUnresolvedPath, got %v", err)
	}
	if _, err := ApplyNodeEdit(doc, Path{Key("")}, ParseEdit("2", KindNumber)); !errors.Is(err, ErrUnsupportedPath) {
		t.Fatalf("expected ErrUnsupportedPath, got %v", err)
	}
}

func TestComputeEditsReturnsSingleReplacement(t *testing.T) {
	doc := `{"a": "xyz", "b": 1}`
	edits, err := ComputeEdits(doc, Path{Key("a")}, ParseEdit("q", KindString), nil)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	e := edits[0]
	if e.Offset != 6 || e.Length != 5 || e.Content != `"q"` {
		t.Fatalf("unexpected edit %+v", e)
	}
}

func TestComputeEditsCustomIndent(t *testing.T) {
	doc := "{\n\t\"a\": 1\n}"
	edits, err := ComputeEdits(doc, Path{Key("a")}, ParseEdit(`{"b":2}`, ""), &PatchOptions{Indent: "\t"})
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if want := "{\n\t\t\"b\": 2\n\t}"; edits[0].Content != want {
		t.Fatalf("content = %q, want %q", edits[0].Content, want)
	}
}

func TestComputeEditsDetectIndent(t *testing.T) {
	doc := "{\n    \"a\": {\n        \"b\": true\n    },\n    \"c\": 1\n}\n"
	edits, err := ComputeEdits(doc, Path{Key("c")}, ParseEdit(`{"x":1}`, ""), &PatchOptions{Indent: "  ", DetectIndent: true})
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if want := "{\n        \"x\": 1\n    }"; edits[0].Content != want {
		t.Fatalf("content = %q, want %q", edits[0].Content, want)
	}
}

func TestApplyEditsRejectsBadEdits(t *testing.T) {
	doc := "abcdef"
	if _, err := ApplyEdits(doc, []Edit{{Offset: 4, Length: 5}}); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := ApplyEdits(doc, []Edit{{Offset: 1, Length: 3}, {Offset: 2, Length: 1}}); err == nil {
		t.Fatalf("expected overlap error")
	}
	out, err := ApplyEdits(doc, []Edit{{Offset: 0, Length: 1, Content: "A"}, {Offset: 5, Length: 1, Content: "F"}})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if out != "AbcdeF" {
		t.Fatalf("unexpected %q", out)
	}
}

func TestReplaceOperation(t *testing.T) {
	if _, err := ReplaceOperation(Root, ParseEdit("1", "")); err == nil {
		t.Fatalf("expected error for root")
	}
	op, err := ReplaceOperation(Path{Key("a/b"), Index(0)}, ParseEdit("true", ""))
	if err != nil {
		t.Fatalf("ReplaceOperation: %v", err)
	}
	out, err := op.Apply([]byte(`{"a/b":[false,1]}`))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !jsonpatch.Equal(out, []byte(`{"a/b":[true,1]}`)) {
		t.Fatalf("unexpected %s", out)
	}
}

func TestRoundTripThroughSelectAndNormalize(t *testing.T) {
	doc := `{
  // database
  "db": {"host": "localhost", "port": 5432, "replicas": [1, 2]},
  "name": "svc"
}`
	path := Path{Key("db")}
	edited := `{"host":"db.internal","port":6543,"tls":true}`
	v := ParseEdit(edited, KindObject)

	out, err := ApplyNodeEdit(doc, path, v)
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	if !strings.HasPrefix(out, "{\n  // database\n") {
		t.Fatalf("comment lost:\n%s", out)
	}

	node, err := Select(out, path)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	again := ParseEdit(Normalize(node.Text), FirstRowKind(node.Text))
	if again.Coerced {
		t.Fatalf("normalized text did not parse as JSON: %s", Normalize(node.Text))
	}
	if got, want := again.Interface(), v.Interface(); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}

func TestRoundTripScalar(t *testing.T) {
	doc := `{"list": ["a", "b"]}`
	path := Path{Key("list"), Index(1)}
	v := ParseEdit("hello", KindString)
	out, err := ApplyNodeEdit(doc, path, v)
	if err != nil {
		t.Fatalf("ApplyNodeEdit: %v", err)
	}
	node, err := Select(out, path)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if text := Normalize(node.Text); text != "hello" {
		t.Fatalf("normalized text = %q", text)
	}
}

// --- helpers for tests ---

func unifiedDiff(before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func diffStats(diff string) (adds, removes int) {
	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				adds++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				removes++
			}
		}
	}
	return
}
