// Package nodeedit edits a single node of a JSON document in place.
//
// A node is what a graph view of the document shows as one box: a scalar, or
// the scalar fields of an object. The pipeline turns the node into editable
// text (Normalize), parses the edited text back into a value (ParseEdit) and
// writes that value into the original document text at the node's location
// (ApplyNodeEdit) without touching formatting or comments anywhere else.
// Editor ties the pipeline to the collaborators that own the selection, the
// document text and the mirrored text surface.
package nodeedit

// Kind is the declared JSON type of a row.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// IsContainer reports whether k is array or object.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Row is one field of a node.
type Row struct {
	Key   string
	Keyed bool // false when the row is the node itself (a scalar), not a field
	Value any
	Kind  Kind
}

// Field returns a keyed row.
func Field(key string, value any, kind Kind) Row {
	return Row{Key: key, Keyed: true, Value: value, Kind: kind}
}

// Leaf returns a row without a key.
func Leaf(value any, kind Kind) Row {
	return Row{Value: value, Kind: kind}
}

// FirstRowKind returns the kind of the first row, or "" when rows is empty.
func FirstRowKind(rows []Row) Kind {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].Kind
}

// SelectedNode is the node currently selected in the graph.
//
// Path is nil when the graph could not resolve the node's location. The
// document root is the empty, non-nil Path{}.
type SelectedNode struct {
	ID   string
	Text []Row
	Path Path
}

// Resolved reports whether the node carries a usable path.
func (n SelectedNode) Resolved() bool {
	return n.Path != nil
}
