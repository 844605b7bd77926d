package nodeedit

import (
	"github.com/tidwall/gjson"
)

// Select builds the row representation of the node at path, the way the
// graph shows it: a scalar is a single keyless row; an object has one row per
// member in document order; an array has one keyless row per element.
// Container rows carry their child count as value.
func Select(doc string, path Path) (SelectedNode, error) {
	if path == nil {
		return SelectedNode{}, ErrUnresolvedPath
	}
	clean, err := stripComments(doc)
	if err != nil {
		return SelectedNode{}, err
	}
	res, err := lookup(clean, path)
	if err != nil {
		return SelectedNode{}, err
	}

	node := SelectedNode{ID: path.Pointer(), Path: append(Path{}, path...)}
	switch {
	case res.IsObject():
		res.ForEach(func(k, v gjson.Result) bool {
			node.Text = append(node.Text, Field(k.String(), rowValue(v), kindOf(v)))
			return true
		})
	case res.IsArray():
		res.ForEach(func(_, v gjson.Result) bool {
			node.Text = append(node.Text, Leaf(rowValue(v), kindOf(v)))
			return true
		})
	default:
		node.Text = []Row{Leaf(rowValue(res), kindOf(res))}
	}
	return node, nil
}

func kindOf(r gjson.Result) Kind {
	switch r.Type {
	case gjson.String:
		return KindString
	case gjson.Number:
		return KindNumber
	case gjson.True, gjson.False:
		return KindBoolean
	case gjson.JSON:
		if r.IsArray() {
			return KindArray
		}
		return KindObject
	default:
		return KindNull
	}
}

func rowValue(r gjson.Result) any {
	if r.Type == gjson.JSON {
		n := 0
		r.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		return n
	}
	return r.Value()
}
