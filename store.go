package nodeedit

// MemoryStore is a Store holding the document in memory.
type MemoryStore struct {
	text    string
	updates int
}

// NewMemoryStore returns a store holding text.
func NewMemoryStore(text string) *MemoryStore {
	return &MemoryStore{text: text}
}

func (s *MemoryStore) CurrentText() (string, error) { return s.text, nil }

func (s *MemoryStore) SetCanonicalText(text string) error {
	s.text = text
	s.updates++
	return nil
}

// Updates counts SetCanonicalText calls.
func (s *MemoryStore) Updates() int { return s.updates }

// StaticSelection is a Selection that always reports the same node.
type StaticSelection struct {
	Node  SelectedNode
	Valid bool
}

// SelectedNode implements Selection.
func (s *StaticSelection) SelectedNode() (SelectedNode, bool) { return s.Node, s.Valid }

// Select replaces the selected node.
func (s *StaticSelection) Select(n SelectedNode) {
	s.Node = n
	s.Valid = true
}

// Clear removes the selection.
func (s *StaticSelection) Clear() {
	s.Node = SelectedNode{}
	s.Valid = false
}
