package nodeedit

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// Selection is the graph view's notion of the current node.
type Selection interface {
	// SelectedNode returns the current node, or false when none is selected.
	SelectedNode() (SelectedNode, bool)
}

// Store owns the authoritative document text.
type Store interface {
	CurrentText() (string, error)
	// SetCanonicalText replaces the document; the graph is expected to re-render from it.
	SetCanonicalText(text string) error
}

// Mirror is a text editor surface that shows the document text.
type Mirror interface {
	SetMirroredText(text string, flags MirrorFlags) error
}

// MirrorFlags accompany a mirrored text update.
type MirrorFlags struct {
	HasPendingChanges bool
	SkipDerivedUpdate bool
}

// State of the edit surface.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// Outcome of Save.
type Outcome int

const (
	// Skipped means nothing was attempted: no edit in progress, no selection,
	// an unresolved path or a selection that changed under the draft.
	Skipped Outcome = iota
	// Saved means the store received the new text.
	Saved
	// Failed means the patch or the store update failed; the document is unchanged.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// ErrNoSelection is returned by StartEdit when no node is selected.
var ErrNoSelection = errors.New("nodeedit: no node selected")

// Editor runs the edit cycle for the selected node. It holds one draft at a
// time and is not safe for concurrent use.
type Editor struct {
	selection Selection
	store     Store
	mirror    Mirror
	logger    *log.Logger
	opts      *PatchOptions

	state  State
	draft  string
	nodeID string
}

// Option configures an Editor.
type Option func(*Editor)

// WithMirror sets the mirrored text surface.
func WithMirror(m Mirror) Option { return func(e *Editor) { e.mirror = m } }

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithPatchOptions sets the options used when writing values.
func WithPatchOptions(o *PatchOptions) Option { return func(e *Editor) { e.opts = o } }

// NewEditor returns an idle editor.
func NewEditor(sel Selection, store Store, opts ...Option) *Editor {
	e := &Editor{selection: sel, store: store}
	for _, o := range opts {
		o(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Draft returns the draft text; it is empty unless editing.
func (e *Editor) Draft() string { return e.draft }

// SelectionChanged must be called when the graph selects a node. A different
// node discards any draft.
func (e *Editor) SelectionChanged(id string) {
	if id != e.nodeID {
		e.reset()
		e.nodeID = id
	}
}

// Open is called when the edit surface is shown.
func (e *Editor) Open() { e.reset() }

// Close is called when the edit surface is hidden.
func (e *Editor) Close() { e.reset() }

// StartEdit begins editing the selected node with its normalized text.
func (e *Editor) StartEdit() error {
	node, ok := e.selection.SelectedNode()
	if !ok {
		e.reset()
		return ErrNoSelection
	}
	e.nodeID = node.ID
	e.state = Editing
	e.draft = Normalize(node.Text)
	return nil
}

// SetDraft replaces the draft text. It is ignored when not editing.
func (e *Editor) SetDraft(text string) {
	if e.state == Editing {
		e.draft = text
	}
}

// Cancel discards the draft.
func (e *Editor) Cancel() { e.reset() }

// Save writes the draft into the document. The editor is idle afterwards
// whatever the outcome; failures are logged, never returned.
func (e *Editor) Save() Outcome {
	if e.state != Editing {
		return Skipped
	}
	draft := e.draft
	e.reset()

	node, ok := e.selection.SelectedNode()
	if !ok || !node.Resolved() {
		e.logger.Debug("save skipped: no resolvable selection")
		return Skipped
	}
	if node.ID != e.nodeID {
		e.logger.Debug("save skipped: selection changed", "draft", e.nodeID, "selected", node.ID)
		return Skipped
	}

	value := ParseEdit(draft, FirstRowKind(node.Text))
	if value.NumberFallback {
		e.logger.Warn("number field saved as string", "path", FormatPath(node.Path), "text", draft)
	}

	current, err := e.store.CurrentText()
	if err != nil {
		e.logger.Error("read document", "path", FormatPath(node.Path), "err", err)
		return Failed
	}
	next, err := ApplyNodeEditWithOptions(current, node.Path, value, e.opts)
	if err != nil {
		e.logger.Error("apply node edit", "path", FormatPath(node.Path), "err", err)
		return Failed
	}

	if e.mirror != nil {
		if err := e.mirror.SetMirroredText(next, MirrorFlags{HasPendingChanges: true, SkipDerivedUpdate: true}); err != nil {
			e.logger.Debug("mirror update failed", "err", err)
		}
	}
	if err := e.store.SetCanonicalText(next); err != nil {
		e.logger.Error("update document", "path", FormatPath(node.Path), "err", err)
		return Failed
	}
	e.logger.Debug("node saved", "path", FormatPath(node.Path), "kind", value.Kind())
	return Saved
}

func (e *Editor) reset() {
	e.state = Idle
	e.draft = ""
}
