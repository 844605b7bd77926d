package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kevinwang15/nodeedit"
)

// fileStore is a nodeedit.Store backed by a file. The file is read on every
// CurrentText call so saves apply to what is on disk at that moment.
type fileStore struct {
	path   string
	dryRun bool
	last   string // text of the last SetCanonicalText call
}

func newFileStore(path string, dryRun bool) *fileStore {
	return &fileStore{path: path, dryRun: dryRun}
}

func (s *fileStore) CurrentText() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	return string(b), nil
}

// SetCanonicalText replaces the file through a temporary file in the same
// directory, keeping the original permissions.
func (s *fileStore) SetCanonicalText(text string) error {
	s.last = text
	if s.dryRun {
		return nil
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// diffMirror is a nodeedit.Mirror that prints a unified diff of every update
// against the previously mirrored text.
type diffMirror struct {
	w       io.Writer
	name    string
	text    string
	enabled bool
	pending bool
}

func newDiffMirror(w io.Writer, name, initial string, enabled bool) *diffMirror {
	return &diffMirror{w: w, name: name, text: initial, enabled: enabled}
}

func (m *diffMirror) SetMirroredText(text string, flags nodeedit.MirrorFlags) error {
	prev := m.text
	m.text = text
	m.pending = flags.HasPendingChanges
	if !m.enabled {
		return nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(prev),
		B:        difflib.SplitLines(text),
		FromFile: "a/" + m.name,
		ToFile:   "b/" + m.name,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(m.w, colorDiff(diff))
	return err
}
