package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kevinwang15/nodeedit"
)

type editOptions struct {
	pointer   string
	value     string
	valueSet  bool
	dryRun    bool
	diff      bool
	jsonPatch bool
}

// editCommand creates the "edit" command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Write a new value for one node back into the file",
		Long: `Edit replaces the value of the node at --path with --value (or stdin).

The value is parsed as JSON first; text that is not valid JSON is coerced
using the node's current type, so bare words can be typed for strings.
Everything outside the edited value, including comments, is left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.valueSet = cmd.Flags().Changed("value")
			return c.runEdit(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.pointer, "path", "p", "", "JSON Pointer of the node (empty for the root)")
	cmd.Flags().StringVar(&opts.value, "value", "", "new value text (read from stdin when omitted)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "do not write the file")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff of the change")
	cmd.Flags().BoolVar(&opts.jsonPatch, "json-patch", false, "print the change as an RFC 6902 JSON Patch")
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, file string, opts editOptions) error {
	store := newFileStore(file, opts.dryRun)
	doc, err := store.CurrentText()
	if err != nil {
		return err
	}
	path, err := nodeedit.ResolvePointer(doc, opts.pointer)
	if err != nil {
		return err
	}
	node, err := nodeedit.Select(doc, path)
	if err != nil {
		return err
	}

	text, err := c.readValue(cmd, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sel := &nodeedit.StaticSelection{}
	sel.Select(node)
	mirror := newDiffMirror(out, filepath.Base(file), doc, opts.diff || opts.dryRun)
	editor := nodeedit.NewEditor(sel, store,
		nodeedit.WithMirror(mirror),
		nodeedit.WithLogger(c.Logger),
		nodeedit.WithPatchOptions(c.Config.PatchOptions()),
	)

	editor.Open()
	editor.SelectionChanged(node.ID)
	if err := editor.StartEdit(); err != nil {
		return err
	}
	c.Logger.Debug("editing", "path", nodeedit.FormatPath(path), "draft", editor.Draft())
	editor.SetDraft(text)

	if opts.jsonPatch {
		if err := printJSONPatch(out, path, nodeedit.ParseEdit(text, nodeedit.FirstRowKind(node.Text))); err != nil {
			return err
		}
	}

	switch outcome := editor.Save(); outcome {
	case nodeedit.Saved:
		if opts.dryRun {
			c.Logger.Info("dry run, file not written", "file", file)
			return nil
		}
		printSuccess(cmd.ErrOrStderr(), "Updated %s at %s", file, nodeedit.FormatPath(path))
		return nil
	default:
		return fmt.Errorf("edit %s at %s: %s", file, nodeedit.FormatPath(path), outcome)
	}
}

// readValue returns --value, or stdin when the flag is absent and stdin is
// not a terminal.
func (c *CLI) readValue(cmd *cobra.Command, opts editOptions) (string, error) {
	if opts.valueSet {
		return opts.value, nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", errors.New("no value: pass --value or pipe the value on stdin")
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

func printJSONPatch(w io.Writer, path nodeedit.Path, v nodeedit.Value) error {
	if len(path) == 0 {
		return errors.New("the document root cannot be expressed as a JSON Patch replace")
	}
	patch, err := nodeedit.ReplaceOperation(path, v)
	if err != nil {
		return err
	}
	b, err := json.Marshal(patch, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
