package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	gyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/kevinwang15/nodeedit"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var pointer, format string
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a node's path, rows and editable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := loadNode(args[0], pointer)
			if err != nil {
				return err
			}
			c.Logger.Debug("selected", "id", node.ID, "rows", len(node.Text))
			return renderNode(cmd.OutOrStdout(), node, format)
		},
	}
	cmd.Flags().StringVarP(&pointer, "path", "p", "", "JSON Pointer of the node (empty for the root)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or json")
	return cmd
}

// pathCommand creates the "path" command.
func (c *CLI) pathCommand() *cobra.Command {
	var pointer string
	cmd := &cobra.Command{
		Use:   "path FILE",
		Short: "Print the display path and JSON Pointer of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := loadNode(args[0], pointer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", nodeedit.FormatPath(node.Path), node.Path.Pointer())
			return nil
		},
	}
	cmd.Flags().StringVarP(&pointer, "path", "p", "", "JSON Pointer of the node (empty for the root)")
	return cmd
}

func loadNode(file, pointer string) (nodeedit.SelectedNode, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nodeedit.SelectedNode{}, fmt.Errorf("read %s: %w", file, err)
	}
	doc := string(b)
	path, err := nodeedit.ResolvePointer(doc, pointer)
	if err != nil {
		return nodeedit.SelectedNode{}, err
	}
	return nodeedit.Select(doc, path)
}

func renderNode(w io.Writer, node nodeedit.SelectedNode, format string) error {
	switch format {
	case "text":
		return renderNodeText(w, node)
	case "yaml":
		return renderNodeYAML(w, node)
	case "json":
		return renderNodeJSON(w, node)
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

func renderNodeText(w io.Writer, node nodeedit.SelectedNode) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("Node"), nodeedit.FormatPath(node.Path))
	fmt.Fprintf(&b, "%s\n\n", styleDim.Render("pointer: "+pointerOrRoot(node.Path)))
	for _, r := range node.Text {
		key := "-"
		if r.Keyed {
			key = r.Key
		}
		fmt.Fprintf(&b, "  %s %s %v\n", styleKey.Render(key), styleKind.Render("("+string(r.Kind)+")"), r.Value)
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", styleTitle.Render("Editable text"), nodeedit.Normalize(node.Text))
	_, err := io.WriteString(w, b.String())
	return err
}

func renderNodeYAML(w io.Writer, node nodeedit.SelectedNode) error {
	rows := make([]gyaml.MapSlice, 0, len(node.Text))
	for _, r := range node.Text {
		row := gyaml.MapSlice{}
		if r.Keyed {
			row = append(row, gyaml.MapItem{Key: "key", Value: r.Key})
		}
		row = append(row,
			gyaml.MapItem{Key: "kind", Value: string(r.Kind)},
			gyaml.MapItem{Key: "value", Value: r.Value},
		)
		rows = append(rows, row)
	}
	out, err := gyaml.MarshalWithOptions(gyaml.MapSlice{
		{Key: "path", Value: nodeedit.FormatPath(node.Path)},
		{Key: "pointer", Value: node.Path.Pointer()},
		{Key: "rows", Value: rows},
		{Key: "text", Value: nodeedit.Normalize(node.Text)},
	}, gyaml.Indent(2), gyaml.IndentSequence(true), gyaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

type jsonRow struct {
	Key   *string `json:"key,omitempty"`
	Kind  string  `json:"kind"`
	Value any     `json:"value"`
}

type jsonNode struct {
	Path    string    `json:"path"`
	Pointer string    `json:"pointer"`
	Rows    []jsonRow `json:"rows"`
	Text    string    `json:"text"`
}

func renderNodeJSON(w io.Writer, node nodeedit.SelectedNode) error {
	out := jsonNode{
		Path:    nodeedit.FormatPath(node.Path),
		Pointer: node.Path.Pointer(),
		Rows:    make([]jsonRow, 0, len(node.Text)),
		Text:    nodeedit.Normalize(node.Text),
	}
	for _, r := range node.Text {
		row := jsonRow{Kind: string(r.Kind), Value: r.Value}
		if r.Keyed {
			key := r.Key
			row.Key = &key
		}
		out.Rows = append(out.Rows, row)
	}
	b, err := json.Marshal(out, jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func pointerOrRoot(p nodeedit.Path) string {
	if ptr := p.Pointer(); ptr != "" {
		return ptr
	}
	return "(root)"
}
