// Package cli implements the nodeedit command-line interface.
//
// The CLI stands in for the graph view and text editor that normally
// surround the edit pipeline: it selects a node by JSON Pointer, shows its
// editable text, and saves a new value into the file through nodeedit.Editor.
//
// # Commands
//
//   - show: print a node's path, rows and editable text
//   - edit: write a new value for a node back into the file
//   - path: print the display path and JSON Pointer of a node
//
// All commands accept --config (YAML or TOML) and --verbose.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kevinwang15/nodeedit/internal/config"
)

const appName = "nodeedit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Inspect and edit single nodes of JSON documents in place",
		Long:         `nodeedit edits one value of a JSON (or JSON with comments) document and writes it back without disturbing the rest of the file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("NODEEDIT_CONFIG"), "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.pathCommand())

	return root
}

// setup loads the config file and applies log level and color mode.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "indent", cfg.Indent, "verify", cfg.Verify)
	return nil
}

// Execute runs the nodeedit CLI.
func Execute() error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().Execute()
}
