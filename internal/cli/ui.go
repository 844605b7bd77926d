package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKey   = lipgloss.NewStyle().Foreground(colorCyan)
	styleKind  = lipgloss.NewStyle().Foreground(colorGray)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleOK    = lipgloss.NewStyle().Foreground(colorGreen)
)

const iconSuccess = "✓"

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleOK.Render(iconSuccess), fmt.Sprintf(format, args...))
}

// colorDiff colors a unified diff: additions green, removals red, hunks cyan.
func colorDiff(diff string) string {
	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()
	hunk := color.New(color.FgCyan).SprintFunc()

	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, ln := range lines {
		switch {
		case strings.HasPrefix(ln, "+++"), strings.HasPrefix(ln, "---"):
			b.WriteString(color.New(color.Bold).Sprint(ln))
		case strings.HasPrefix(ln, "+"):
			b.WriteString(add(ln))
		case strings.HasPrefix(ln, "-"):
			b.WriteString(del(ln))
		case strings.HasPrefix(ln, "@@"):
			b.WriteString(hunk(ln))
		default:
			b.WriteString(ln)
		}
	}
	return b.String()
}
