package nodeedit

import "strings"

// DetectIndent guesses the per-level indentation of doc from the leading
// whitespace of its lines. Tab-indented documents yield "\t"; otherwise the
// result is the greatest common divisor of all space indents. Documents with
// no indented lines yield two spaces.
func DetectIndent(doc string) string {
	var indents []int
	tabs := 0
	for _, ln := range strings.Split(doc, "\n") {
		body := strings.TrimLeft(ln, " \t")
		if isBlankOrComment(body) {
			continue
		}
		if ln[0] == '\t' {
			tabs++
			continue
		}
		if n := len(ln) - len(strings.TrimLeft(ln, " ")); n > 0 {
			indents = append(indents, n)
		}
	}

	if tabs > len(indents) {
		return "\t"
	}
	if len(indents) == 0 {
		return DefaultPatchOptions.Indent
	}
	result := indents[0]
	for _, n := range indents[1:] {
		result = gcd(result, n)
		if result == 1 {
			break
		}
	}
	if result > 8 {
		return DefaultPatchOptions.Indent
	}
	return strings.Repeat(" ", result)
}

// isBlankOrComment reports whether a line with its indentation removed holds
// nothing but a comment. Block comment continuation lines count as comments.
func isBlankOrComment(body string) bool {
	body = strings.TrimRight(body, " \t\r")
	return body == "" ||
		strings.HasPrefix(body, "//") ||
		strings.HasPrefix(body, "/*") ||
		strings.HasPrefix(body, "*")
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
