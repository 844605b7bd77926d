package nodeedit

import "testing"

func TestDetectIndent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"compact", `{"a": 1}`, "  "},
		{"two spaces", "{\n  \"a\": {\n    \"b\": 1\n  }\n}", "  "},
		{"four spaces", "{\n    \"a\": [\n        1\n    ]\n}", "    "},
		{"tabs", "{\n\t\"a\": {\n\t\t\"b\": 1\n\t}\n}", "\t"},
		{"comments ignored", "{\n    // note\n   /* odd\n     * block */\n    \"a\": 1\n}", "    "},
		{"blank lines ignored", "{\n\n    \"a\": 1,\n  \n    \"b\": 2\n}", "    "},
		{"too wide", "{\n            \"a\": 1\n}", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectIndent(tt.doc); got != tt.want {
				t.Fatalf("DetectIndent = %q, want %q", got, tt.want)
			}
		})
	}
}
