package debug

import "testing"

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "test", want: "test\n"},
		{name: "depth 1", depth: 1, format: "indented", want: "  indented\n"},
		{name: "depth 2", depth: 2, format: "double indent", want: "    double indent\n"},
		{name: "with formatting", depth: 1, format: "value: %d", args: []any{42}, want: "  value: 42\n"},
		{name: "multiple args", depth: 0, format: "%s = %d", args: []any{"count", 5}, want: "count = 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", depth: 0, label: "field", value: "", want: "field: \n"},
		{name: "simple value", depth: 0, label: "text", value: "hello world", want: "text: \"hello world\"\n"},
		{name: "indented", depth: 2, label: "nested", value: "data", want: "    nested: \"data\"\n"},
		{name: "quotes escaped", depth: 0, label: "quoted", value: `he said "hello"`, want: "quoted: \"he said \\\"hello\\\"\"\n"},
		{name: "newline escaped", depth: 0, label: "multiline", value: "line1\nline2", want: "multiline: \"line1\\nline2\"\n"},
		{name: "tab escaped", depth: 0, label: "columns", value: "col1\tcol2", want: "columns: \"col1\\tcol2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMixedTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Document[%q]", "report.docx")
	tw.Line(1, "Styles: %d", 3)
	tw.TextBlock(2, "Title", "Quarterly Report")
	tw.Line(1, "Body: %d blocks", 2)
	tw.TextBlock(1, "Text", "hello")

	want := "Document[\"report.docx\"]\n" +
		"  Styles: 3\n" +
		"    Title: \"Quarterly Report\"\n" +
		"  Body: 2 blocks\n" +
		"  Text: \"hello\"\n"
	if got := tw.String(); got != want {
		t.Errorf("tree mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
