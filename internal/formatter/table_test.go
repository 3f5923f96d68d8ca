package formatter

import (
	"strings"
	"testing"
)

func TestTable_String(t *testing.T) {
	tests := []struct {
		name     string
		table    *Table
		expected string
	}{
		{
			name:  "Basic table formatting",
			table: NewTable("Header 1", "Header 2").AddRow("val 1", "val 2"),
			expected: `| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name:  "Trim spaces in cells",
			table: NewTable("  Col A  ", "Col B").AddRow("   val A   ", "val B"),
			expected: `| Col A | Col B |
| ----- | ----- |
| val A | val B |
`,
		},
		{
			name:  "Minimum separator width",
			table: NewTable("A", "B").AddRow("1", "2"),
			expected: `| A   | B   |
| --- | --- |
| 1   | 2   |
`,
		},
		{
			name:  "Missing and extra cells",
			table: NewTable("Dealer", "Facebook").AddRow("Napleton").AddRow("Roseville", "12", "extra"),
			expected: `| Dealer    | Facebook |
| --------- | -------- |
| Napleton  |          |
| Roseville | 12       |
`,
		},
		{
			name:  "Pipes in cells",
			table: NewTable("Error").AddRow("a|b"),
			expected: `| Error |
| ----- |
| a/b   |
`,
		},
		{
			name:  "Wide characters",
			table: NewTable("Name", "Count").AddRow("中文", "3").AddRow("abc", "12"),
			expected: `| Name | Count |
| ---- | ----- |
| 中文 | 3     |
| abc  | 12    |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.String()
			if got != tt.expected {
				t.Errorf("String() mismatch.\nExpected:\n%s\nGot:\n%s", tt.expected, got)
			}
		})
	}
}

func TestTable_WriteTo(t *testing.T) {
	table := NewTable("Dealer").AddRow("Napleton")

	var sb strings.Builder

	n, err := table.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	if int(n) != sb.Len() || sb.String() != table.String() {
		t.Errorf("WriteTo() wrote %d bytes %q", n, sb.String())
	}

	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}
