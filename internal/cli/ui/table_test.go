package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Column", "Type", "PK"}, &TableOptions{NoColor: true})
	table.AddRow("StudentUSI", "integer", YesNo(true))
	table.AddRow("StudentUniqueId", "string(32)", YesNo(false))
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if strings.TrimRight(lines[0], " ") != "Column           Type        PK" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "StudentUSI       integer     yes" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[3] != "StudentUniqueId  string(32)  no" {
		t.Errorf("unexpected row %q", lines[3])
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, nil).Render()
	if buf.Len() != 0 {
		t.Errorf("expected no output for table without headers, got %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Namespace", "EdFi")
	kv.AddRow("Tables", "42")
	kv.Render()

	want := "Namespace: EdFi\nTables:    42\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "EdFi", true)
	if buf.String() != "EdFi\n────\n" {
		t.Errorf("unexpected header %q", buf.String())
	}
}

func TestDividerDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	Divider(&buf, 0, true)
	if got := strings.Count(buf.String(), "─"); got != 80 {
		t.Errorf("expected 80 dashes, got %d", got)
	}
}
