package table

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCSVInfersCellKinds(t *testing.T) {
	input := "Agent,Calls,Login Time\nalice,42,08:30:00\nbob,,\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	if len(tbl.Header) != 3 || len(tbl.Rows) != 2 {
		t.Fatalf("unexpected shape: header=%d rows=%d", len(tbl.Header), len(tbl.Rows))
	}

	if tbl.Rows[0][0].Kind != CellText {
		t.Errorf("expected text cell, got kind %d", tbl.Rows[0][0].Kind)
	}
	if tbl.Rows[0][1].Kind != CellNumber {
		t.Errorf("expected number cell, got kind %d", tbl.Rows[0][1].Kind)
	}
	if n, _ := tbl.Rows[0][1].Float(); n != 42 {
		t.Errorf("expected 42, got %v", n)
	}
	if !tbl.Rows[1][1].IsEmpty() || !tbl.Rows[1][2].IsEmpty() {
		t.Error("expected empty cells for blank fields")
	}
}

func TestReadCSVRaggedRowsPadded(t *testing.T) {
	input := "A,B,C\n1,2\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	if len(tbl.Rows[0]) != 3 {
		t.Fatalf("expected padded row of width 3, got %d", len(tbl.Rows[0]))
	}
	if !tbl.Rows[0][2].IsEmpty() {
		t.Error("expected padding cell to be empty")
	}
}

func TestReadCSVNoHeader(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestColumnIndexNormalizes(t *testing.T) {
	tbl := &Table{Header: []string{" Login Duration ", "BREAK"}}
	if idx := tbl.ColumnIndex("login duration"); idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}
	if idx := tbl.ColumnIndex("Break "); idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if idx := tbl.ColumnIndex("missing"); idx != -1 {
		t.Errorf("expected -1, got %d", idx)
	}
}

func TestDropEmptyColumns(t *testing.T) {
	tbl := &Table{
		Header: []string{"A", "B", "C"},
		Rows: [][]Cell{
			{Text("x"), Empty(), Number(1)},
			{Text("y"), Text("  "), Empty()},
		},
	}
	tbl.DropEmptyColumns()
	if len(tbl.Header) != 2 || tbl.Header[0] != "A" || tbl.Header[1] != "C" {
		t.Fatalf("expected columns [A C], got %v", tbl.Header)
	}
	if len(tbl.Rows[0]) != 2 {
		t.Fatalf("expected row width 2, got %d", len(tbl.Rows[0]))
	}
}

func TestSetColumnOverwritesExisting(t *testing.T) {
	tbl := &Table{
		Header: []string{"Agent", "Raw Date", "Calls"},
		Rows: [][]Cell{
			{Text("alice"), Text("STALE"), Number(1)},
			{Text("bob"), Text("STALE"), Number(2)},
		},
	}
	tbl.SetColumn("Raw Date", []Cell{Text("08-09-2025")})

	if len(tbl.Header) != 3 {
		t.Fatalf("expected no duplicate column, got header %v", tbl.Header)
	}
	if tbl.Rows[0][1].Text != "08-09-2025" {
		t.Errorf("expected overwritten value, got %q", tbl.Rows[0][1].Text)
	}
	if !tbl.Rows[1][1].IsEmpty() {
		t.Errorf("expected short values padded with empty, got %v", tbl.Rows[1][1])
	}
}

func TestSetColumnAppendsNew(t *testing.T) {
	tbl := &Table{
		Header: []string{"Agent"},
		Rows:   [][]Cell{{Text("alice")}},
	}
	tbl.SetColumn("Raw Date", []Cell{Text("08-09-2025")})
	if len(tbl.Header) != 2 || tbl.Header[1] != "Raw Date" {
		t.Fatalf("expected appended column, got %v", tbl.Header)
	}
	if tbl.Rows[0][1].Text != "08-09-2025" {
		t.Errorf("unexpected appended value: %v", tbl.Rows[0][1])
	}
}

func TestDropEmptyColumnsWithDuplicateNames(t *testing.T) {
	tbl := &Table{
		Header: []string{"Notes", "Agent", "Notes", "Extra", "Extra"},
		Rows: [][]Cell{
			{Text("keep"), Text("alice"), Empty(), Empty(), Empty()},
		},
	}
	tbl.DropEmptyColumns()
	if len(tbl.Header) != 2 || tbl.Header[0] != "Notes" || tbl.Header[1] != "Agent" {
		t.Fatalf("expected non-empty twin kept and both empty twins dropped, got %v", tbl.Header)
	}
	if tbl.Rows[0][0].Text != "keep" {
		t.Errorf("wrong column survived: %v", tbl.Rows[0])
	}
}

func TestWriteCSVRoundTripsNumbers(t *testing.T) {
	tbl := &Table{
		Header: []string{"Agent", "Serial"},
		Rows: [][]Cell{
			{Text("alice"), Infer("45000")},
		},
	}

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	want := "Agent,Serial\nalice,45000\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tbl := &Table{
		Header: []string{"A"},
		Rows:   [][]Cell{{Text("1")}, {Text("2")}, {Text("3")}},
	}
	tbl.Truncate(1)
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row after truncation, got %d", len(tbl.Rows))
	}
	if tbl.Rows[0][0].Text != "1" {
		t.Errorf("wrong surviving row: %v", tbl.Rows[0][0])
	}
}
