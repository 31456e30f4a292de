package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoHeader       = errors.New("file has no column headers")
	ErrUnsupportedExt = errors.New("unsupported file extension")
)

// Ext extracts the lowercased extension without the dot.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ReadCSV parses CSV content. The first record is the header; ragged rows are
// tolerated and padded to the header width. Values go through Infer so
// numeric literals surface as Number cells, matching spreadsheet semantics.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Header: records[0]}
	width := len(t.Header)
	for _, record := range records[1:] {
		row := make([]Cell, width)
		for i := 0; i < width; i++ {
			if i < len(record) {
				row[i] = Infer(record[i])
			} else {
				row[i] = Empty()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadXLSX parses the first sheet of a workbook. Raw cell values are
// requested so date cells arrive as spreadsheet serial numbers instead of
// locale-formatted strings.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Header: records[0]}
	width := len(t.Header)
	for _, record := range records[1:] {
		row := make([]Cell, width)
		for i := 0; i < width; i++ {
			if i < len(record) {
				row[i] = Infer(record[i])
			} else {
				row[i] = Empty()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Read dispatches on the filename extension.
func Read(r io.Reader, filename string) (*Table, error) {
	switch Ext(filename) {
	case "csv":
		return ReadCSV(r)
	case "xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, Ext(filename))
	}
}

// ReadFile loads a tabular file from disk.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// ReadHeader returns just the header row of a tabular stream.
func ReadHeader(r io.Reader, filename string) ([]string, error) {
	switch Ext(filename) {
	case "csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		record, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("parsing csv header: %w", err)
		}
		if len(record) == 0 {
			return nil, ErrNoHeader
		}
		return record, nil
	case "xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		rows, err := f.Rows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
		}
		defer rows.Close()
		if !rows.Next() {
			return nil, ErrNoHeader
		}
		header, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if len(header) == 0 {
			return nil, ErrNoHeader
		}
		return header, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, Ext(filename))
	}
}
