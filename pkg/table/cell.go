package table

import (
	"strconv"
	"strings"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a single spreadsheet value. Uploaded files mix strings, numbers,
// dates and blanks, so every pipeline step converts explicitly instead of
// relying on whatever the source format happened to contain.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func Empty() Cell {
	return Cell{Kind: CellEmpty}
}

func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

func Date(t time.Time) Cell {
	return Cell{Kind: CellDate, Date: t}
}

// Infer builds a cell from a raw string the way a spreadsheet reader would:
// blank becomes Empty, a numeric literal becomes Number, everything else Text.
func Infer(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Number: f, Text: raw}
	}
	return Cell{Kind: CellText, Text: raw}
}

func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell for CSV output. Number cells keep their original
// source text when one was recorded so values round-trip unchanged.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("02-01-2006")
	default:
		return ""
	}
}

// Float reports the numeric value of the cell, if it has one.
func (c Cell) Float() (float64, bool) {
	if c.Kind == CellNumber {
		return c.Number, true
	}
	return 0, false
}
