package cleaning

import (
	"math"
	"strings"
	"time"

	"github.com/iccs-ops/apr-portal/pkg/table"
)

// RawDateFormat is the canonical dd-mm-yyyy rendering of the business date.
const RawDateFormat = "02-01-2006"

// serialEpoch anchors spreadsheet serial dates: day 0 is 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Day-first layouts are tried before month-first fallbacks, matching how the
// source reports write dates (8 September is "08-09-2025").
var dateLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2-1-2006",
	"2/1/2006",
	"02-Jan-06 15:04:05",
	"02-Jan-2006 15:04:05",
	"02-Jan-06",
	"02-Jan-2006",
	"2-Jan-06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-06",
	"02/01/06",
	"01-02-2006",
	"01/02/2006",
}

// parseDateString parses a date with day-before-month preference.
func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// serialToDate converts a spreadsheet serial day count to a date.
func serialToDate(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	return serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// deriveRawDate extracts the business date from a first-login cell.
// Text ranges like "08-09-2025 - 09-09-2025" take the left-hand side; plain
// text is parsed day-first; numeric cells are spreadsheet serials. Anything
// unparsable yields an empty cell.
func deriveRawDate(c table.Cell) table.Cell {
	switch c.Kind {
	case table.CellText:
		val := c.Text
		if idx := strings.Index(val, " - "); idx >= 0 {
			val = val[:idx]
		}
		if t, ok := parseDateString(val); ok {
			return table.Date(t)
		}
		return table.Empty()
	case table.CellNumber:
		return table.Date(serialToDate(c.Number))
	case table.CellDate:
		return table.Date(c.Date)
	default:
		return table.Empty()
	}
}
