package cleaning

import (
	"testing"
	"time"

	"github.com/iccs-ops/apr-portal/pkg/table"
)

func TestDeriveRawDateFromRange(t *testing.T) {
	got := deriveRawDate(table.Text("08-09-2025 - 09-09-2025"))
	if got.String() != "08-09-2025" {
		t.Errorf("expected 08-09-2025, got %q", got.String())
	}
}

func TestDeriveRawDateDayFirst(t *testing.T) {
	got := deriveRawDate(table.Text("08-09-2025 10:15:00"))
	if got.String() != "08-09-2025" {
		t.Errorf("expected day-first parse 08-09-2025, got %q", got.String())
	}
}

func TestDeriveRawDateMonthName(t *testing.T) {
	got := deriveRawDate(table.Text("08-Sep-25 00:43:24"))
	if got.String() != "08-09-2025" {
		t.Errorf("expected 08-09-2025, got %q", got.String())
	}
}

func TestDeriveRawDateSerial(t *testing.T) {
	got := deriveRawDate(table.Number(45000))
	want := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 45000)
	if got.Kind != table.CellDate || !got.Date.Equal(want) {
		t.Errorf("expected %v, got %v", want, got.Date)
	}
	if got.String() != want.Format("02-01-2006") {
		t.Errorf("expected %s, got %s", want.Format("02-01-2006"), got.String())
	}
}

func TestDeriveRawDateSerialFraction(t *testing.T) {
	got := deriveRawDate(table.Number(45000.5))
	if got.Kind != table.CellDate {
		t.Fatalf("expected date cell, got kind %d", got.Kind)
	}
	if got.Date.Hour() != 12 {
		t.Errorf("expected noon from half-day fraction, got hour %d", got.Date.Hour())
	}
}

func TestDeriveRawDateUnparsable(t *testing.T) {
	got := deriveRawDate(table.Text("not a date"))
	if !got.IsEmpty() {
		t.Errorf("expected empty cell, got %v", got)
	}
	if got := deriveRawDate(table.Empty()); !got.IsEmpty() {
		t.Errorf("expected empty cell for empty input, got %v", got)
	}
}

func TestParseDateStringISO(t *testing.T) {
	parsed, ok := parseDateString("2025-09-08 14:00:00")
	if !ok {
		t.Fatal("expected ISO timestamp to parse")
	}
	if parsed.Day() != 8 || parsed.Month() != time.September {
		t.Errorf("unexpected date: %v", parsed)
	}
}
