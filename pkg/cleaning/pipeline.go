package cleaning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/mapping"
	"github.com/iccs-ops/apr-portal/pkg/table"
)

// RawDateColumn is guaranteed to exist in cleaned output whenever at least
// one row yields a parsable date.
const RawDateColumn = "Raw Date"

var ErrColumnsNotFound = errors.New("one or more required columns not found")

// Transient working columns, dropped before serialization.
const (
	loginMinutesColumn = "Login Duration (minutes)"
	breakMinutesColumn = "Total Break Duration (minutes)"
	netMinutesColumn   = "Minutes"
)

var (
	wordTruncateRe = regexp.MustCompile(`(?i)\b(grand total|admin|total)\b`)
	summaryMarkers = []string{"campaign summary", "summary", "noagent"}
)

// Pipeline normalizes heterogeneous per-process report exports into a
// canonical CSV artifact.
type Pipeline struct {
	resolver *mapping.Resolver
	catalog  Catalog
	cleanDir func(process string) string
}

func NewPipeline(resolver *mapping.Resolver, catalog Catalog, cleanDir func(process string) string) *Pipeline {
	return &Pipeline{resolver: resolver, catalog: catalog, cleanDir: cleanDir}
}

// Clean runs the full transformation and writes the artifact to
// <cleanDir>/<base>.csv, overwriting any previous run for the same upload.
// Mapping and required-column failures return typed errors for the caller to
// report; the original file is never modified.
func (p *Pipeline) Clean(filePath, processName string) (string, error) {
	m, err := p.resolver.Resolve(processName)
	if err != nil {
		return "", err
	}

	tbl, err := table.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	rules := p.catalog.Rules(processName)

	for _, col := range rules.TimeColumns {
		if idx := tbl.ColumnIndex(col); idx >= 0 {
			for _, row := range tbl.Rows {
				row[idx] = table.Text(NormalizeClockTime(row[idx].String()))
			}
		}
	}

	if !tbl.HasColumns(m.LoginColumn, m.BreakColumn, m.FirstLoginColumn) {
		return "", ErrColumnsNotFound
	}

	excludeRows(tbl, rules)

	loginIdx := tbl.ColumnIndex(m.LoginColumn)
	breakIdx := tbl.ColumnIndex(m.BreakColumn)
	firstLoginIdx := tbl.ColumnIndex(m.FirstLoginColumn)

	loginMinutes := make([]table.Cell, len(tbl.Rows))
	breakMinutes := make([]table.Cell, len(tbl.Rows))
	netMinutes := make([]table.Cell, len(tbl.Rows))
	rawDates := make([]table.Cell, len(tbl.Rows))
	for i, row := range tbl.Rows {
		login := timeToMinutes(row[loginIdx])
		brk := timeToMinutes(row[breakIdx])
		loginMinutes[i] = table.Number(login)
		breakMinutes[i] = table.Number(brk)
		netMinutes[i] = table.Number(login - brk)
		rawDates[i] = deriveRawDate(row[firstLoginIdx])
	}
	tbl.SetColumn(loginMinutesColumn, loginMinutes)
	tbl.SetColumn(breakMinutesColumn, breakMinutes)
	tbl.SetColumn(netMinutesColumn, netMinutes)
	tbl.SetColumn(RawDateColumn, rawDates)

	tbl.DropColumns(loginMinutesColumn, breakMinutesColumn, netMinutesColumn)
	tbl.DropEmptyColumns()

	dir := p.cleanDir(processName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating clean dir: %w", err)
	}

	base := filepath.Base(filePath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	cleanedPath := filepath.Join(dir, base+".csv")

	out, err := os.Create(cleanedPath)
	if err != nil {
		return "", fmt.Errorf("creating cleaned file: %w", err)
	}
	defer out.Close()

	if err := tbl.WriteCSV(out); err != nil {
		return "", fmt.Errorf("writing cleaned file: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"process": processName,
		"rows":    len(tbl.Rows),
		"path":    cleanedPath,
	}).Info("Cleaned file written")

	return cleanedPath, nil
}

// excludeRows applies the row-level filters in their required order:
// truncation first, then summary markers, then per-process extras.
func excludeRows(tbl *table.Table, rules RuleSet) {
	if idx := truncationIndex(tbl, rules.Truncation); idx >= 0 {
		tbl.Truncate(idx)
	}

	tbl.FilterRows(func(row []table.Cell) bool {
		return !rowContainsAny(row, summaryMarkers)
	})

	if rules.DropRowsWhenNameEmpty != "" {
		if nameIdx := tbl.ColumnIndex(rules.DropRowsWhenNameEmpty); nameIdx >= 0 {
			tbl.FilterRows(func(row []table.Cell) bool {
				return !isMissingName(row[nameIdx])
			})
		}
	}

	if rules.DropLastRow && len(tbl.Rows) > 0 {
		tbl.Rows = tbl.Rows[:len(tbl.Rows)-1]
	}

	if len(rules.DropRowsContaining) > 0 {
		markers := make([]string, len(rules.DropRowsContaining))
		for i, m := range rules.DropRowsContaining {
			markers[i] = strings.ToLower(m)
		}
		tbl.FilterRows(func(row []table.Cell) bool {
			return !rowContainsAny(row, markers)
		})
	}
}

// truncationIndex finds the first summary row per the process's style, or -1.
func truncationIndex(tbl *table.Table, style string) int {
	for i, row := range tbl.Rows {
		for _, cell := range row {
			if style == TruncateWord {
				if cell.Kind == table.CellText && wordMatch(cell.Text) {
					return i
				}
			} else {
				lower := strings.ToLower(cell.String())
				if strings.Contains(lower, "total") || strings.Contains(lower, "admin") {
					return i
				}
			}
		}
	}
	return -1
}

// wordMatch reports a whole-word admin/total/grand total hit that is not
// immediately followed by '(' or '-'. A following word character is already
// ruled out by the word boundary.
func wordMatch(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, loc := range wordTruncateRe.FindAllStringIndex(trimmed, -1) {
		if loc[1] >= len(trimmed) {
			return true
		}
		next := trimmed[loc[1]]
		if next != '(' && next != '-' {
			return true
		}
	}
	return false
}

func rowContainsAny(row []table.Cell, lowerMarkers []string) bool {
	for _, cell := range row {
		lower := strings.ToLower(cell.String())
		for _, marker := range lowerMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// isMissingName treats blank cells and the literal strings exports use for
// missing values as absent.
func isMissingName(c table.Cell) bool {
	if c.IsEmpty() {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.String())) {
	case "null", "nan", "none", "":
		return true
	}
	return false
}
