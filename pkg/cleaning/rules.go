package cleaning

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Truncation styles for the Total/Admin summary-row cut.
const (
	// TruncateSubstring cuts at the first row with a cell containing
	// "Total" or "Admin" anywhere in the text.
	TruncateSubstring = "substring"
	// TruncateWord cuts only on whole-word admin/total/grand total matches
	// that are not immediately followed by '(', '-' or a word character, so
	// agent names like "Total-Calls" survive.
	TruncateWord = "word"
)

// RuleSet is the per-process cleaning behavior. The zero value is the
// default treatment: substring truncation and no extra rules.
type RuleSet struct {
	// TimeColumns get rewritten with the clock-time normalizer before
	// anything else (mm:ss or hh:mm:ss with optional fraction -> hh:mm:ss).
	TimeColumns []string `yaml:"time_columns"`
	Truncation  string   `yaml:"truncation"`
	// DropRowsWhenNameEmpty names an agent column; rows where it is
	// null/nan/none/blank are dropped.
	DropRowsWhenNameEmpty string `yaml:"drop_rows_when_name_empty"`
	DropLastRow           bool   `yaml:"drop_last_row"`
	// DropRowsContaining drops rows with any cell containing one of these
	// substrings (case-insensitive).
	DropRowsContaining []string `yaml:"drop_rows_containing"`
}

// Catalog maps normalized process names to their rule sets.
type Catalog struct {
	Processes map[string]RuleSet `yaml:"processes"`
}

// LoadCatalog reads rule overrides from a YAML file; an empty path returns
// the compiled-in defaults.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Processes) == 0 {
		return Catalog{}, fmt.Errorf("rule catalog empty")
	}
	normalized := make(map[string]RuleSet, len(cat.Processes))
	for name, rules := range cat.Processes {
		normalized[normalizeProcess(name)] = rules
	}
	cat.Processes = normalized
	return cat, nil
}

// Rules returns the rule set for a process, or the default zero value.
func (c Catalog) Rules(processName string) RuleSet {
	if c.Processes == nil {
		return RuleSet{}
	}
	return c.Processes[normalizeProcess(processName)]
}

func normalizeProcess(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultCatalog carries the special cases accumulated from production
// report formats. Everything not listed gets the zero-value treatment.
func DefaultCatalog() Catalog {
	return Catalog{Processes: map[string]RuleSet{
		"jvvnl": {
			TimeColumns: []string{
				"TOTAL_LOGIN_TIME",
				"TOTAL_BREAK_TIME",
				"TOTAL_RING_DELAY",
				"TOTAL_TALK_TIME",
				"TOTAL_WRAP_UP_TIME",
				"AVERAGE_TALK_TIME",
				"AVERAGE_WRAP_UP_TIME",
				"AVERAGE_HANDLING_TIME",
			},
		},
		"mpokket collection apr": {
			Truncation: TruncateWord,
		},
		"mpokket collection breakcode": {
			Truncation: TruncateWord,
		},
		"meity": {
			DropRowsWhenNameEmpty: "AGENT_NAME",
		},
		"dish tv-backend": {
			DropLastRow: true,
		},
		"dish ib-chennai": {
			DropLastRow: true,
		},
		"d2h & dish 44 - server": {
			DropRowsContaining: []string{"Day Total"},
		},
	}}
}
