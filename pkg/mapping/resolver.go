package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrMapFileNotFound = errors.New("mapping file not found")
	ErrMappingNotFound = errors.New("no mapping found for process")
)

// ProcessMapping carries the per-process column semantics: which uploaded
// columns hold login duration, break duration and the first-login timestamp,
// plus the code prefixed onto exported copies.
type ProcessMapping struct {
	Process          string
	LoginColumn      string
	BreakColumn      string
	FirstLoginColumn string
	ExportCode       string
}

// Resolver looks up process mappings from a headerless flat CSV
// [process, loginCol, breakCol, firstLoginCol, exportCode]. The table is
// re-read on every call; it is tiny and edited out-of-band by operators.
type Resolver struct {
	mapPath string
}

func NewResolver(mapPath string) *Resolver {
	return &Resolver{mapPath: mapPath}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve returns the first row whose process name matches after
// trim+lowercase normalization.
func (r *Resolver) Resolve(processName string) (*ProcessMapping, error) {
	f, err := os.Open(r.mapPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMapFileNotFound
		}
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()

	return resolveFrom(f, processName)
}

func resolveFrom(rd io.Reader, processName string) (*ProcessMapping, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	want := normalize(processName)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing mapping file: %w", err)
		}
		if len(record) == 0 || normalize(record[0]) != want {
			continue
		}
		m := &ProcessMapping{Process: strings.TrimSpace(record[0])}
		if len(record) > 1 {
			m.LoginColumn = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			m.BreakColumn = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			m.FirstLoginColumn = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			m.ExportCode = strings.TrimSpace(record[4])
		}
		return m, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMappingNotFound, processName)
}

// LoadProcesses reads the headerless single-column process list offered at
// the upload boundary. A missing file yields an empty list, not an error.
func LoadProcesses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening process list: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	var processes []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing process list: %w", err)
		}
		if len(record) > 0 && strings.TrimSpace(record[0]) != "" {
			processes = append(processes, strings.TrimSpace(record[0]))
		}
	}
	return processes, nil
}
