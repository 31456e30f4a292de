package cleaning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iccs-ops/apr-portal/pkg/table"
)

// NormalizeClockTime rewrites dialer time exports of the shape mm:ss[.frac]
// or hh:mm:ss[.frac] into zero-padded hh:mm:ss. Blank or unparsable input
// becomes "00:00:00"; fractional seconds are truncated, not rounded.
func NormalizeClockTime(val string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return "00:00:00"
	}

	main := val
	if dot := strings.Index(val, "."); dot >= 0 {
		main = val[:dot]
	}

	parts := strings.Split(main, ":")
	switch len(parts) {
	case 2: // mm:ss
		mm, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		ss, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return "00:00:00"
		}
		return fmt.Sprintf("00:%02d:%02d", mm, ss)
	case 3: // hh:mm:ss
		hh, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		mm, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		ss, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return "00:00:00"
		}
		return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
	default:
		return "00:00:00"
	}
}

// timeToMinutes converts a duration cell to fractional minutes. Strings must
// be hh:mm:ss; unparsable strings count as zero. Numeric cells pass through
// unchanged (some exports already hold minutes), date cells contribute their
// time of day.
func timeToMinutes(c table.Cell) float64 {
	switch c.Kind {
	case table.CellText:
		parts := strings.Split(strings.TrimSpace(c.Text), ":")
		if len(parts) != 3 {
			return 0
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		s, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0
		}
		return float64(h)*60 + float64(m) + float64(s)/60
	case table.CellNumber:
		return c.Number
	case table.CellDate:
		return float64(c.Date.Hour())*60 + float64(c.Date.Minute()) + float64(c.Date.Second())/60
	default:
		return 0
	}
}
