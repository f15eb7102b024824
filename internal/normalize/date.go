package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateParts is the result of parsing a posting-date cell: the date itself
// plus the derived commission period keys.
type DateParts struct {
	Date     time.Time
	MonthKey string // "YYYY-MM"
	Year     int
}

// serialEpoch is the spreadsheet serial-date epoch (day 0 = 1899-12-30).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// slashDashLayouts are tried in order after serial, ISO, and 2-digit-year forms.
var slashDashLayouts = []string{
	"1/2/2006",
	"01-02-2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// FlexibleDate parses a posting date from any of the encodings seen in
// ERP exports: a numeric spreadsheet serial date, ISO YYYY-MM-DD,
// US slash or dash forms (2-digit years map to 2000+), and a handful of
// textual fallbacks. ok is false when nothing matches; the caller treats
// an absent date as an unknown period rather than failing the row.
func FlexibleDate(raw string) (DateParts, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateParts{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		// Plausible serial range: 1930-01-01 .. 2199-12-31.
		if serial >= 10959 && serial < 109574 {
			return fromTime(serialEpoch.AddDate(0, 0, int(math.Floor(serial)))), true
		}
		return DateParts{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return fromTime(t), true
	}

	// M/D/YY with the 2-digit year always mapped into 2000+, which is not
	// what the stdlib "06" layout does for years past 68.
	if parts := strings.Split(s, "/"); len(parts) == 3 && len(parts[2]) == 2 {
		if t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/20%s", parts[0], parts[1], parts[2])); err == nil {
			return fromTime(t), true
		}
	}

	for _, layout := range slashDashLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fromTime(t), true
		}
	}

	return DateParts{}, false
}

func fromTime(t time.Time) DateParts {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return DateParts{
		Date:     t,
		MonthKey: fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())),
		Year:     t.Year(),
	}
}

// MonthKey formats a (month, year) pair the way FlexibleDate derives it.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
