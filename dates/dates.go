// Package dates holds the pure date helpers shared by the scraper and the
// export generator: Gregorian normalization, ISO conversion and Persian
// digit handling. No I/O.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Parse layouts tried in priority order: year-first, month-first, day-first.
var layouts = []string{"2006/1/2", "1/2/2006", "2/1/2006"}

const canonicalLayout = "1/2/2006"

// Normalize converts a raw Gregorian date string to the canonical unpadded
// M/D/YYYY form. Any trailing time component is dropped and '-' separators
// are unified to '/'. When no layout matches, a heuristic split is tried:
// a 4-digit leading part is read as Y/M/D, a 4-digit trailing part as D/M/Y.
// If everything fails the trimmed input is returned unchanged; callers that
// need a hard guarantee must go through ToISO and check for "".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	datePart := strings.Fields(s)[0]
	datePart = strings.ReplaceAll(datePart, "-", "/")

	for _, layout := range layouts {
		if t, err := time.Parse(layout, datePart); err == nil {
			return formatCanonical(t)
		}
	}
	if t, ok := splitHeuristic(datePart); ok {
		return formatCanonical(t)
	}
	return s
}

// ToISO normalizes raw and reformats it as zero-padded YYYY-MM-DD.
// Returns "" on any failure; it never reports an error, callers drop
// records with an empty result.
func ToISO(raw string) string {
	normalized := Normalize(raw)
	t, err := time.Parse(canonicalLayout, normalized)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatCanonical(t time.Time) string {
	return strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day()) + "/" + strconv.Itoa(t.Year())
}

func splitHeuristic(datePart string) (time.Time, bool) {
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	var y, m, d int
	switch {
	case len(parts[0]) == 4:
		y, m, d = nums[0], nums[1], nums[2]
	case len(parts[2]) == 4:
		d, m, y = nums[0], nums[1], nums[2]
	default:
		return time.Time{}, false
	}

	// time.Date silently rolls over out-of-range components, so build the
	// date and verify it round-trips before accepting it.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

var digitMap = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// ASCIIDigits maps Persian and Arabic-Indic digit glyphs to their ASCII
// equivalents, leaving every other rune untouched.
func ASCIIDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if ascii, ok := digitMap[r]; ok {
			return ascii
		}
		return r
	}, s)
}

// MonthDay extracts the day-of-month from a Jalali date shaped like
// YYYY/MM/DD (site rendering, possibly in Persian digits). Returns 0 when
// the day cannot be determined.
func MonthDay(jalaliDate string) int {
	parts := strings.Split(strings.TrimSpace(jalaliDate), "/")
	if len(parts) != 3 {
		return 0
	}
	day, err := strconv.Atoi(strings.TrimSpace(ASCIIDigits(parts[2])))
	if err != nil || day < 1 || day > 31 {
		return 0
	}
	return day
}
