package table

import (
	"strconv"
	"strings"
	"time"
)

// DateLayouts is the ordered list of layouts tried when parsing order dates.
// ISO forms are preferred; dotted and slashed day-first forms cover the common
// European export styles. The list is configuration, not behavior: callers may
// substitute their own ordering.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

// ToFloat coerces a cell to a float64. Strings are parsed after trimming;
// numeric types pass through. The second return is false when the value is
// absent or unparsable — callers treat that as zero and count the anomaly
// rather than failing the run.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return f, true
		}
		// European exports write "2,5" for two and a half. A single comma
		// with no dot is a decimal separator, not a thousands separator.
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
				return f, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// ParseDate parses a cell as a calendar date using the given layouts in order.
// The returned time is truncated to the calendar day. The second return is
// false when the value is absent or no layout matches.
func ParseDate(v any, layouts []string) (time.Time, bool) {
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return day(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return day(t), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// day normalizes a timestamp to midnight UTC so distinct-day counting ignores
// the time-of-day and zone components.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AsString converts common cell types to their string form without fmt
// overhead on the usual cases. Nil converts to the empty string.
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return FormatCell(v)
	}
}
