package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// monthAbbreviations lists the month tokens used in IRTECON date lines, in calendar order.
var monthAbbreviations = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ParseTimestamp converts "HH:MM:SS DD-Mon-YYYY" into a time value.
// The result carries no zone information and is expressed in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	clock, date, ok := splitFirstField(s)
	if !ok || date == "" {
		return time.Time{}, fmt.Errorf("%w: expected time and date in %q", ErrMalformedTimestamp, s)
	}

	clockParts := strings.Split(clock, ":")
	if len(clockParts) != 3 {
		return time.Time{}, fmt.Errorf("%w: time %q is not HH:MM:SS", ErrMalformedTimestamp, clock)
	}
	var hms [3]int
	for i, part := range clockParts {
		v, err := atoiTrimmed(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: time field %q: %v", ErrMalformedTimestamp, part, err)
		}
		hms[i] = v
	}

	dateParts := strings.Split(date, "-")
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q is not DD-Mon-YYYY", ErrMalformedTimestamp, date)
	}
	day, err := atoiTrimmed(dateParts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q: %v", ErrMalformedTimestamp, dateParts[0], err)
	}
	month := monthNumber(dateParts[1])
	if month == 0 {
		return time.Time{}, fmt.Errorf("%w: unknown month %q", ErrMalformedTimestamp, dateParts[1])
	}
	year, err := atoiTrimmed(dateParts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q: %v", ErrMalformedTimestamp, dateParts[2], err)
	}

	if err := checkTimestampRange(year, month, day, hms[0], hms[1], hms[2]); err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hms[0], hms[1], hms[2], 0, time.UTC), nil
}

// monthNumber returns the 1-based month for an abbreviation, or 0 if unknown.
func monthNumber(abbr string) int {
	for i, m := range monthAbbreviations {
		if m == abbr {
			return i + 1
		}
	}
	return 0
}

// time.Date normalizes out-of-range values; a file stating 25:00:00 or 31-Feb is rejected instead.
func checkTimestampRange(year, month, day, hour, minute, second int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrMalformedTimestamp, year)
	}
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > daysInMonth {
		return fmt.Errorf("%w: day %d out of range for month %d", ErrMalformedTimestamp, day, month)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return fmt.Errorf("%w: time %02d:%02d:%02d out of range", ErrMalformedTimestamp, hour, minute, second)
	}
	return nil
}

func atoiTrimmed(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// splitFirstField splits s on its first run of whitespace after skipping leading blanks.
// The rest keeps its trailing characters. ok is false when s holds no field at all.
func splitFirstField(s string) (first, rest string, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", "", false
	}
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, "", true
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace), true
}
