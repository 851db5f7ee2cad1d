package domain

import "time"

// ParseDate parses a canonical ledger date key.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateFormat, date)
}

// FormatDate renders a time as a ledger date key (UTC day).
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// AddDays shifts a date key by a number of calendar days.
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// DaysBetween returns how many whole days from have passed since until,
// i.e. a positive value when from is after until.
func DaysBetween(from, until string) (int, error) {
	a, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDate(until)
	if err != nil {
		return 0, err
	}
	return int(a.Sub(b).Hours() / 24), nil
}
