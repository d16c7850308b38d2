package importer

// date.go provides date parsing shared by the inferencer and the value
// converter. CSV exports carry dates in many shapes: ISO, slash and
// dash forms, 2-digit years, with or without a clock component.

import (
	"regexp"
	"strings"
	"time"
)

// twoDigitYearPivot controls 2-digit year interpretation: parsed years
// more than this many years in the future roll back a century.
const twoDigitYearPivot = 20

var (
	datetimeLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
	}
	dateLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006",
		"1-2-2006", "01-02-2006",
		"1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	shortYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06",
	}
)

// dateLikePatterns recognize textual date shapes. Inference requires at
// least one value in a column to match one of these before the column
// can be typed as a date, which keeps arbitrary strings that happen to
// survive time.Parse from being misclassified.
var dateLikePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].*)?$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}( .*)?$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}$`),
}

// looksLikeDate reports whether the value matches a recognizable
// textual date pattern.
func looksLikeDate(value string) bool {
	value = strings.TrimSpace(value)
	for _, p := range dateLikePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// parseDate parses a raw value into a UTC instant. hasTime reports a
// non-midnight clock component, which is what separates datetime from
// date columns.
func parseDate(value string) (t time.Time, hasTime bool, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}

	for _, layout := range datetimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return parsed, hasClock(parsed), true
		}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), false, true
		}
	}

	pivot := time.Now().Year() + twoDigitYearPivot
	for _, layout := range shortYearLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			if parsed.Year() > pivot {
				parsed = parsed.AddDate(-100, 0, 0)
			}
			return parsed.UTC(), false, true
		}
	}

	return time.Time{}, false, false
}

func hasClock(t time.Time) bool {
	h, m, s := t.UTC().Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}
