package importer

// report.go renders the commit report as a plain-text summary. All the
// per-row noise collected during the diff pass surfaces here, batched
// into a few readable sentences; the user is never interrupted per row.

import (
	"fmt"
	"sort"
	"strings"
)

// MaxNamedFields caps how many field names the summary spells out
// before collapsing the rest into an "and K more" tail.
const MaxNamedFields = 3

// Summary renders the report as a human-readable message.
func (r *Report) Summary() string {
	var lines []string

	total := r.Added + r.Updated + r.Skipped
	lines = append(lines, fmt.Sprintf("Imported %s: %d added, %d updated, %d skipped.",
		pluralize(total, "item"), r.Added, r.Updated, r.Skipped))

	if dropped := r.Warnings.MissingSlugs + r.Warnings.DuplicateSlugs; dropped > 0 {
		var reasons []string
		if r.Warnings.MissingSlugs > 0 {
			reasons = append(reasons, fmt.Sprintf("%d with no slug value", r.Warnings.MissingSlugs))
		}
		if r.Warnings.DuplicateSlugs > 0 {
			reasons = append(reasons, fmt.Sprintf("%d with a duplicate slug", r.Warnings.DuplicateSlugs))
		}
		lines = append(lines, fmt.Sprintf("%s dropped: %s.",
			pluralize(dropped, "record"), strings.Join(reasons, ", ")))
	}

	if r.Warnings.SkippedValues > 0 {
		lines = append(lines, fmt.Sprintf("%s could not be converted and %s left empty (%s).",
			pluralize(r.Warnings.SkippedValues, "value"),
			wasWere(r.Warnings.SkippedValues),
			describeSkippedFields(r.Warnings.SkippedFields)))
	}

	return strings.Join(lines, " ")
}

// describeSkippedFields names the affected fields with per-field
// counts, alphabetically, truncated after MaxNamedFields.
func describeSkippedFields(fields map[string]int) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, fields[name]))
	}
	return joinTruncated(parts, MaxNamedFields)
}

// joinTruncated joins up to max items grammatically and collapses the
// overflow: "a, b and c" or "a, b, c and 2 more".
func joinTruncated(items []string, max int) string {
	switch {
	case len(items) == 0:
		return ""
	case len(items) == 1:
		return items[0]
	case len(items) <= max:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	default:
		return fmt.Sprintf("%s and %d more", strings.Join(items[:max], ", "), len(items)-max)
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
