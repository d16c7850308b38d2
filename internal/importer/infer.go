package importer

// infer.go scans column values across all records of an import and
// detects a virtual field type per column. Detection is strict: every
// non-empty value in the column must match before a type is assigned,
// and the first matching type in detection order wins.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	truthyValues = map[string]bool{"1": true, "y": true, "yes": true, "true": true}
	falsyValues  = map[string]bool{"0": true, "n": true, "no": true, "false": true}

	hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	urlPattern      = regexp.MustCompile(`^https?://\S+$`)

	htmlTagPattern      = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	markdownBoldItalic  = regexp.MustCompile(`(\*\*[^*]+\*\*|__[^_]+__|\*[^*\s][^*]*\*|_[^_\s][^_]*_)`)
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
)

// imageExtensions are URL suffixes recognized as hosted images.
var imageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif", ".bmp",
}

// allowedTargetTypes lists, per inferred type, the target types the
// column's values could be coerced into. Presented as edit choices; not
// the compatibility predicate used against existing target fields.
var allowedTargetTypes = map[VirtualType][]VirtualType{
	TypeString:        {TypeString, TypeFormattedText, TypeLink, TypeColor, TypeFile, TypeImage, TypeEnum},
	TypeFormattedText: {TypeFormattedText, TypeString},
	TypeNumber:        {TypeNumber, TypeString, TypeFormattedText},
	TypeBoolean:       {TypeBoolean, TypeString, TypeFormattedText},
	TypeDate:          {TypeDate, TypeString, TypeFormattedText},
	TypeDateTime:      {TypeDateTime, TypeDate, TypeString, TypeFormattedText},
	TypeColor:         {TypeColor, TypeString, TypeFormattedText},
	TypeLink:          {TypeLink, TypeImage, TypeFile, TypeString, TypeFormattedText},
	TypeImage:         {TypeImage, TypeLink, TypeFile, TypeString, TypeFormattedText},
}

// AllowedTargetTypes returns the coercion choices for an inferred type.
func AllowedTargetTypes(t VirtualType) []VirtualType {
	if allowed, ok := allowedTargetTypes[t]; ok {
		out := make([]VirtualType, len(allowed))
		copy(out, allowed)
		return out
	}
	return []VirtualType{t}
}

// InferFields inspects every content column of the record set and
// returns one InferredField per column, in source column order. A
// column whose values are all empty infers to string.
func InferFields(set *RecordSet) []InferredField {
	fields := make([]InferredField, 0, len(set.Columns))
	for _, col := range set.Columns {
		var values []string
		for _, record := range set.Records {
			if v := strings.TrimSpace(record[col]); v != "" {
				values = append(values, v)
			}
		}
		t := inferType(values)
		fields = append(fields, InferredField{
			Column:       col,
			Name:         col,
			Type:         t,
			AllowedTypes: AllowedTargetTypes(t),
		})
	}
	return fields
}

// inferType detects the type of a column from its non-empty values.
// Order matters: each detector is stricter than the ones after it.
func inferType(values []string) VirtualType {
	if len(values) == 0 {
		return TypeString
	}

	switch {
	case allOf(values, isBooleanValue):
		return TypeBoolean
	case allOf(values, isNumberValue):
		return TypeNumber
	case allOf(values, isDateValue) && anyOf(values, looksLikeDate):
		if anyOf(values, isDateTimeValue) {
			return TypeDateTime
		}
		return TypeDate
	case allOf(values, hexColorPattern.MatchString):
		return TypeColor
	case allOf(values, isImageURL):
		return TypeImage
	case allOf(values, urlPattern.MatchString):
		return TypeLink
	case anyOf(values, isFormattedText):
		return TypeFormattedText
	default:
		return TypeString
	}
}

func isBooleanValue(v string) bool {
	v = strings.ToLower(v)
	return truthyValues[v] || falsyValues[v]
}

// isTruthy reports whether the value matches the truthy pattern. Used
// by both inference and boolean conversion, which never fails: anything
// not truthy is false.
func isTruthy(v string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(v))]
}

func isNumberValue(v string) bool {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	// ParseFloat accepts "Inf" and "NaN"; neither is an importable number.
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isDateValue(v string) bool {
	_, _, ok := parseDate(v)
	return ok
}

func isDateTimeValue(v string) bool {
	_, hasTime, ok := parseDate(v)
	return ok && hasTime
}

func isImageURL(v string) bool {
	if !urlPattern.MatchString(v) {
		return false
	}
	lower := strings.ToLower(v)
	// Ignore a query string when checking the extension.
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isFormattedText(v string) bool {
	return htmlTagPattern.MatchString(v) ||
		markdownBoldItalic.MatchString(v) ||
		markdownLinkPattern.MatchString(v)
}

func allOf(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func anyOf(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}
