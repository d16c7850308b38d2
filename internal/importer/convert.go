package importer

// convert.go coerces raw source values into typed field payloads.
//
// Conversion is pure per value: the only lookup is the precomputed
// reference index, so a conversion can never block on I/O. A failed
// conversion yields a *ConversionError that the diff engine collects;
// it never aborts the record or the import.

import (
	"math"
	"strconv"
	"strings"

	"github.com/cmsbridge/importer/internal/collection"
)

// Convert converts the raw value of one column on one record into the
// target field's typed payload.
//
// A nil, nil return means the field has no value for this record and
// its key is omitted from the payload (the nullable case). Boolean
// fields never take that path: anything not matching the truthy
// pattern, including empty, is false.
func Convert(field collection.Field, column string, record RawRecord, refs ReferenceIndex) (FieldValue, error) {
	raw := record[column]
	trimmed := strings.TrimSpace(raw)

	switch field.Type {
	case collection.FieldString:
		return TextValue{Text: trimmed}, nil

	case collection.FieldFormattedText:
		// Markup is passed through untrimmed: leading whitespace can be
		// significant in markdown.
		if raw == "" {
			return nil, nil
		}
		return FormattedTextValue{Content: raw}, nil

	case collection.FieldColor:
		if trimmed == "" {
			return nil, nil
		}
		return ColorValue{Hex: trimmed}, nil

	case collection.FieldLink:
		if trimmed == "" {
			return nil, nil
		}
		return LinkValue{URL: trimmed}, nil

	case collection.FieldFile:
		if trimmed == "" {
			return nil, nil
		}
		return FileValue{URL: trimmed}, nil

	case collection.FieldImage:
		if trimmed == "" {
			return nil, nil
		}
		alt := strings.TrimSpace(record[column+AltColumnSuffix])
		return ImageValue{URL: trimmed, Alt: alt}, nil

	case collection.FieldNumber:
		if trimmed == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ConversionError{Field: field.Name, Value: trimmed, Reason: "not a number"}
		}
		return NumberValue{Value: f}, nil

	case collection.FieldBoolean:
		return BoolValue{Value: isTruthy(trimmed)}, nil

	case collection.FieldDate:
		if trimmed == "" {
			return nil, nil
		}
		t, hasTime, ok := parseDate(trimmed)
		if !ok {
			return nil, &ConversionError{Field: field.Name, Value: trimmed, Reason: "not a recognizable date"}
		}
		return DateValue{Time: t, IncludeTime: hasTime}, nil

	case collection.FieldEnum:
		return convertEnum(field, trimmed)

	case collection.FieldCollectionReference:
		if trimmed == "" {
			return nil, nil
		}
		id, ok := refs.Lookup(field.CollectionID, Slugify(trimmed))
		if !ok {
			return nil, &ConversionError{Field: field.Name, Value: trimmed, Reason: "no item with this slug in the referenced collection"}
		}
		return ReferenceValue{ItemID: id}, nil

	case collection.FieldMultiCollectionReference:
		return convertMultiReference(field, trimmed, refs)

	default:
		// array, divider, unsupported: not importable through this path.
		return nil, &ConversionError{Field: field.Name, Value: trimmed, Reason: "field type cannot be imported"}
	}
}

// convertEnum matches the value against case names (case-insensitive)
// or case ids. Enum fields cannot be empty: a missing value defaults to
// the first declared case.
func convertEnum(field collection.Field, value string) (FieldValue, error) {
	if value == "" {
		if len(field.Cases) == 0 {
			return nil, &ConversionError{Field: field.Name, Value: value, Reason: "enum field has no cases"}
		}
		return EnumValue{CaseID: field.Cases[0].ID}, nil
	}
	for _, c := range field.Cases {
		if strings.EqualFold(c.Name, value) || c.ID == value {
			return EnumValue{CaseID: c.ID}, nil
		}
	}
	return nil, &ConversionError{Field: field.Name, Value: value, Reason: "not one of the enum's cases"}
}

// convertMultiReference resolves a comma-separated slug list. All slugs
// must resolve; one unresolved slug fails the whole value rather than
// importing a silently partial list.
func convertMultiReference(field collection.Field, value string, refs ReferenceIndex) (FieldValue, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := refs.Lookup(field.CollectionID, Slugify(part))
		if !ok {
			return nil, &ConversionError{Field: field.Name, Value: part, Reason: "no item with this slug in the referenced collection"}
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return MultiReferenceValue{ItemIDs: ids}, nil
}
