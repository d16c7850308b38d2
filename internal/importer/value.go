package importer

// value.go defines the closed set of typed payloads a converted field
// value can take. Raw values from CSV cells or API objects are coerced
// into exactly one of these variants at the conversion boundary; from
// there on no code inspects raw strings again.

import "time"

// FieldValue is one typed field payload. The concrete types below are
// the only implementations.
type FieldValue interface {
	// ValueType identifies the variant.
	ValueType() VirtualType
	// Payload returns the JSON-ready value written to the store.
	Payload() any
}

// TextValue is a plain string field value.
type TextValue struct {
	Text string
}

func (v TextValue) ValueType() VirtualType { return TypeString }
func (v TextValue) Payload() any           { return v.Text }

// FormattedTextValue carries markup (HTML or markdown) verbatim.
type FormattedTextValue struct {
	Content string
}

func (v FormattedTextValue) ValueType() VirtualType { return TypeFormattedText }
func (v FormattedTextValue) Payload() any           { return v.Content }

// NumberValue is a finite numeric field value.
type NumberValue struct {
	Value float64
}

func (v NumberValue) ValueType() VirtualType { return TypeNumber }
func (v NumberValue) Payload() any           { return v.Value }

// BoolValue is a boolean field value.
type BoolValue struct {
	Value bool
}

func (v BoolValue) ValueType() VirtualType { return TypeBoolean }
func (v BoolValue) Payload() any           { return v.Value }

// DateValue is a normalized UTC instant. IncludeTime records whether
// the source carried a clock component; without it the payload is
// truncated to the day.
type DateValue struct {
	Time        time.Time
	IncludeTime bool
}

func (v DateValue) ValueType() VirtualType {
	if v.IncludeTime {
		return TypeDateTime
	}
	return TypeDate
}

func (v DateValue) Payload() any {
	if v.IncludeTime {
		return v.Time.UTC().Format(time.RFC3339)
	}
	return v.Time.UTC().Format("2006-01-02")
}

// ColorValue is a hex color field value.
type ColorValue struct {
	Hex string
}

func (v ColorValue) ValueType() VirtualType { return TypeColor }
func (v ColorValue) Payload() any           { return v.Hex }

// LinkValue is a URL field value.
type LinkValue struct {
	URL string
}

func (v LinkValue) ValueType() VirtualType { return TypeLink }
func (v LinkValue) Payload() any           { return v.URL }

// FileValue is a hosted file URL field value.
type FileValue struct {
	URL string
}

func (v FileValue) ValueType() VirtualType { return TypeFile }
func (v FileValue) Payload() any           { return v.URL }

// ImageValue is a hosted image URL with optional alt text.
type ImageValue struct {
	URL string
	Alt string
}

func (v ImageValue) ValueType() VirtualType { return TypeImage }

func (v ImageValue) Payload() any {
	if v.Alt == "" {
		return map[string]any{"url": v.URL}
	}
	return map[string]any{"url": v.URL, "alt": v.Alt}
}

// EnumValue references one declared case of an enum field by id.
type EnumValue struct {
	CaseID string
}

func (v EnumValue) ValueType() VirtualType { return TypeEnum }
func (v EnumValue) Payload() any           { return v.CaseID }

// ReferenceValue points at one item of another collection by id.
type ReferenceValue struct {
	ItemID string
}

func (v ReferenceValue) ValueType() VirtualType { return TypeReference }
func (v ReferenceValue) Payload() any           { return v.ItemID }

// MultiReferenceValue points at several items of another collection.
type MultiReferenceValue struct {
	ItemIDs []string
}

func (v MultiReferenceValue) ValueType() VirtualType { return TypeMultiRef }
func (v MultiReferenceValue) Payload() any           { return v.ItemIDs }
