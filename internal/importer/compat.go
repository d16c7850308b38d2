package importer

// compat.go is the single type-compatibility oracle. It answers one
// question: can values of a source type be migrated into a target field
// of another type without silently importing garbage?
//
// The predicate is deliberately asymmetric: rich freeform sinks
// (string, formattedText) accept anything, while narrow typed sinks
// (number, boolean, date, color) accept only their own family.

// IsCompatible reports whether a value migration from source to target
// type is safe.
func IsCompatible(source, target VirtualType) bool {
	// date and datetime are the same host type with a display flag.
	if isDateFamily(source) && isDateFamily(target) {
		return true
	}
	if source == target {
		return true
	}

	switch target {
	case TypeReference, TypeMultiRef:
		// Reference ids travel as strings, so any primitive source can
		// carry them.
		return isPrimitive(source)
	case TypeString, TypeFormattedText:
		return true
	case TypeLink:
		return source == TypeString
	case TypeImage:
		return source == TypeLink || source == TypeString
	case TypeFile:
		return source == TypeImage || source == TypeLink || source == TypeString
	case TypeEnum:
		return source == TypeString
	}
	return false
}

func isDateFamily(t VirtualType) bool {
	return t == TypeDate || t == TypeDateTime
}

func isPrimitive(t VirtualType) bool {
	switch t {
	case TypeArray, TypeDivider, TypeUnsupported:
		return false
	}
	return true
}
