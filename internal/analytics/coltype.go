package analytics

import "strings"

// ColumnKind is the semantic class of a column used to pick an aggregation.
type ColumnKind string

const (
	KindString ColumnKind = "string"
	KindNumber ColumnKind = "number"
)

var numericMarkers = []string{"int", "float", "double", "decimal", "numeric", "real"}

// NormalizeType maps a raw store type to string or number. Unknown types are
// treated as categorical so they are never summed by accident.
func NormalizeType(rawType string) ColumnKind {
	t := strings.ToLower(strings.TrimSpace(rawType))
	if t == "number" {
		return KindNumber
	}
	for _, marker := range numericMarkers {
		if strings.Contains(t, marker) {
			return KindNumber
		}
	}
	// char/text and anything unrecognized
	return KindString
}

// IsIntegerType reports whether a raw type holds whole numbers only, which is
// when a SUM can be cast to a 64-bit integer without losing anything.
func IsIntegerType(rawType string) bool {
	t := strings.ToLower(strings.TrimSpace(rawType))
	if strings.Contains(t, "interval") || strings.Contains(t, "point") {
		return false
	}
	return strings.Contains(t, "int") || t == "serial" || t == "bigserial" || t == "smallserial"
}
