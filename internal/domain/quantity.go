package domain

import (
	"regexp"
	"strings"
)

// UnitTag enumerates the measurement units recognized in inspector-entered
// quantity strings.
type UnitTag string

const (
	UnitSqFt  UnitTag = "sqft"
	UnitLF    UnitTag = "lf"
	UnitQty   UnitTag = "qty"
	UnitOther UnitTag = "other"
)

// Quantity is the structured form of a free-text quantity field, e.g.
// "500 SqFt" or "12 boxes". Value stays a string so the magnitude round-trips
// exactly as the inspector typed it. OtherUnitLabel is set only for UnitOther.
type Quantity struct {
	Value          string  `json:"value"`
	Unit           UnitTag `json:"unit"`
	OtherUnitLabel string  `json:"other_unit_label,omitempty"`
}

// quantityRe matches a numeric prefix (optional sign, digits, optional
// decimal fraction) followed by an optional unit token, e.g. "500 SqFt",
// "20LF", "-3.5 linear feet".
var quantityRe = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)\s*(.*)$`)

// numericValueRe reports whether a parsed Value is a bare number, i.e. the
// input matched the numeric-prefix pattern rather than the verbatim fallback.
var numericValueRe = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)

// ParseQuantity converts a free-text quantity string into a Quantity.
//
// An empty (after trimming) input yields the default {"", sqft, ""}. Input
// with no numeric prefix is preserved whole in Value with the sqft default —
// the inspector's text is never discarded, even when it was probably a
// qualitative note rather than a measurement. Unit tokens are matched
// case-insensitively; unrecognized tokens go to UnitOther with the token
// kept verbatim.
func ParseQuantity(raw string) Quantity {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Quantity{Value: "", Unit: UnitSqFt}
	}

	matches := quantityRe.FindStringSubmatch(trimmed)
	if matches == nil {
		return Quantity{Value: raw, Unit: UnitSqFt}
	}

	value := matches[1]
	token := strings.TrimSpace(matches[2])
	if token == "" {
		return Quantity{Value: value, Unit: UnitSqFt}
	}

	switch strings.ToLower(token) {
	case "sq ft", "sqft", "sf":
		return Quantity{Value: value, Unit: UnitSqFt}
	case "lf", "linear ft", "linear feet":
		return Quantity{Value: value, Unit: UnitLF}
	case "qty":
		return Quantity{Value: value, Unit: UnitQty}
	default:
		return Quantity{Value: value, Unit: UnitOther, OtherUnitLabel: token}
	}
}

// FormatQuantity serializes a Quantity back into display text. The second
// return value is false when no quantity is set (empty value), which callers
// treat as "leave the field blank".
func FormatQuantity(q Quantity) (string, bool) {
	value := strings.TrimSpace(q.Value)
	if value == "" {
		return "", false
	}

	var label string
	switch q.Unit {
	case UnitSqFt:
		label = "SqFt"
	case UnitLF:
		label = "LF"
	case UnitQty:
		label = "Qty"
	case UnitOther:
		label = strings.TrimSpace(q.OtherUnitLabel)
	}

	if label == "" {
		return value, true
	}
	return value + " " + label, true
}
