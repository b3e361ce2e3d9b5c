package preferences

import (
	"strconv"

	"sitstretch/internal/core/model"
)

// maxDigits caps how many characters a duration field accepts.
const maxDigits = 3

// NumericField holds the commit rules of one duration entry. Min and Max
// are in field units; Unit converts a field value to seconds.
type NumericField struct {
	Min  int
	Max  int
	Unit int
}

// FieldFor derives the entry rules for mode from limits. Sitting is edited
// in minutes, the other modes in seconds.
func FieldFor(mode model.Mode, limits model.Limits) NumericField {
	bounds := limits.For(mode)
	unit := 1
	if mode == model.ModeSitting {
		unit = 60
	}
	field := NumericField{
		Min:  ceilDiv(bounds.Min, unit),
		Max:  bounds.Max / unit,
		Unit: unit,
	}
	if limit := maxFieldValue(); field.Max <= 0 || field.Max > limit {
		field.Max = limit
	}
	if field.Min > field.Max {
		field.Min = field.Max
	}
	return field
}

// Display renders seconds the way the field shows them.
func (field NumericField) Display(seconds int) string {
	return strconv.Itoa(seconds / field.unit())
}

// Filter returns the text to keep after an edit: input is cut to three
// characters and anything that is not all digits is refused.
func (field NumericField) Filter(previous, typed string) string {
	if len(typed) > maxDigits {
		typed = typed[:maxDigits]
	}
	for _, r := range typed {
		if r < '0' || r > '9' {
			return previous
		}
	}
	return typed
}

// Commit resolves text to a clamped field value and the seconds it stands
// for. Empty or unparsable input falls back to the minimum.
func (field NumericField) Commit(text string) (int, int) {
	value, err := strconv.Atoi(text)
	if err != nil {
		value = field.Min
	}
	if value < field.Min {
		value = field.Min
	}
	if value > field.Max {
		value = field.Max
	}
	return value, value * field.unit()
}

func (field NumericField) unit() int {
	if field.Unit <= 0 {
		return 1
	}
	return field.Unit
}

func maxFieldValue() int {
	limit := 1
	for range maxDigits {
		limit *= 10
	}
	return limit - 1
}

func ceilDiv(value, divisor int) int {
	return (value + divisor - 1) / divisor
}
