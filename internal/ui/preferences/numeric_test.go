package preferences

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sitstretch/internal/core/model"
)

func TestFieldForDefaultLimits(t *testing.T) {
	t.Parallel()

	limits := model.DefaultLimits()
	require.Equal(t, NumericField{Min: 1, Max: 240, Unit: 60}, FieldFor(model.ModeSitting, limits))
	require.Equal(t, NumericField{Min: 60, Max: 999, Unit: 1}, FieldFor(model.ModeStretching, limits))
	require.Equal(t, NumericField{Min: 5, Max: 30, Unit: 1}, FieldFor(model.ModePreparing, limits))
}

func TestNumericFieldFilter(t *testing.T) {
	t.Parallel()

	field := NumericField{Min: 1, Max: 240, Unit: 60}
	require.Equal(t, "12", field.Filter("1", "12"))
	require.Equal(t, "123", field.Filter("123", "1234"))
	require.Equal(t, "12", field.Filter("12", "12a"))
	require.Equal(t, "", field.Filter("1", ""))
	require.Equal(t, "5", field.Filter("5", "-5"))
}

func TestNumericFieldCommit(t *testing.T) {
	t.Parallel()

	sitting := NumericField{Min: 1, Max: 240, Unit: 60}
	cases := []struct {
		text    string
		value   int
		seconds int
	}{
		{text: "30", value: 30, seconds: 1800},
		{text: "", value: 1, seconds: 60},
		{text: "0", value: 1, seconds: 60},
		{text: "999", value: 240, seconds: 14400},
		{text: "abc", value: 1, seconds: 60},
	}

	for _, tc := range cases {
		value, seconds := sitting.Commit(tc.text)
		require.Equal(t, tc.value, value, tc.text)
		require.Equal(t, tc.seconds, seconds, tc.text)
	}
}

func TestNumericFieldDisplay(t *testing.T) {
	t.Parallel()

	require.Equal(t, "30", NumericField{Min: 1, Max: 240, Unit: 60}.Display(1830))
	require.Equal(t, "10", NumericField{Min: 5, Max: 30, Unit: 1}.Display(10))
	require.Equal(t, "7", NumericField{Min: 5, Max: 30}.Display(7))
}
