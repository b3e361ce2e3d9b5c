package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMode_NextCycles(t *testing.T) {
	t.Parallel()

	mode := ModeSitting
	var seen []Mode
	for range 4 {
		mode = mode.Next()
		seen = append(seen, mode)
	}
	require.Equal(t, []Mode{ModePreparing, ModeStretching, ModeSitting, ModePreparing}, seen)
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		-3:    "00:00",
		0:     "00:00",
		9:     "00:09",
		61:    "01:01",
		1800:  "30:00",
		14400: "240:00",
	}
	for seconds, want := range cases {
		require.Equal(t, want, FormatClock(seconds), "seconds=%d", seconds)
	}
}

func TestLimits_Clamp(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	got := limits.Clamp(Durations{Sitting: 10, Stretching: 99999, Preparing: 31})
	require.Equal(t, Durations{Sitting: 60, Stretching: 14400, Preparing: 30}, got)

	require.Equal(t, DefaultDurations(), limits.Clamp(DefaultDurations()))
}

func TestDurations_WithAndOf(t *testing.T) {
	t.Parallel()

	durations := DefaultDurations().With(ModePreparing, 20)
	require.Equal(t, 20, durations.Of(ModePreparing))
	require.Equal(t, 1800, durations.Of(ModeSitting))
	require.Equal(t, 300, durations.Of(ModeStretching))
}
