package model

import "time"

// Durations holds the configured length of each mode, in whole seconds.
type Durations struct {
	Sitting    int
	Stretching int
	Preparing  int
}

// DefaultDurations returns the compiled-in durations.
func DefaultDurations() Durations {
	return Durations{
		Sitting:    1800,
		Stretching: 300,
		Preparing:  10,
	}
}

// Of returns the configured seconds for mode.
func (durations Durations) Of(mode Mode) int {
	switch mode {
	case ModePreparing:
		return durations.Preparing
	case ModeStretching:
		return durations.Stretching
	default:
		return durations.Sitting
	}
}

// DurationOf returns the configured length of mode as a time.Duration.
func (durations Durations) DurationOf(mode Mode) time.Duration {
	return time.Duration(durations.Of(mode)) * time.Second
}

// With returns a copy with the duration of mode replaced.
func (durations Durations) With(mode Mode, seconds int) Durations {
	switch mode {
	case ModePreparing:
		durations.Preparing = seconds
	case ModeStretching:
		durations.Stretching = seconds
	default:
		durations.Sitting = seconds
	}
	return durations
}

// Range is an inclusive bound in seconds.
type Range struct {
	Min int
	Max int
}

// Clamp pins value into the range.
func (value Range) Clamp(seconds int) int {
	if seconds < value.Min {
		return value.Min
	}
	if value.Max > 0 && seconds > value.Max {
		return value.Max
	}
	return seconds
}

// Limits bounds each configurable duration.
type Limits struct {
	Sitting    Range
	Stretching Range
	Preparing  Range
}

// DefaultLimits returns the allowed ranges exposed to the user.
func DefaultLimits() Limits {
	return Limits{
		Sitting:    Range{Min: 60, Max: 240 * 60},
		Stretching: Range{Min: 60, Max: 240 * 60},
		Preparing:  Range{Min: 5, Max: 30},
	}
}

// For returns the range that applies to mode.
func (limits Limits) For(mode Mode) Range {
	switch mode {
	case ModePreparing:
		return limits.Preparing
	case ModeStretching:
		return limits.Stretching
	default:
		return limits.Sitting
	}
}

// Clamp pins every duration into its range.
func (limits Limits) Clamp(durations Durations) Durations {
	return Durations{
		Sitting:    limits.Sitting.Clamp(durations.Sitting),
		Stretching: limits.Stretching.Clamp(durations.Stretching),
		Preparing:  limits.Preparing.Clamp(durations.Preparing),
	}
}
