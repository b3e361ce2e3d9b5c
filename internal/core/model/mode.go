package model

import "fmt"

// Mode is the phase the timer is in.
type Mode string

const (
	ModeSitting    Mode = "sitting"
	ModePreparing  Mode = "preparing"
	ModeStretching Mode = "stretching"
)

// Next returns the mode that follows in the cycle
// sitting -> preparing -> stretching -> sitting.
func (mode Mode) Next() Mode {
	switch mode {
	case ModeSitting:
		return ModePreparing
	case ModePreparing:
		return ModeStretching
	default:
		return ModeSitting
	}
}

// Title returns a human readable label.
func (mode Mode) Title() string {
	switch mode {
	case ModePreparing:
		return "Get ready"
	case ModeStretching:
		return "Stretching"
	default:
		return "Sitting"
	}
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
