package display

import (
	"image/color"

	"sitstretch/internal/core/model"
	"sitstretch/internal/core/timekeeper"
)

// View is everything the window shows for one snapshot.
type View struct {
	Title      string
	Subtitle   string
	Clock      string
	Progress   float64
	StartLabel string
	MuteLabel  string
	Accent     color.NRGBA
}

var accents = map[model.Mode]color.NRGBA{
	model.ModeSitting:    {R: 86, G: 156, B: 214, A: 255},
	model.ModePreparing:  {R: 232, G: 190, B: 66, A: 255},
	model.ModeStretching: {R: 106, G: 190, B: 112, A: 255},
}

// Present maps a snapshot to its view.
func Present(snapshot timekeeper.Snapshot) View {
	view := View{
		Title:      snapshot.Mode.Title(),
		Clock:      snapshot.Clock(),
		StartLabel: "Start",
		MuteLabel:  "Mute",
		Accent:     accents[snapshot.Mode],
	}

	switch {
	case !snapshot.Active:
		view.Subtitle = "Press start when you sit down"
	case snapshot.Paused:
		view.Subtitle = "Paused"
		view.StartLabel = "Resume"
	default:
		view.Subtitle = subtitle(snapshot.Mode)
		view.StartLabel = "Pause"
	}
	if snapshot.Muted {
		view.MuteLabel = "Unmute"
	}

	if total := snapshot.Durations.Of(snapshot.Mode); total > 0 {
		view.Progress = float64(total-snapshot.Remaining) / float64(total)
	}
	return view
}

func subtitle(mode model.Mode) string {
	switch mode {
	case model.ModePreparing:
		return "Stand up, stretching starts soon"
	case model.ModeStretching:
		return "Stretch until the bell"
	default:
		return "Keep working"
	}
}
