package timekeeper

import (
	"sitstretch/internal/audio"
	"sitstretch/internal/core/model"
)

// stretchingFadeSeconds is the fixed fade window at the end of stretching.
const stretchingFadeSeconds = 9

// modeSpec describes the audio behaviour of a mode. An empty role means none.
type modeSpec struct {
	entryCue      audio.Role
	loop          audio.Role
	fadeThreshold func(model.Durations) int
}

var modeSpecs = map[model.Mode]modeSpec{
	model.ModeSitting: {
		entryCue:      audio.RoleStartBell,
		fadeThreshold: func(model.Durations) int { return 0 },
	},
	model.ModePreparing: {
		entryCue: audio.RoleTransitionBell,
		loop:     audio.RolePreparationLoop,
		fadeThreshold: func(durations model.Durations) int {
			return durations.Preparing / 2
		},
	},
	model.ModeStretching: {
		entryCue:      audio.RoleTransitionBell,
		loop:          audio.RoleStretchingLoop,
		fadeThreshold: func(model.Durations) int { return stretchingFadeSeconds },
	},
}

// startCue is what plays when the timer is started in mode: the ambient
// loop when the mode has one, the entry cue otherwise.
func (spec modeSpec) startCue() (audio.Role, bool) {
	if spec.loop != "" {
		return spec.loop, true
	}
	return spec.entryCue, false
}
