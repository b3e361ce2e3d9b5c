package timekeeper

import (
	"time"

	"sitstretch/internal/audio"
	"sitstretch/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCue         EventType = "cue"
)

// Snapshot is the read-only view the presentation layer renders.
type Snapshot struct {
	Mode      model.Mode
	Remaining int
	Active    bool
	Paused    bool
	Muted     bool
	Durations model.Durations
}

// Clock renders the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return model.FormatClock(snapshot.Remaining)
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Role     audio.Role
	At       time.Time
}
