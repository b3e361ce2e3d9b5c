// Package audiotest provides an in-memory audio.Sound that records what
// it was asked to do.
package audiotest

import (
	"sync"

	"sitstretch/internal/audio"
)

// Sound is a fake audio.Sound. The zero value is not ready; call SetReady
// or let Load succeed.
type Sound struct {
	mu        sync.Mutex
	ready     bool
	loadFails bool
	playing   bool
	looping   bool
	volume    float64
	starts    int
	rewinds   int
	loads     int
	volumes   []float64
}

// New returns a ready fake sound.
func New() *Sound {
	return &Sound{ready: true, volume: 1}
}

// NewUnready returns a sound that only becomes ready through Load.
func NewUnready() *Sound {
	return &Sound{volume: 1}
}

// FailLoads makes every Load fail while keeping the sound unready.
func (sound *Sound) FailLoads() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.loadFails = true
	sound.ready = false
}

// Finish simulates a one-shot reaching its end.
func (sound *Sound) Finish() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.playing = false
}

func (sound *Sound) Load() error {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.loads++
	if sound.loadFails {
		return audio.ErrNotReady
	}
	sound.ready = true
	return nil
}

func (sound *Sound) Play(loop bool) error {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	if !sound.ready {
		return audio.ErrNotReady
	}
	sound.playing = true
	sound.looping = loop
	sound.starts++
	return nil
}

func (sound *Sound) Pause() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.playing = false
}

func (sound *Sound) Rewind() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.rewinds++
}

func (sound *Sound) SetVolume(volume float64) {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.volume = volume
	sound.volumes = append(sound.volumes, volume)
}

func (sound *Sound) IsPlaying() bool {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.playing
}

// Looping reports the loop flag of the last Play.
func (sound *Sound) Looping() bool {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.looping
}

// Volume returns the last output volume.
func (sound *Sound) Volume() float64 {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.volume
}

// Volumes returns every output volume set so far.
func (sound *Sound) Volumes() []float64 {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return append([]float64(nil), sound.volumes...)
}

// Starts counts successful Play calls.
func (sound *Sound) Starts() int {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.starts
}

// Rewinds counts Rewind calls.
func (sound *Sound) Rewinds() int {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.rewinds
}

// Loads counts Load calls.
func (sound *Sound) Loads() int {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.loads
}

// Set builds one ready fake per role.
func Set() map[audio.Role]*Sound {
	sounds := make(map[audio.Role]*Sound, len(audio.Roles()))
	for _, role := range audio.Roles() {
		sounds[role] = New()
	}
	return sounds
}

// AsSounds converts a fake set into the map audio.NewBank expects.
func AsSounds(fakes map[audio.Role]*Sound) map[audio.Role]audio.Sound {
	sounds := make(map[audio.Role]audio.Sound, len(fakes))
	for role, fake := range fakes {
		sounds[role] = fake
	}
	return sounds
}
