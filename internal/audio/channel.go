// Package audio controls the sound cues and background loops of the timer.
package audio

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNotReady indicates the underlying resource has not been loaded yet.
var ErrNotReady = errors.New("sound not ready")

// Sound is a playback backend for a single asset.
type Sound interface {
	// Load (re)loads the asset. It is safe to call more than once.
	Load() error
	// Play starts playback from the current position.
	Play(loop bool) error
	// Pause halts playback and keeps the position.
	Pause()
	// Rewind moves the position back to the start.
	Rewind()
	// SetVolume sets the output gain in [0,1].
	SetVolume(volume float64)
	// IsPlaying reports whether samples are being produced.
	IsPlaying() bool
}

type playback int

const (
	stopped playback = iota
	playing
	paused
)

// Channel is one independently controllable playback unit.
// Channel is not safe for concurrent use; the timekeeper serializes access.
type Channel struct {
	role    Role
	sound   Sound
	logger  *zap.SugaredLogger
	level   float64
	muted   bool
	looping bool
	state   playback
}

// NewChannel wraps sound for role.
func NewChannel(role Role, sound Sound, logger *zap.SugaredLogger) *Channel {
	if sound == nil {
		sound = missingSound{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Channel{
		role:   role,
		sound:  sound,
		logger: logger,
		level:  1,
	}
}

// Role returns the logical role of the channel.
func (channel *Channel) Role() Role {
	return channel.role
}

// Play restarts the sound from the beginning at full volume.
// A muted channel ignores the call. It reports whether playback was started;
// failures are logged and never returned.
func (channel *Channel) Play(loop bool) bool {
	if channel.muted {
		return false
	}

	channel.sound.Rewind()
	channel.level = 1
	channel.apply()
	channel.looping = loop

	err := channel.sound.Play(loop)
	if err != nil {
		channel.logger.Debugw("sound not started, reloading", "role", channel.role, "error", err)
		if loadErr := channel.sound.Load(); loadErr != nil {
			err = loadErr
		} else {
			err = channel.sound.Play(loop)
		}
	}
	if err != nil {
		channel.logger.Warnw("sound playback failed", "role", channel.role, "error", err)
		channel.state = stopped
		return false
	}

	channel.state = playing
	return true
}

// Stop halts playback, rewinds and restores the volume.
func (channel *Channel) Stop() {
	channel.sound.Pause()
	channel.sound.Rewind()
	channel.level = 1
	channel.apply()
	channel.state = stopped
}

// Pause halts playback keeping position and volume.
func (channel *Channel) Pause() {
	if channel.state != playing {
		return
	}
	channel.sound.Pause()
	channel.state = paused
}

// Resume continues a paused channel from where it stopped.
func (channel *Channel) Resume() {
	if channel.state != paused {
		return
	}
	if err := channel.sound.Play(channel.looping); err != nil {
		channel.logger.Warnw("sound resume failed", "role", channel.role, "error", err)
		channel.state = stopped
		return
	}
	channel.state = playing
}

// SetVolume sets the requested volume. A muted channel outputs 0 regardless.
func (channel *Channel) SetVolume(volume float64) {
	channel.level = volume
	channel.apply()
}

// Volume returns the requested volume, which is what the channel
// outputs once unmuted.
func (channel *Channel) Volume() float64 {
	return channel.level
}

// SetMuted forces the output to 0 or restores the requested volume.
func (channel *Channel) SetMuted(muted bool) {
	channel.muted = muted
	channel.apply()
}

// Muted reports whether the channel is muted.
func (channel *Channel) Muted() bool {
	return channel.muted
}

// Playing reports whether the channel is started and still producing sound.
// A finished one-shot is not playing.
func (channel *Channel) Playing() bool {
	if channel.state != playing {
		return false
	}
	return channel.looping || channel.sound.IsPlaying()
}

// Paused reports whether the channel was paused mid-playback.
func (channel *Channel) Paused() bool {
	return channel.state == paused
}

func (channel *Channel) apply() {
	if channel.muted {
		channel.sound.SetVolume(0)
		return
	}
	channel.sound.SetVolume(channel.level)
}

type missingSound struct{}

func (missingSound) Load() error       { return ErrNotReady }
func (missingSound) Play(bool) error   { return ErrNotReady }
func (missingSound) Pause()            {}
func (missingSound) Rewind()           {}
func (missingSound) SetVolume(float64) {}
func (missingSound) IsPlaying() bool   { return false }
