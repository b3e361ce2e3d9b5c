package audio

import (
	"sync"

	"go.uber.org/zap"
)

// Role identifies a sound by what it is used for.
type Role string

const (
	RoleStartBell       Role = "start_bell"
	RoleTransitionBell  Role = "transition_bell"
	RolePreparationLoop Role = "preparation_loop"
	RoleStretchingLoop  Role = "stretching_loop"
)

// Roles lists every role in a stable order.
func Roles() []Role {
	return []Role{RoleStartBell, RoleTransitionBell, RolePreparationLoop, RoleStretchingLoop}
}

// Bank owns one channel per role and the shared mute flag.
type Bank struct {
	channels map[Role]*Channel
	sounds   map[Role]Sound
	logger   *zap.SugaredLogger
	muted    bool
}

// NewBank builds channels for every role. Roles without a sound get a
// placeholder that never becomes ready.
func NewBank(sounds map[Role]Sound, logger *zap.SugaredLogger) *Bank {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	bank := &Bank{
		channels: make(map[Role]*Channel, len(Roles())),
		sounds:   make(map[Role]Sound, len(sounds)),
		logger:   logger,
	}
	for _, role := range Roles() {
		sound := sounds[role]
		if sound != nil {
			bank.sounds[role] = sound
		}
		bank.channels[role] = NewChannel(role, sound, logger)
	}
	return bank
}

// Channel returns the channel for role.
func (bank *Bank) Channel(role Role) *Channel {
	return bank.channels[role]
}

// Preload loads every sound in the background. Failures are logged; a
// failed sound is retried on its next play.
func (bank *Bank) Preload() <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for role, sound := range bank.sounds {
		wg.Add(1)
		go func(role Role, sound Sound) {
			defer wg.Done()
			if err := sound.Load(); err != nil {
				bank.logger.Warnw("preload sound", "role", role, "error", err)
			}
		}(role, sound)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// SetMuted applies the mute flag to every channel.
func (bank *Bank) SetMuted(muted bool) {
	bank.muted = muted
	for _, role := range Roles() {
		bank.channels[role].SetMuted(muted)
	}
}

// Muted reports the shared mute flag.
func (bank *Bank) Muted() bool {
	return bank.muted
}

// StopAll stops every channel.
func (bank *Bank) StopAll() {
	for _, role := range Roles() {
		bank.channels[role].Stop()
	}
}

// PauseAll pauses every playing channel.
func (bank *Bank) PauseAll() {
	for _, role := range Roles() {
		bank.channels[role].Pause()
	}
}

// ResumeAll continues every paused channel.
func (bank *Bank) ResumeAll() {
	for _, role := range Roles() {
		bank.channels[role].Resume()
	}
}
