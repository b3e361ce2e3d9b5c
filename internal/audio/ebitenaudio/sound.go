// Package ebitenaudio plays WAV assets through the ebiten audio context.
package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	sitaudio "sitstretch/internal/audio"
)

// SampleRate is the rate of the shared audio context.
const SampleRate = 44100

// Loader returns the encoded WAV bytes of an asset.
type Loader func() ([]byte, error)

// Sound decodes a WAV asset on Load and plays it as a one-shot or loop.
type Sound struct {
	mu      sync.Mutex
	context *audio.Context
	load    Loader
	pcm     []byte
	player  *audio.Player
	looping bool
	volume  float64
}

// NewContext returns the process audio context, creating it on first use.
func NewContext() *audio.Context {
	if current := audio.CurrentContext(); current != nil {
		return current
	}
	return audio.NewContext(SampleRate)
}

// New returns a sound that is not ready until Load succeeds.
func New(context *audio.Context, load Loader) *Sound {
	return &Sound{
		context: context,
		load:    load,
		volume:  1,
	}
}

// Bank builds one sound per role from loaderFor.
func Bank(context *audio.Context, loaderFor func(sitaudio.Role) func() ([]byte, error)) map[sitaudio.Role]sitaudio.Sound {
	sounds := make(map[sitaudio.Role]sitaudio.Sound, len(sitaudio.Roles()))
	for _, role := range sitaudio.Roles() {
		sounds[role] = New(context, loaderFor(role))
	}
	return sounds
}

// Load decodes the asset into PCM at the context sample rate.
func (sound *Sound) Load() error {
	raw, err := sound.load()
	if err != nil {
		return fmt.Errorf("read sound: %w", err)
	}
	pcm, err := decode(sound.context.SampleRate(), raw)
	if err != nil {
		return err
	}

	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.pcm = pcm
	if sound.player != nil {
		_ = sound.player.Close()
		sound.player = nil
	}
	return nil
}

// Play starts or continues playback.
func (sound *Sound) Play(loop bool) error {
	sound.mu.Lock()
	defer sound.mu.Unlock()

	if sound.pcm == nil {
		return sitaudio.ErrNotReady
	}
	if sound.player == nil || sound.looping != loop {
		if err := sound.newPlayerLocked(loop); err != nil {
			return err
		}
	}
	sound.player.SetVolume(sound.volume)
	sound.player.Play()
	return nil
}

// Pause halts playback.
func (sound *Sound) Pause() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	if sound.player != nil {
		sound.player.Pause()
	}
}

// Rewind moves playback to the start.
func (sound *Sound) Rewind() {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	if sound.player != nil {
		_ = sound.player.SetPosition(0)
	}
}

// SetVolume sets the player gain.
func (sound *Sound) SetVolume(volume float64) {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	sound.volume = volume
	if sound.player != nil {
		sound.player.SetVolume(volume)
	}
}

// IsPlaying reports whether the player is producing samples.
func (sound *Sound) IsPlaying() bool {
	sound.mu.Lock()
	defer sound.mu.Unlock()
	return sound.player != nil && sound.player.IsPlaying()
}

func (sound *Sound) newPlayerLocked(loop bool) error {
	if sound.player != nil {
		_ = sound.player.Close()
		sound.player = nil
	}

	if !loop {
		sound.player = sound.context.NewPlayerFromBytes(sound.pcm)
		sound.looping = false
		return nil
	}

	stream := audio.NewInfiniteLoop(bytes.NewReader(sound.pcm), int64(len(sound.pcm)))
	player, err := sound.context.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("create loop player: %w", err)
	}
	sound.player = player
	sound.looping = true
	return nil
}

// decode converts WAV bytes into 16-bit stereo PCM at sampleRate.
func decode(sampleRate int, raw []byte) ([]byte, error) {
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	return pcm, nil
}
