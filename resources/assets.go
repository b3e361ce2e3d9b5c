package resources

import (
	"embed"
	"fmt"
	"sync"

	"sitstretch/internal/audio"
)

const soundDir = "sounds/"

//go:embed sounds/*.wav
var soundFS embed.FS

var soundCache sync.Map

// Sound returns the encoded WAV bytes for role.
func Sound(role audio.Role) ([]byte, error) {
	return loadResource(soundFS, soundDir+string(role)+".wav", &soundCache)
}

// SoundLoader returns a loader bound to role, suitable for lazy decoding.
func SoundLoader(role audio.Role) func() ([]byte, error) {
	return func() ([]byte, error) {
		return Sound(role)
	}
}

func loadResource(fs embed.FS, path string, cache *sync.Map) ([]byte, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.([]byte), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	cache.Store(path, data)
	return data, nil
}
