// Package settings persists the three mode durations as a small YAML
// key-value file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sitstretch/internal/core/model"
)

const settingsFileName = "settings.yaml"

// Keys under which durations are stored, in seconds.
const (
	KeySitting     = "sitting"
	KeyStretching  = "stretching"
	KeyPreparation = "preparation"
)

// FileStore reads and writes durations at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns <configDir>/<appName>/settings.yaml.
func DefaultPath(configDir, appName string) string {
	return filepath.Join(configDir, appName, settingsFileName)
}

// Path returns the file location.
func (store *FileStore) Path() string {
	return store.path
}

// Load reads durations. A missing file yields the defaults without error.
// Absent, non-numeric or non-positive keys fall back to their default; a
// file that cannot be parsed yields the defaults together with the error.
func (store *FileStore) Load() (model.Durations, error) {
	durations := model.DefaultDurations()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return durations, nil
		}
		return durations, fmt.Errorf("read settings file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(rawData, &values); err != nil {
		return durations, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyValues(&durations, values)
	return durations, nil
}

// Save writes durations, creating the parent directory when needed.
func (store *FileStore) Save(durations model.Durations) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := map[string]int{
		KeySitting:     durations.Sitting,
		KeyStretching:  durations.Stretching,
		KeyPreparation: durations.Preparing,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// Clear removes every persisted key.
func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove settings file: %w", err)
	}
	return nil
}

func applyValues(durations *model.Durations, values map[string]any) {
	if seconds, ok := positiveInt(values[KeySitting]); ok {
		durations.Sitting = seconds
	}
	if seconds, ok := positiveInt(values[KeyStretching]); ok {
		durations.Stretching = seconds
	}
	if seconds, ok := positiveInt(values[KeyPreparation]); ok {
		durations.Preparing = seconds
	}
}

func positiveInt(value any) (int, bool) {
	seconds, ok := value.(int)
	if !ok || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}
