package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidLoginItem is returned for a login item without a name or executable.
var ErrInvalidLoginItem = errors.New("invalid login item")

// LoginItem is a command the desktop session launches at login.
type LoginItem struct {
	Name string
	Exec string
	Args []string
}

// InstallLoginItem registers item with the OS so it starts at login.
// Installing an existing item replaces it.
func InstallLoginItem(item LoginItem) error {
	if item.Name == "" || item.Exec == "" {
		return fmt.Errorf("install login item: %w", ErrInvalidLoginItem)
	}
	if err := installLoginItem(item); err != nil {
		return fmt.Errorf("install login item %q: %w", item.Name, err)
	}
	return nil
}

// RemoveLoginItem unregisters the item called name. Removing an item that
// is not installed is not an error.
func RemoveLoginItem(name string) error {
	if name == "" {
		return fmt.Errorf("remove login item: %w", ErrInvalidLoginItem)
	}
	if err := removeLoginItem(name); err != nil {
		return fmt.Errorf("remove login item %q: %w", name, err)
	}
	return nil
}

// ConfigDir returns the OS-standard per-user configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		return "sitstretch"
	}
	return name
}

func commandLine(item LoginItem) string {
	parts := make([]string, 0, len(item.Args)+1)
	for _, part := range append([]string{item.Exec}, item.Args...) {
		parts = append(parts, quote(part))
	}
	return strings.Join(parts, " ")
}

func quote(value string) string {
	trimmed := strings.Trim(value, `"`)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t") {
		return `"` + trimmed + `"`
	}
	return trimmed
}
