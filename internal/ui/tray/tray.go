package tray

import (
	"fmt"

	"sitstretch/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnStart       func()
	OnReset       func()
	OnHardReset   func()
	OnToggleMute  func()
	OnQuit        func()
}

// Labels is the mutable text of the tray menu.
type Labels struct {
	Status string
	Start  string
	Mute   string
}

// LabelsFor derives menu labels from snapshot.
func LabelsFor(snapshot timekeeper.Snapshot) Labels {
	labels := Labels{
		Status: fmt.Sprintf("%s %s", snapshot.Mode.Title(), snapshot.Clock()),
		Start:  "Start",
		Mute:   "Mute",
	}
	if snapshot.Active {
		labels.Start = "Pause"
		if snapshot.Paused {
			labels.Start = "Resume"
			labels.Status += " (paused)"
		}
	}
	if snapshot.Muted {
		labels.Mute = "Unmute"
	}
	return labels
}

// Manager handles system tray state.
type Manager struct {
	app       desktop.App
	callbacks Callbacks
	labels    Labels
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		labels:    Labels{Status: "Starting...", Start: "Start", Mute: "Mute"},
	}
	manager.refreshMenu()
	return manager
}

// Render updates the menu from snapshot. Safe to call from any goroutine.
func (manager *Manager) Render(snapshot timekeeper.Snapshot) {
	labels := LabelsFor(snapshot)
	fyne.Do(func() {
		if labels == manager.labels {
			return
		}
		manager.labels = labels
		manager.refreshMenu()
	})
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	status := fyne.NewMenuItem(manager.labels.Status, nil)
	status.Disabled = true

	manager.app.SetSystemTrayMenu(fyne.NewMenu("Sit & Stretch",
		status,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(manager.labels.Start, call(manager.callbacks.OnStart)),
		fyne.NewMenuItem("Reset", call(manager.callbacks.OnReset)),
		fyne.NewMenuItem("Hard reset", call(manager.callbacks.OnHardReset)),
		fyne.NewMenuItem(manager.labels.Mute, call(manager.callbacks.OnToggleMute)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", call(manager.callbacks.OnShow)),
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", call(manager.callbacks.OnQuit)),
	))
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
