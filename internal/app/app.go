// Package app wires the timer, audio, settings and the fyne front end.
package app

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"sitstretch/internal/audio"
	"sitstretch/internal/audio/ebitenaudio"
	"sitstretch/internal/core/model"
	"sitstretch/internal/core/timekeeper"
	"sitstretch/internal/logger"
	"sitstretch/internal/platform"
	"sitstretch/internal/settings"
	"sitstretch/internal/ui/display"
	"sitstretch/internal/ui/preferences"
	"sitstretch/internal/ui/tray"
	"sitstretch/resources"
)

// Name identifies the application on disk and for the instance lock.
const Name = "SitStretch"

const appID = "com.sitstretch.app"

// Options controls a run of the desktop application.
type Options struct {
	// SettingsPath overrides the settings file location.
	SettingsPath string
	// Muted starts with every channel muted.
	Muted bool
}

// Run starts the application and blocks until it quits or ctx is done.
func Run(ctx context.Context, opts *Options) error {
	log := logger.Named("app")

	guard, err := platform.AcquireSingleInstance(Name)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			log.Infow("another instance is running, asking it to show the timer")
			if activateErr := platform.Activate(Name); activateErr != nil {
				log.Warnw("activate running instance", "error", activateErr)
			}
			return nil
		}
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := openStore(opts.SettingsPath)
	if err != nil {
		return err
	}
	durations, err := store.Load()
	if err != nil {
		log.Warnw("load settings, using defaults", "path", store.Path(), "error", err)
	}

	bank := audio.NewBank(ebitenaudio.Bank(ebitenaudio.NewContext(), resources.SoundLoader), logger.Named("audio"))
	bank.Preload()

	limits := model.DefaultLimits()
	keeper := timekeeper.New(bank, store, durations, timekeeper.Config{
		Limits: limits,
		Muted:  opts.Muted,
	})
	defer keeper.Close()

	fyneApp := fyneapp.NewWithID(appID)
	timerWindow := display.New(fyneApp, keeper)
	prefsWindow := preferences.New(fyneApp, keeper, limits, keeper.Snapshot().Durations)

	quit := func() {
		keeper.Close()
		fyneApp.Quit()
	}

	renderers := []func(timekeeper.Snapshot){timerWindow.Render, prefsWindow.Render}
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:        timerWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnStart:       keeper.Start,
			OnReset:       keeper.Reset,
			OnHardReset:   keeper.HardReset,
			OnToggleMute:  keeper.ToggleMute,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		renderers = append(renderers, trayManager.Render)
	} else {
		log.Infow("system tray unsupported, closing the window quits")
		timerWindow.SetCloseIntercept(quit)
	}

	events := keeper.Subscribe(16)
	stopped := make(chan struct{})
	defer close(stopped)

	fyneApp.Lifecycle().SetOnStarted(func() {
		go guard.Serve(func() { fyne.Do(timerWindow.Show) })
		go func() {
			render(renderers, keeper.Snapshot())
			for event := range events {
				render(renderers, event.Snapshot)
			}
		}()
		go func() {
			select {
			case <-ctx.Done():
				fyne.Do(quit)
			case <-stopped:
			}
		}()
	})

	log.Infow("started", "settings", store.Path(), "muted", opts.Muted)
	timerWindow.Show()
	fyneApp.Run()
	return nil
}

func render(renderers []func(timekeeper.Snapshot), snapshot timekeeper.Snapshot) {
	for _, apply := range renderers {
		apply(snapshot)
	}
}

func openStore(path string) (*settings.FileStore, error) {
	if path != "" {
		return settings.NewFileStore(path), nil
	}
	configDir, err := platform.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}
	return settings.NewFileStore(settings.DefaultPath(configDir, Name)), nil
}
