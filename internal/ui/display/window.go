package display

import (
	"image/color"

	"sitstretch/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Controller is the set of timer commands the window buttons trigger.
type Controller interface {
	Start()
	Reset()
	HardReset()
	ToggleMute()
}

// Window shows the current mode, the countdown and the timer controls.
type Window struct {
	window        fyne.Window
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	clockLabel    *canvas.Text
	accent        *canvas.Rectangle
	progress      *widget.ProgressBar
	startButton   *widget.Button
	resetButton   *widget.Button
	hardButton    *widget.Button
	muteButton    *widget.Button
}

var windowSize = fyne.NewSize(360, 260)

// New creates the timer window. It is hidden until Show is called.
func New(app fyne.App, controller Controller) *Window {
	window := app.NewWindow("Sit & Stretch")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	accent := canvas.NewRectangle(color.NRGBA{A: 255})
	accent.SetMinSize(fyne.NewSize(0, 6))

	titleLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	subtitleLabel := canvas.NewText("", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	subtitleLabel.TextSize = 14

	clockLabel := canvas.NewText("--:--", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 48

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	startButton := widget.NewButton("Start", controller.Start)
	startButton.Importance = widget.HighImportance
	resetButton := widget.NewButton("Reset", controller.Reset)
	hardButton := widget.NewButton("Hard reset", controller.HardReset)
	muteButton := widget.NewButton("Mute", controller.ToggleMute)

	header := container.New(&panelLayout{}, titleLabel, subtitleLabel, clockLabel)
	buttons := container.NewGridWithColumns(4, startButton, resetButton, hardButton, muteButton)
	content := container.NewBorder(accent, buttons, nil, nil, container.NewVBox(header, progress))

	window.SetContent(container.NewPadded(content))
	window.Resize(windowSize)
	window.SetCloseIntercept(window.Hide)

	return &Window{
		window:        window,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		clockLabel:    clockLabel,
		accent:        accent,
		progress:      progress,
		startButton:   startButton,
		resetButton:   resetButton,
		hardButton:    hardButton,
		muteButton:    muteButton,
	}
}

// Show brings the window to front.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// Hide hides the window; the timer keeps running.
func (display *Window) Hide() {
	display.window.Hide()
}

// SetCloseIntercept replaces the default close action, which only hides.
func (display *Window) SetCloseIntercept(handler func()) {
	display.window.SetCloseIntercept(handler)
}

// Render updates every widget from snapshot. Safe to call from any goroutine.
func (display *Window) Render(snapshot timekeeper.Snapshot) {
	view := Present(snapshot)
	fyne.Do(func() {
		display.applyUnsafe(view)
	})
}

func (display *Window) applyUnsafe(view View) {
	display.titleLabel.Text = view.Title
	display.titleLabel.Refresh()
	display.subtitleLabel.Text = view.Subtitle
	display.subtitleLabel.Refresh()
	display.clockLabel.Text = view.Clock
	display.clockLabel.Refresh()

	display.accent.FillColor = view.Accent
	canvas.Refresh(display.accent)
	display.progress.SetValue(view.Progress)

	display.startButton.SetText(view.StartLabel)
	display.muteButton.SetText(view.MuteLabel)
}

type panelLayout struct{}

func (layout *panelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	title := objects[0]
	subtitle := objects[1]
	clock := objects[2]

	pad := size.Height * 0.05
	availableWidth := size.Width - pad*2
	if availableWidth < 0 {
		availableWidth = 0
	}

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(pad, pad))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	subtitleSize := subtitle.MinSize()
	subtitleY := pad + titleSize.Height + 6
	subtitle.Move(fyne.NewPos(pad, subtitleY))
	subtitle.Resize(fyne.NewSize(availableWidth, subtitleSize.Height))

	clockSize := clock.MinSize()
	clockY := size.Height - pad - clockSize.Height
	if clockY < subtitleY+subtitleSize.Height {
		clockY = subtitleY + subtitleSize.Height
	}
	clock.Move(fyne.NewPos(pad, clockY))
	clock.Resize(clockSize)
}

func (layout *panelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	titleSize := objects[0].MinSize()
	subtitleSize := objects[1].MinSize()
	clockSize := objects[2].MinSize()

	width := titleSize.Width
	if subtitleSize.Width > width {
		width = subtitleSize.Width
	}
	if clockSize.Width > width {
		width = clockSize.Width
	}
	height := titleSize.Height + subtitleSize.Height + clockSize.Height + 30
	return fyne.NewSize(width+20, height)
}
