package preferences

import (
	"sitstretch/internal/core/model"
	"sitstretch/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// DurationSetter applies a committed duration. It reports false when the
// change was refused, for example while the timer is running.
type DurationSetter interface {
	SetDuration(mode model.Mode, seconds int) bool
}

type durationEntry struct {
	mode  model.Mode
	field NumericField
	entry *widget.Entry
	text  string
}

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	setter    DurationSetter
	entries   []*durationEntry
	hint      *widget.Label
	durations model.Durations
}

var fieldModes = []model.Mode{model.ModeSitting, model.ModeStretching, model.ModePreparing}

// New creates a preferences window.
func New(app fyne.App, setter DurationSetter, limits model.Limits, durations model.Durations) *Window {
	window := app.NewWindow("Sit & Stretch Settings")

	prefs := &Window{
		window:    window,
		setter:    setter,
		hint:      widget.NewLabel(""),
		durations: durations,
	}

	rows := []fyne.CanvasObject{
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	}
	for _, mode := range fieldModes {
		item := &durationEntry{mode: mode, field: FieldFor(mode, limits), entry: widget.NewEntry()}
		item.text = item.field.Display(durations.Of(mode))
		item.entry.SetText(item.text)
		item.entry.OnChanged = func(typed string) { prefs.filter(item, typed) }
		item.entry.OnSubmitted = func(string) { prefs.commit(item) }
		prefs.entries = append(prefs.entries, item)

		rows = append(rows, container.NewHBox(
			widget.NewLabel(mode.Title()),
			layout.NewSpacer(),
			item.entry,
			widget.NewLabel(unitLabel(item.field)),
		))
	}
	rows = append(rows, prefs.hint)

	applyButton := widget.NewButton("Apply", prefs.commitAll)
	closeButton := widget.NewButton("Close", window.Hide)
	buttons := container.NewHBox(applyButton, layout.NewSpacer(), closeButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVBox(rows...)))
	window.Resize(fyne.NewSize(360, 260))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Render syncs entries with snapshot. Entries are read only while the
// timer is active. Safe to call from any goroutine.
func (prefs *Window) Render(snapshot timekeeper.Snapshot) {
	fyne.Do(func() {
		prefs.applyUnsafe(snapshot)
	})
}

func (prefs *Window) applyUnsafe(snapshot timekeeper.Snapshot) {
	// Entries being edited keep their text until durations change elsewhere.
	changed := snapshot.Durations != prefs.durations
	prefs.durations = snapshot.Durations

	for _, item := range prefs.entries {
		if snapshot.Active {
			item.entry.Disable()
		} else {
			item.entry.Enable()
		}
		if !changed {
			continue
		}
		item.text = item.field.Display(snapshot.Durations.Of(item.mode))
		item.entry.SetText(item.text)
	}

	if snapshot.Active {
		prefs.hint.SetText("Reset the timer to change durations")
	} else {
		prefs.hint.SetText("")
	}
}

func (prefs *Window) filter(item *durationEntry, typed string) {
	kept := item.field.Filter(item.text, typed)
	item.text = kept
	if kept != typed {
		item.entry.SetText(kept)
	}
}

func (prefs *Window) commit(item *durationEntry) {
	_, seconds := item.field.Commit(item.entry.Text)
	if prefs.setter.SetDuration(item.mode, seconds) {
		prefs.durations = prefs.durations.With(item.mode, seconds)
	}
	item.text = item.field.Display(prefs.durations.Of(item.mode))
	item.entry.SetText(item.text)
}

func (prefs *Window) commitAll() {
	for _, item := range prefs.entries {
		prefs.commit(item)
	}
}

func unitLabel(field NumericField) string {
	if field.Unit == 60 {
		return "min"
	}
	return "sec"
}
