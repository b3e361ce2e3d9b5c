package timekeeper

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"sitstretch/internal/audio"
	"sitstretch/internal/core/clock"
	"sitstretch/internal/core/fader"
	"sitstretch/internal/core/model"
	"sitstretch/internal/logger"
)

// SettingsStore persists durations. Failures are logged, never surfaced.
type SettingsStore interface {
	Save(durations model.Durations) error
	Clear() error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	Clock         clock.Clock
	FrameInterval time.Duration
	Limits        model.Limits
	Muted         bool
	Logger        *zap.SugaredLogger
}

// TimeKeeper is the sitting/preparing/stretching state machine. Remaining
// time is always derived from the wall clock, never decremented.
type TimeKeeper struct {
	mu      sync.Mutex
	options Config
	clock   clock.Clock
	bank    *audio.Bank
	store   SettingsStore
	logger  *zap.SugaredLogger
	fades   *fader.Scheduler

	durations     model.Durations
	mode          model.Mode
	modeStartedAt time.Time
	pausedElapsed time.Duration
	remaining     int
	active        bool
	paused        bool

	tickTimer  clock.Timer
	frameTimer clock.Timer
	generation uint64

	events []chan Event
	closed bool
}

// New creates an inactive TimeKeeper in sitting mode. Durations are
// clamped to the configured limits.
func New(bank *audio.Bank, store SettingsStore, durations model.Durations, options Config) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = clock.NewReal()
	}
	if options.FrameInterval <= 0 {
		options.FrameInterval = 50 * time.Millisecond
	}
	if options.Limits == (model.Limits{}) {
		options.Limits = model.DefaultLimits()
	}
	if options.Logger == nil {
		options.Logger = logger.Named("timekeeper")
	}
	if bank == nil {
		bank = audio.NewBank(nil, options.Logger)
	}

	keeper := &TimeKeeper{
		options:   options,
		clock:     options.Clock,
		bank:      bank,
		store:     store,
		logger:    options.Logger,
		fades:     fader.New(),
		durations: options.Limits.Clamp(durations),
		mode:      model.ModeSitting,
	}
	keeper.remaining = keeper.durations.Sitting
	keeper.bank.SetMuted(options.Muted)
	return keeper
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block the timer.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Snapshot returns the current observable state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Start toggles the timer: an inactive timer starts, a running one
// pauses and a paused one resumes.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}

	now := keeper.clock.Now()
	switch {
	case !keeper.active:
		keeper.startLocked(now)
	case keeper.paused:
		keeper.resumeLocked(now)
	default:
		keeper.pauseLocked(now)
	}
}

// Pause freezes a running timer.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || !keeper.active || keeper.paused {
		return
	}
	keeper.pauseLocked(keeper.clock.Now())
}

// Resume continues a paused timer.
func (keeper *TimeKeeper) Resume() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || !keeper.paused {
		return
	}
	keeper.resumeLocked(keeper.clock.Now())
}

// Reset stops the timer and returns to the start of sitting.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.resetLocked()
	keeper.logger.Info("timer reset")
	keeper.emitLocked(Event{Type: EventStateChange, At: keeper.clock.Now()})
}

// HardReset resets the timer, restores the default durations and clears
// the persisted settings.
func (keeper *TimeKeeper) HardReset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.resetLocked()
	keeper.durations = model.DefaultDurations()
	keeper.remaining = keeper.durations.Sitting
	if keeper.store != nil {
		if err := keeper.store.Clear(); err != nil {
			keeper.logger.Errorw("clear settings", "error", err)
		}
	}
	keeper.logger.Info("timer hard reset")
	keeper.emitLocked(Event{Type: EventStateChange, At: keeper.clock.Now()})
}

// SetDuration changes the length of mode. It is rejected while the timer
// is active; otherwise the value is clamped to the mode's limits and
// persisted. It reports whether the change was applied.
func (keeper *TimeKeeper) SetDuration(mode model.Mode, seconds int) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.active {
		return false
	}

	seconds = keeper.options.Limits.For(mode).Clamp(seconds)
	keeper.durations = keeper.durations.With(mode, seconds)
	if keeper.mode == mode {
		keeper.remaining = seconds
	}
	if keeper.store != nil {
		if err := keeper.store.Save(keeper.durations); err != nil {
			keeper.logger.Errorw("save settings", "error", err)
		}
	}
	keeper.logger.Infow("duration changed", "mode", mode, "seconds", seconds)
	keeper.emitLocked(Event{Type: EventStateChange, At: keeper.clock.Now()})
	return true
}

// ToggleMute flips the mute flag. Unmuting during a fade restores the
// volume the fade's progress implies.
func (keeper *TimeKeeper) ToggleMute() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}

	now := keeper.clock.Now()
	muted := !keeper.bank.Muted()
	keeper.bank.SetMuted(muted)
	if !muted && keeper.fades.Active() && !keeper.fades.Held() {
		if keeper.fades.Step(now) {
			keeper.scheduleFrameLocked()
		}
	}
	keeper.logger.Infow("mute toggled", "muted", muted)
	keeper.emitLocked(Event{Type: EventStateChange, At: now})
}

// Close cancels every pending callback, stops audio and closes observers.
// Later commands are ignored.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.cancelTimersLocked()
	keeper.fades.Cancel()
	keeper.bank.StopAll()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) startLocked(now time.Time) {
	keeper.active = true
	keeper.paused = false
	keeper.modeStartedAt = now
	keeper.pausedElapsed = 0
	keeper.remaining = keeper.durations.Of(keeper.mode)

	cue, loop := modeSpecs[keeper.mode].startCue()
	keeper.playLocked(cue, loop, now)

	keeper.logger.Infow("timer started", "mode", keeper.mode, "remaining", keeper.remaining)
	keeper.emitLocked(Event{Type: EventStateChange, At: now})
	keeper.evaluateFadeLocked(now)
	keeper.scheduleTickLocked(now)
}

func (keeper *TimeKeeper) pauseLocked(now time.Time) {
	keeper.pausedElapsed = now.Sub(keeper.modeStartedAt)
	keeper.remaining = keeper.remainingAt(keeper.pausedElapsed)
	keeper.paused = true
	keeper.cancelTimersLocked()
	keeper.fades.Hold(now)
	keeper.bank.PauseAll()

	keeper.logger.Infow("timer paused", "mode", keeper.mode, "remaining", keeper.remaining)
	keeper.emitLocked(Event{Type: EventStateChange, At: now})
}

func (keeper *TimeKeeper) resumeLocked(now time.Time) {
	keeper.modeStartedAt = now.Add(-keeper.pausedElapsed)
	keeper.pausedElapsed = 0
	keeper.paused = false
	keeper.bank.ResumeAll()
	keeper.fades.Resume(now)
	if keeper.fades.Step(now) {
		keeper.scheduleFrameLocked()
	}

	keeper.logger.Infow("timer resumed", "mode", keeper.mode, "remaining", keeper.remaining)
	keeper.emitLocked(Event{Type: EventStateChange, At: now})
	keeper.scheduleTickLocked(now)
}

func (keeper *TimeKeeper) resetLocked() {
	keeper.cancelTimersLocked()
	keeper.fades.Cancel()
	keeper.bank.StopAll()
	keeper.active = false
	keeper.paused = false
	keeper.pausedElapsed = 0
	keeper.modeStartedAt = time.Time{}
	keeper.mode = model.ModeSitting
	keeper.remaining = keeper.durations.Sitting
}

func (keeper *TimeKeeper) onTick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if generation != keeper.generation {
		return
	}
	keeper.tickTimer = nil
	if keeper.closed || !keeper.active || keeper.paused {
		return
	}

	now := keeper.clock.Now()
	keeper.tickLocked(now)
	keeper.scheduleTickLocked(now)
}

func (keeper *TimeKeeper) tickLocked(now time.Time) {
	keeper.remaining = keeper.remainingAt(now.Sub(keeper.modeStartedAt))
	if keeper.remaining == 0 {
		keeper.transitionLocked(now)
	}
	keeper.evaluateFadeLocked(now)
	keeper.emitLocked(Event{Type: EventProgress, At: now})
}

func (keeper *TimeKeeper) transitionLocked(now time.Time) {
	leaving := modeSpecs[keeper.mode]
	if leaving.loop != "" {
		channel := keeper.bank.Channel(leaving.loop)
		if keeper.fades.Targets(channel) {
			keeper.fades.Cancel()
		}
		channel.Stop()
	}

	previous := keeper.mode
	keeper.mode = keeper.mode.Next()
	entering := modeSpecs[keeper.mode]
	if entering.entryCue != "" {
		keeper.playLocked(entering.entryCue, false, now)
	}
	if entering.loop != "" {
		keeper.playLocked(entering.loop, true, now)
	}

	keeper.remaining = keeper.durations.Of(keeper.mode)
	keeper.modeStartedAt = now

	keeper.logger.Debugw("mode transition", "from", previous, "to", keeper.mode, "remaining", keeper.remaining)
	keeper.emitLocked(Event{Type: EventStateChange, At: now})
}

// evaluateFadeLocked starts a fade of the mode's loop once the remaining
// time drops under the mode's threshold.
func (keeper *TimeKeeper) evaluateFadeLocked(now time.Time) {
	spec := modeSpecs[keeper.mode]
	if spec.loop == "" {
		return
	}
	channel := keeper.bank.Channel(spec.loop)
	if !channel.Playing() || keeper.fades.Targets(channel) {
		return
	}
	threshold := spec.fadeThreshold(keeper.durations)
	if threshold <= 0 || keeper.remaining > threshold {
		return
	}

	left := keeper.durations.DurationOf(keeper.mode) - now.Sub(keeper.modeStartedAt)
	keeper.fades.Start(channel, channel.Volume(), left, now)
	keeper.logger.Debugw("fade started", "role", spec.loop, "duration", left)
	if keeper.fades.Step(now) {
		keeper.scheduleFrameLocked()
	}
}

func (keeper *TimeKeeper) onFrame(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if generation != keeper.generation {
		return
	}
	keeper.frameTimer = nil
	if keeper.closed || !keeper.active || keeper.paused {
		return
	}
	if keeper.fades.Step(keeper.clock.Now()) {
		keeper.scheduleFrameLocked()
	}
}

// scheduleTickLocked arms the next tick on the next whole-second boundary
// of the current mode.
func (keeper *TimeKeeper) scheduleTickLocked(now time.Time) {
	if keeper.tickTimer != nil {
		keeper.tickTimer.Stop()
	}
	delay := time.Second
	if elapsed := now.Sub(keeper.modeStartedAt); elapsed > 0 {
		delay = time.Second - elapsed%time.Second
	}
	generation := keeper.generation
	keeper.tickTimer = keeper.clock.AfterFunc(delay, func() {
		keeper.onTick(generation)
	})
}

func (keeper *TimeKeeper) scheduleFrameLocked() {
	if keeper.frameTimer != nil {
		return
	}
	generation := keeper.generation
	keeper.frameTimer = keeper.clock.AfterFunc(keeper.options.FrameInterval, func() {
		keeper.onFrame(generation)
	})
}

// cancelTimersLocked stops pending callbacks and invalidates any that
// are already waiting on the lock.
func (keeper *TimeKeeper) cancelTimersLocked() {
	keeper.generation++
	if keeper.tickTimer != nil {
		keeper.tickTimer.Stop()
		keeper.tickTimer = nil
	}
	if keeper.frameTimer != nil {
		keeper.frameTimer.Stop()
		keeper.frameTimer = nil
	}
}

// remainingAt returns ceil(duration - elapsed) in whole seconds, clamped
// to [0, duration].
func (keeper *TimeKeeper) remainingAt(elapsed time.Duration) int {
	total := keeper.durations.Of(keeper.mode)
	left := keeper.durations.DurationOf(keeper.mode) - elapsed
	if left <= 0 {
		return 0
	}
	seconds := int((left + time.Second - 1) / time.Second)
	if seconds > total {
		return total
	}
	return seconds
}

func (keeper *TimeKeeper) playLocked(role audio.Role, loop bool, now time.Time) {
	keeper.bank.Channel(role).Play(loop)
	keeper.emitLocked(Event{Type: EventCue, Role: role, At: now})
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:      keeper.mode,
		Remaining: keeper.remaining,
		Active:    keeper.active,
		Paused:    keeper.paused,
		Muted:     keeper.bank.Muted(),
		Durations: keeper.durations,
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	event.Snapshot = keeper.snapshotLocked()
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
