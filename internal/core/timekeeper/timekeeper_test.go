package timekeeper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sitstretch/internal/audio"
	"sitstretch/internal/audio/audiotest"
	"sitstretch/internal/core/clock"
	"sitstretch/internal/core/model"
)

var epoch = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

var shortLimits = model.Limits{
	Sitting:    model.Range{Min: 1, Max: 14400},
	Stretching: model.Range{Min: 1, Max: 14400},
	Preparing:  model.Range{Min: 1, Max: 30},
}

type memoryStore struct {
	saved  []model.Durations
	clears int
	err    error
}

func (store *memoryStore) Save(durations model.Durations) error {
	store.saved = append(store.saved, durations)
	return store.err
}

func (store *memoryStore) Clear() error {
	store.clears++
	return store.err
}

type harness struct {
	keeper *TimeKeeper
	clock  *clock.Fake
	sounds map[audio.Role]*audiotest.Sound
	store  *memoryStore
}

func newHarness(t *testing.T, durations model.Durations, limits model.Limits) *harness {
	t.Helper()

	fake := clock.NewFake(epoch)
	sounds := audiotest.Set()
	store := &memoryStore{}
	bank := audio.NewBank(audiotest.AsSounds(sounds), zap.NewNop().Sugar())
	keeper := New(bank, store, durations, Config{
		Clock:  fake,
		Limits: limits,
		Logger: zap.NewNop().Sugar(),
	})
	t.Cleanup(keeper.Close)

	return &harness{keeper: keeper, clock: fake, sounds: sounds, store: store}
}

func (h *harness) advance(d time.Duration) Snapshot {
	h.clock.Advance(d)
	return h.keeper.Snapshot()
}

func cues(events <-chan Event) []audio.Role {
	var roles []audio.Role
	for {
		select {
		case event := <-events:
			if event.Type == EventCue {
				roles = append(roles, event.Role)
			}
		default:
			return roles
		}
	}
}

func TestTimeKeeper_InitialState(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.DefaultDurations(), model.Limits{})
	require.Equal(t, Snapshot{
		Mode:      model.ModeSitting,
		Remaining: 1800,
		Durations: model.DefaultDurations(),
	}, h.keeper.Snapshot())
	require.Equal(t, "30:00", h.keeper.Snapshot().Clock())
}

func TestTimeKeeper_ModeScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 3, Preparing: 2, Stretching: 4}, shortLimits)
	events := h.keeper.Subscribe(256)

	h.keeper.Start()
	snapshot := h.keeper.Snapshot()
	require.True(t, snapshot.Active)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 3, snapshot.Remaining)

	snapshot = h.advance(2 * time.Second)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 1, snapshot.Remaining)

	snapshot = h.advance(time.Second)
	require.Equal(t, model.ModePreparing, snapshot.Mode)
	require.Equal(t, 2, snapshot.Remaining)
	require.True(t, h.sounds[audio.RolePreparationLoop].IsPlaying())

	snapshot = h.advance(2 * time.Second)
	require.Equal(t, model.ModeStretching, snapshot.Mode)
	require.Equal(t, 4, snapshot.Remaining)
	require.False(t, h.sounds[audio.RolePreparationLoop].IsPlaying())
	require.True(t, h.sounds[audio.RoleStretchingLoop].IsPlaying())

	snapshot = h.advance(4 * time.Second)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 3, snapshot.Remaining)
	require.False(t, h.sounds[audio.RoleStretchingLoop].IsPlaying())

	require.Equal(t, []audio.Role{
		audio.RoleStartBell,
		audio.RoleTransitionBell,
		audio.RolePreparationLoop,
		audio.RoleTransitionBell,
		audio.RoleStretchingLoop,
		audio.RoleStartBell,
	}, cues(events))
}

func TestTimeKeeper_CycleClosure(t *testing.T) {
	t.Parallel()

	durations := model.Durations{Sitting: 5, Preparing: 2, Stretching: 3}
	h := newHarness(t, durations, shortLimits)
	events := h.keeper.Subscribe(512)
	cycle := time.Duration(durations.Sitting+durations.Preparing+durations.Stretching) * time.Second

	h.keeper.Start()
	first := cues(events)

	for range 3 {
		snapshot := h.advance(cycle)
		require.Equal(t, model.ModeSitting, snapshot.Mode)
		require.Equal(t, durations.Sitting, snapshot.Remaining)

		got := cues(events)
		require.Equal(t, []audio.Role{
			audio.RoleTransitionBell,
			audio.RolePreparationLoop,
			audio.RoleTransitionBell,
			audio.RoleStretchingLoop,
			audio.RoleStartBell,
		}, got)
	}
	require.Equal(t, []audio.Role{audio.RoleStartBell}, first)
}

func TestTimeKeeper_StartTogglesPauseAndResume(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 10, Preparing: 5, Stretching: 10}, shortLimits)

	h.keeper.Start()
	require.True(t, h.keeper.Snapshot().Active)

	h.advance(3 * time.Second)
	h.keeper.Start()
	snapshot := h.keeper.Snapshot()
	require.True(t, snapshot.Paused)
	require.Equal(t, 7, snapshot.Remaining)
	require.Zero(t, h.clock.Pending())

	snapshot = h.advance(time.Hour)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 7, snapshot.Remaining)

	h.keeper.Start()
	snapshot = h.keeper.Snapshot()
	require.False(t, snapshot.Paused)
	require.True(t, snapshot.Active)

	snapshot = h.advance(7 * time.Second)
	require.Equal(t, model.ModePreparing, snapshot.Mode)
}

func TestTimeKeeper_PauseResumeDoesNotDrift(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 10, Preparing: 5, Stretching: 10}, shortLimits)

	h.keeper.Start()
	running := []time.Duration{2500 * time.Millisecond, 1300 * time.Millisecond, 700 * time.Millisecond, 1700 * time.Millisecond}
	var total time.Duration
	for _, slice := range running {
		h.advance(slice)
		total += slice
		h.keeper.Pause()
		h.advance(17*time.Second + 300*time.Millisecond)
		h.keeper.Resume()
	}

	require.Equal(t, 6200*time.Millisecond, total)
	snapshot := h.advance(3700 * time.Millisecond)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 1, snapshot.Remaining)

	snapshot = h.advance(100 * time.Millisecond)
	require.Equal(t, model.ModePreparing, snapshot.Mode)
	require.Equal(t, 5, snapshot.Remaining)
}

type laggingClock struct {
	*clock.Fake
	lag time.Duration
}

func (c laggingClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.Fake.AfterFunc(d+c.lag, f)
}

func TestTimeKeeper_LateTicksTransitionLateButCorrect(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(epoch)
	keeper := New(nil, nil, model.Durations{Sitting: 10, Preparing: 5, Stretching: 10}, Config{
		Clock:  laggingClock{Fake: fake, lag: 700 * time.Millisecond},
		Limits: shortLimits,
		Logger: zap.NewNop().Sugar(),
	})
	t.Cleanup(keeper.Close)

	keeper.Start()
	fake.Advance(5 * time.Second)
	require.Equal(t, 6, keeper.Snapshot().Remaining)

	fake.Advance(5500 * time.Millisecond)
	require.Equal(t, model.ModeSitting, keeper.Snapshot().Mode)
	require.Equal(t, 1, keeper.Snapshot().Remaining)

	fake.Advance(200 * time.Millisecond)
	require.Equal(t, model.ModePreparing, keeper.Snapshot().Mode)
	require.Equal(t, 5, keeper.Snapshot().Remaining)
}

func TestTimeKeeper_ResetIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 2, Preparing: 4, Stretching: 6}, shortLimits)
	h.keeper.Start()
	h.advance(3 * time.Second)
	require.Equal(t, model.ModePreparing, h.keeper.Snapshot().Mode)

	h.keeper.Reset()
	once := h.keeper.Snapshot()
	h.keeper.Reset()
	twice := h.keeper.Snapshot()

	require.Equal(t, once, twice)
	require.Equal(t, Snapshot{
		Mode:      model.ModeSitting,
		Remaining: 2,
		Durations: model.Durations{Sitting: 2, Preparing: 4, Stretching: 6},
	}, twice)
	for role, sound := range h.sounds {
		require.False(t, sound.IsPlaying(), role)
	}
	require.Zero(t, h.clock.Pending())

	h.advance(time.Minute)
	require.Equal(t, twice, h.keeper.Snapshot())
}

func TestTimeKeeper_SetDurationRejectedWhileActive(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.DefaultDurations(), model.Limits{})
	h.keeper.Start()
	before := h.keeper.Snapshot()

	require.False(t, h.keeper.SetDuration(model.ModeSitting, 120))
	require.Equal(t, before, h.keeper.Snapshot())
	require.Empty(t, h.store.saved)

	h.keeper.Pause()
	require.False(t, h.keeper.SetDuration(model.ModeStretching, 120))
	require.Equal(t, model.DefaultDurations(), h.keeper.Snapshot().Durations)
}

func TestTimeKeeper_SetDurationClampsAndPersists(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.DefaultDurations(), model.Limits{})

	require.True(t, h.keeper.SetDuration(model.ModePreparing, 99))
	require.True(t, h.keeper.SetDuration(model.ModeStretching, 30))
	require.True(t, h.keeper.SetDuration(model.ModeSitting, 20000))

	snapshot := h.keeper.Snapshot()
	require.Equal(t, model.Durations{Sitting: 14400, Stretching: 60, Preparing: 30}, snapshot.Durations)
	require.Equal(t, 14400, snapshot.Remaining)
	require.Len(t, h.store.saved, 3)
	require.Equal(t, snapshot.Durations, h.store.saved[2])
}

func TestTimeKeeper_SetDurationOfOtherModeKeepsRemaining(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.DefaultDurations(), model.Limits{})
	require.True(t, h.keeper.SetDuration(model.ModePreparing, 12))
	require.Equal(t, 1800, h.keeper.Snapshot().Remaining)
}

func TestTimeKeeper_PersistenceFailureIsAbsorbed(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.DefaultDurations(), model.Limits{})
	h.store.err = errors.New("disk full")

	require.True(t, h.keeper.SetDuration(model.ModeSitting, 600))
	require.Equal(t, 600, h.keeper.Snapshot().Remaining)
	h.keeper.HardReset()
	require.Equal(t, 1800, h.keeper.Snapshot().Remaining)
}

func TestTimeKeeper_HardResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 600, Stretching: 120, Preparing: 20}, model.Limits{})
	h.keeper.Start()
	h.advance(90 * time.Second)

	h.keeper.HardReset()

	snapshot := h.keeper.Snapshot()
	require.Equal(t, model.Durations{Sitting: 1800, Stretching: 300, Preparing: 10}, snapshot.Durations)
	require.Equal(t, 1800, snapshot.Remaining)
	require.False(t, snapshot.Active)
	require.Equal(t, model.ModeSitting, snapshot.Mode)
	require.Equal(t, 1, h.store.clears)
	require.Zero(t, h.clock.Pending())
}

// stretchingHarness enters stretching at t=3s with a 20s stretch, so the
// fade starts at t=14s (9s left) and runs for 9s.
func stretchingHarness(t *testing.T) (*harness, *audiotest.Sound) {
	t.Helper()

	h := newHarness(t, model.Durations{Sitting: 1, Preparing: 2, Stretching: 20}, shortLimits)
	h.keeper.Start()
	h.advance(3 * time.Second)
	require.Equal(t, model.ModeStretching, h.keeper.Snapshot().Mode)
	return h, h.sounds[audio.RoleStretchingLoop]
}

func TestTimeKeeper_FadeIsMonotonic(t *testing.T) {
	t.Parallel()

	h, loop := stretchingHarness(t)

	h.advance(10 * time.Second)
	require.Equal(t, 1.0, loop.Volume())

	previous := loop.Volume()
	for range 99 {
		h.advance(100 * time.Millisecond)
		require.LessOrEqual(t, loop.Volume(), previous)
		previous = loop.Volume()
	}
	require.InDelta(t, 0.0, loop.Volume(), 0.02)

	h.advance(100 * time.Millisecond)
	require.Equal(t, model.ModeSitting, h.keeper.Snapshot().Mode)
	require.False(t, loop.IsPlaying())
}

func TestTimeKeeper_FadeResumesFromPreservedProgress(t *testing.T) {
	t.Parallel()

	h, loop := stretchingHarness(t)
	h.advance(11 * time.Second)

	h.advance(3 * time.Second)
	require.InDelta(t, 2.0/3.0, loop.Volume(), 1e-9)

	h.keeper.Pause()
	require.False(t, loop.IsPlaying())
	h.advance(45 * time.Second)
	require.InDelta(t, 2.0/3.0, loop.Volume(), 1e-9)

	h.keeper.Resume()
	require.True(t, loop.IsPlaying())
	require.InDelta(t, 2.0/3.0, loop.Volume(), 1e-9)

	h.advance(3 * time.Second)
	require.InDelta(t, 1.0/3.0, loop.Volume(), 1e-9)
	require.Equal(t, model.ModeStretching, h.keeper.Snapshot().Mode)
}

func TestTimeKeeper_MuteDuringFade(t *testing.T) {
	t.Parallel()

	h, loop := stretchingHarness(t)
	h.advance(14 * time.Second)

	h.keeper.ToggleMute()
	require.True(t, h.keeper.Snapshot().Muted)
	require.Equal(t, 0.0, loop.Volume())

	h.advance(3 * time.Second)
	require.Equal(t, 0.0, loop.Volume())

	h.keeper.ToggleMute()
	require.False(t, h.keeper.Snapshot().Muted)
	require.InDelta(t, 1.0/3.0, loop.Volume(), 1e-9)

	h.advance(1500 * time.Millisecond)
	require.InDelta(t, 1.0/6.0, loop.Volume(), 1e-9)
}

func TestTimeKeeper_PreparationFadeThreshold(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 1, Preparing: 10, Stretching: 60}, shortLimits)
	loop := h.sounds[audio.RolePreparationLoop]
	h.keeper.Start()

	h.advance(time.Second)
	require.Equal(t, model.ModePreparing, h.keeper.Snapshot().Mode)

	h.advance(4 * time.Second)
	require.Equal(t, 6, h.keeper.Snapshot().Remaining)
	require.Equal(t, 1.0, loop.Volume())

	h.advance(time.Second)
	require.Equal(t, 5, h.keeper.Snapshot().Remaining)
	require.Equal(t, 1.0, loop.Volume())

	h.advance(2500 * time.Millisecond)
	require.InDelta(t, 0.5, loop.Volume(), 1e-9)
}

func TestTimeKeeper_MutedStartPlaysNothingButKeepsSchedule(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(epoch)
	sounds := audiotest.Set()
	keeper := New(audio.NewBank(audiotest.AsSounds(sounds), nil), nil,
		model.Durations{Sitting: 2, Preparing: 2, Stretching: 2},
		Config{Clock: fake, Limits: shortLimits, Muted: true, Logger: zap.NewNop().Sugar()})
	t.Cleanup(keeper.Close)

	keeper.Start()
	fake.Advance(3 * time.Second)

	require.Equal(t, model.ModePreparing, keeper.Snapshot().Mode)
	require.True(t, keeper.Snapshot().Muted)
	for role, sound := range sounds {
		require.Zero(t, sound.Starts(), role)
	}
}

func TestTimeKeeper_AudioFailureDoesNotBlockSchedule(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(epoch)
	sounds := make(map[audio.Role]audio.Sound)
	for _, role := range audio.Roles() {
		sound := audiotest.NewUnready()
		sound.FailLoads()
		sounds[role] = sound
	}
	keeper := New(audio.NewBank(sounds, nil), nil,
		model.Durations{Sitting: 3, Preparing: 2, Stretching: 4},
		Config{Clock: fake, Limits: shortLimits, Logger: zap.NewNop().Sugar()})
	t.Cleanup(keeper.Close)

	keeper.Start()
	fake.Advance(3 * time.Second)
	require.Equal(t, model.ModePreparing, keeper.Snapshot().Mode)
	fake.Advance(2 * time.Second)
	require.Equal(t, model.ModeStretching, keeper.Snapshot().Mode)
	fake.Advance(4 * time.Second)
	require.Equal(t, model.ModeSitting, keeper.Snapshot().Mode)
}

func TestTimeKeeper_CloseCancelsEverything(t *testing.T) {
	t.Parallel()

	h := newHarness(t, model.Durations{Sitting: 1, Preparing: 2, Stretching: 20}, shortLimits)
	events := h.keeper.Subscribe(4)
	h.keeper.Start()
	h.advance(1500 * time.Millisecond)

	h.keeper.Close()
	require.Zero(t, h.clock.Pending())
	for range events {
	}
	for role, sound := range h.sounds {
		require.False(t, sound.IsPlaying(), role)
	}

	before := h.keeper.Snapshot()
	h.keeper.Start()
	h.keeper.Reset()
	require.Equal(t, before, h.keeper.Snapshot())

	_, open := <-h.keeper.Subscribe(1)
	require.False(t, open)
}
