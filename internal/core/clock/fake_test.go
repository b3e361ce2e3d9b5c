package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	var fired []string
	fake.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	fake.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	fake.AfterFunc(5*time.Second, func() { fired = append(fired, "late") })

	fake.Advance(3 * time.Second)

	require.Equal(t, []string{"a", "b"}, fired)
	require.Equal(t, start.Add(3*time.Second), fake.Now())
	require.Equal(t, 1, fake.Pending())
}

func TestFake_CallbackSeesDeadlineAndCanReschedule(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	var seen []time.Duration
	var schedule func()
	schedule = func() {
		fake.AfterFunc(time.Second, func() {
			seen = append(seen, fake.Now().Sub(start))
			schedule()
		})
	}
	schedule()

	fake.Advance(3500 * time.Millisecond)

	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, seen)
}

func TestFake_StopCancelsCallback(t *testing.T) {
	t.Parallel()

	fake := NewFake(time.Unix(0, 0))
	called := false
	timer := fake.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	fake.Advance(2 * time.Second)
	require.False(t, called)
	require.Zero(t, fake.Pending())
}
