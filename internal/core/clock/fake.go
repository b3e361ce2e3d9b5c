package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a virtual Clock. Time only moves through Advance, and callbacks
// run synchronously on the goroutine calling Advance.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

// NewFake returns a virtual clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the virtual time.
func (clock *Fake) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers f to run once the virtual time reaches now+d.
func (clock *Fake) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &fakeTimer{
		clock:    clock,
		deadline: clock.now.Add(d),
		seq:      clock.seq,
		fn:       f,
	}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves the virtual time forward by d, firing due callbacks in
// deadline order. Callbacks scheduled while advancing fire too when they
// fall inside the window.
func (clock *Fake) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.nextDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		next.fired = true
		if next.deadline.After(clock.now) {
			clock.now = next.deadline
		}
		clock.removeLocked(next)
		clock.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (clock *Fake) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Fake) nextDueLocked(target time.Time) *fakeTimer {
	if len(clock.timers) == 0 {
		return nil
	}
	sort.SliceStable(clock.timers, func(i, j int) bool {
		left, right := clock.timers[i], clock.timers[j]
		if left.deadline.Equal(right.deadline) {
			return left.seq < right.seq
		}
		return left.deadline.Before(right.deadline)
	})
	first := clock.timers[0]
	if first.deadline.After(target) {
		return nil
	}
	return first
}

func (clock *Fake) removeLocked(timer *fakeTimer) {
	for index, candidate := range clock.timers {
		if candidate == timer {
			clock.timers = append(clock.timers[:index], clock.timers[index+1:]...)
			return
		}
	}
}

func (timer *fakeTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.stopped || timer.fired {
		return false
	}
	timer.stopped = true
	timer.clock.removeLocked(timer)
	return true
}
