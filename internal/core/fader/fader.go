// Package fader drives at most one linear volume fade to silence.
//
// The scheduler holds no timers of its own: the owner steps it with the
// current time, so a virtual clock can drive it in tests.
package fader

import "time"

// MinDuration keeps the interpolation away from a zero divisor.
const MinDuration = 100 * time.Millisecond

// Target is the channel a fade acts on.
type Target interface {
	SetVolume(volume float64)
	Stop()
}

// Job is a single fade in flight.
type Job struct {
	target    Target
	startedAt time.Time
	duration  time.Duration
	initial   float64
	held      bool
	elapsed   time.Duration
}

// Scheduler owns the live fade job, if any.
type Scheduler struct {
	job *Job
}

// New returns an idle scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Start replaces any fade in flight with a fade of target from initial
// down to 0 over duration.
func (scheduler *Scheduler) Start(target Target, initial float64, duration time.Duration, now time.Time) {
	if duration < MinDuration {
		duration = MinDuration
	}
	scheduler.job = &Job{
		target:    target,
		startedAt: now,
		duration:  duration,
		initial:   initial,
	}
}

// Active reports whether a fade is live.
func (scheduler *Scheduler) Active() bool {
	return scheduler.job != nil
}

// Targets reports whether the live fade acts on target.
func (scheduler *Scheduler) Targets(target Target) bool {
	return scheduler.job != nil && scheduler.job.target == target
}

// Held reports whether the live fade is frozen.
func (scheduler *Scheduler) Held() bool {
	return scheduler.job != nil && scheduler.job.held
}

// Hold freezes the fade's progress at now.
func (scheduler *Scheduler) Hold(now time.Time) {
	job := scheduler.job
	if job == nil || job.held {
		return
	}
	job.elapsed = now.Sub(job.startedAt)
	job.held = true
}

// Resume continues a held fade from the progress it was frozen at.
func (scheduler *Scheduler) Resume(now time.Time) {
	job := scheduler.job
	if job == nil || !job.held {
		return
	}
	job.startedAt = now.Add(-job.elapsed)
	job.held = false
}

// Progress returns the elapsed fraction of the live fade in [0,1].
func (scheduler *Scheduler) Progress(now time.Time) float64 {
	job := scheduler.job
	if job == nil {
		return 0
	}
	return progress(job.elapsedAt(now), job.duration)
}

// Volume returns the volume the live fade implies at now.
func (scheduler *Scheduler) Volume(now time.Time) float64 {
	job := scheduler.job
	if job == nil {
		return 0
	}
	return Volume(job.initial, job.elapsedAt(now), job.duration)
}

// Step applies the current volume to the target. When the fade is
// complete the target is stopped and the job cleared. It reports whether
// a fade is still live.
func (scheduler *Scheduler) Step(now time.Time) bool {
	job := scheduler.job
	if job == nil {
		return false
	}
	elapsed := job.elapsedAt(now)
	if progress(elapsed, job.duration) >= 1 {
		job.target.SetVolume(0)
		job.target.Stop()
		scheduler.job = nil
		return false
	}
	job.target.SetVolume(Volume(job.initial, elapsed, job.duration))
	return true
}

// Cancel drops the live fade without touching the target.
func (scheduler *Scheduler) Cancel() {
	scheduler.job = nil
}

// Volume is the fade law: initial * (1 - clamp(elapsed/duration, 0, 1)).
func Volume(initial float64, elapsed, duration time.Duration) float64 {
	return initial * (1 - progress(elapsed, duration))
}

func progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	fraction := float64(elapsed) / float64(duration)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

func (job *Job) elapsedAt(now time.Time) time.Duration {
	if job.held {
		return job.elapsed
	}
	return now.Sub(job.startedAt)
}
