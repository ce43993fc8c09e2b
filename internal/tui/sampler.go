package tui

import (
	"time"

	"github.com/sadopc/brainrot/internal/tracker"
)

// samplerState tracks whether ticks are forwarded to the tracker.
type samplerState int

const (
	samplerRunning samplerState = iota
	samplerPaused
)

// samplerModel drives Tracker.Tick from the UI tick loop and decides when
// the views should reload.
type samplerModel struct {
	tracker *tracker.Tracker

	state        samplerState
	startTime    time.Time
	pausedAt     time.Time
	pauseGap     time.Duration
	ticks        int
	refreshEvery int

	lastErr error
}

func newSamplerModel(tr *tracker.Tracker, refreshEvery int) samplerModel {
	return samplerModel{
		tracker:      tr,
		state:        samplerRunning,
		startTime:    time.Now(),
		refreshEvery: max(refreshEvery, 1),
	}
}

// tick samples once and reports whether the views should refresh: every
// refreshEvery ticks, when an app was just discovered, or after a failure.
func (s *samplerModel) tick() bool {
	if s.state != samplerRunning {
		return false
	}
	surfaced, err := s.tracker.Tick()
	s.ticks++
	if err != nil {
		s.lastErr = err
		return true
	}
	return surfaced || s.ticks%s.refreshEvery == 0
}

func (s *samplerModel) pause() {
	if s.state != samplerRunning {
		return
	}
	s.state = samplerPaused
	s.pausedAt = time.Now()
}

func (s *samplerModel) resume() {
	if s.state != samplerPaused {
		return
	}
	s.pauseGap += time.Since(s.pausedAt)
	s.state = samplerRunning
}

func (s *samplerModel) toggle() {
	switch s.state {
	case samplerRunning:
		s.pause()
	case samplerPaused:
		s.resume()
	}
}

func (s *samplerModel) setRefreshEvery(n int) {
	s.refreshEvery = max(n, 1)
}

func (s samplerModel) paused() bool {
	return s.state == samplerPaused
}

// uptime is the time spent sampling, excluding pauses.
func (s samplerModel) uptime() time.Duration {
	if s.state == samplerPaused {
		return s.pausedAt.Sub(s.startTime) - s.pauseGap
	}
	return time.Since(s.startTime) - s.pauseGap
}
