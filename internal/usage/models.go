// Package usage holds the usage data model and the pure folding algorithms
// shared by the tracker and the persistence layer.
package usage

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidBinSize = errors.New("bin size must be positive")
	ErrInvalidRange   = errors.New("invalid time range")
)

// Category is the behavioral class of an application.
type Category int

const (
	Neutral Category = iota
	Rot
	Focus
	// Ignored is never persisted and never counted.
	Ignored
)

var categoryNames = map[Category]string{
	Neutral: "neutral",
	Rot:     "rot",
	Focus:   "focus",
	Ignored: "ignored",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Counted reports whether time spent in c contributes to totals.
func (c Category) Counted() bool {
	return c == Rot || c == Focus || c == Neutral
}

// ParseCategory parses a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rot":
		return Rot, nil
	case "focus":
		return Focus, nil
	case "neutral":
		return Neutral, nil
	case "ignored":
		return Ignored, nil
	}
	return Neutral, fmt.Errorf("unknown category %q", s)
}

// Sample is one append-only usage record.
type Sample struct {
	Timestamp time.Time
	App       string
	Category  Category
	Duration  int64 // seconds
}

// DailySnapshot is the running total for one local calendar day.
type DailySnapshot struct {
	Date           time.Time
	RotSeconds     int64
	FocusSeconds   int64
	NeutralSeconds int64
	PerApp         map[string]int64
	// Apps lists the keys of PerApp in the order they were first seen.
	Apps []string
}

func (s DailySnapshot) Total() int64 {
	return s.RotSeconds + s.FocusSeconds + s.NeutralSeconds
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s DailySnapshot) Clone() DailySnapshot {
	c := s
	c.PerApp = maps.Clone(s.PerApp)
	if c.PerApp == nil {
		c.PerApp = map[string]int64{}
	}
	c.Apps = slices.Clone(s.Apps)
	return c
}

// DateAggregate is the per-category total for one local calendar date.
type DateAggregate struct {
	Date           time.Time
	RotSeconds     int64
	FocusSeconds   int64
	NeutralSeconds int64
}

func (a DateAggregate) Total() int64 {
	return a.RotSeconds + a.FocusSeconds + a.NeutralSeconds
}

// TimelineBin is the per-category total for one fixed-width window.
type TimelineBin struct {
	Start          time.Time
	RotSeconds     int64
	FocusSeconds   int64
	NeutralSeconds int64
}

func (b TimelineBin) Total() int64 {
	return b.RotSeconds + b.FocusSeconds + b.NeutralSeconds
}

// AppSeconds pairs an application with its accumulated seconds.
type AppSeconds struct {
	App     string
	Seconds int64
}

// StartOfDay returns local midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
