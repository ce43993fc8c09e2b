package usage

import (
	"slices"
	"strings"
	"time"
)

// Tally accumulates one day of usage. Application identities are matched
// case-insensitively; the first spelling seen is the one reported.
type Tally struct {
	rot, focus, neutral int64

	index   map[string]int // lower-cased identity -> position in names
	names   []string
	seconds []int64
}

func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// TallyFrom rebuilds a tally from a snapshot, preserving first-seen order.
func TallyFrom(s DailySnapshot) *Tally {
	t := NewTally()
	t.rot, t.focus, t.neutral = s.RotSeconds, s.FocusSeconds, s.NeutralSeconds
	seen := make(map[string]bool, len(s.PerApp))
	for _, app := range s.Apps {
		if secs, ok := s.PerApp[app]; ok && !seen[app] {
			seen[app] = true
			t.addApp(app, secs)
		}
	}
	// Apps missing from the ordering go last, sorted for determinism.
	var rest []string
	for app := range s.PerApp {
		if !seen[app] {
			rest = append(rest, app)
		}
	}
	slices.Sort(rest)
	for _, app := range rest {
		t.addApp(app, s.PerApp[app])
	}
	return t
}

// Add records secs seconds of app in category c. Uncounted categories are ignored.
func (t *Tally) Add(app string, c Category, secs int64) {
	if !c.Counted() || secs <= 0 {
		return
	}
	switch c {
	case Rot:
		t.rot += secs
	case Focus:
		t.focus += secs
	default:
		t.neutral += secs
	}
	t.addApp(app, secs)
}

func (t *Tally) addApp(app string, secs int64) {
	key := strings.ToLower(app)
	if i, ok := t.index[key]; ok {
		t.seconds[i] += secs
		return
	}
	t.index[key] = len(t.names)
	t.names = append(t.names, app)
	t.seconds = append(t.seconds, secs)
}

// Seconds returns the accumulated seconds for app.
func (t *Tally) Seconds(app string) int64 {
	if i, ok := t.index[strings.ToLower(app)]; ok {
		return t.seconds[i]
	}
	return 0
}

func (t *Tally) Total() int64 {
	return t.rot + t.focus + t.neutral
}

// Snapshot returns a copy of the tally stamped with date.
func (t *Tally) Snapshot(date time.Time) DailySnapshot {
	s := DailySnapshot{
		Date:           date,
		RotSeconds:     t.rot,
		FocusSeconds:   t.focus,
		NeutralSeconds: t.neutral,
		PerApp:         make(map[string]int64, len(t.names)),
		Apps:           slices.Clone(t.names),
	}
	for i, app := range t.names {
		s.PerApp[app] = t.seconds[i]
	}
	return s
}

// Top returns the n applications with the most seconds. Ties keep first-seen order.
func (t *Tally) Top(n int) []AppSeconds {
	out := make([]AppSeconds, len(t.names))
	for i, app := range t.names {
		out[i] = AppSeconds{App: app, Seconds: t.seconds[i]}
	}
	slices.SortStableFunc(out, func(a, b AppSeconds) int {
		switch {
		case a.Seconds > b.Seconds:
			return -1
		case a.Seconds < b.Seconds:
			return 1
		}
		return 0
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// FoldDay folds samples into a snapshot for date. Order only affects the
// Apps ordering, never the totals.
func FoldDay(date time.Time, samples []Sample) DailySnapshot {
	t := NewTally()
	for _, s := range samples {
		t.Add(s.App, s.Category, s.Duration)
	}
	return t.Snapshot(date)
}
