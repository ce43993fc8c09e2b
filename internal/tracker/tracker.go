// Package tracker samples the focused application once per tick, classifies
// it, and keeps today's running totals in step with the persisted sample log.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/brainrot/internal/classify"
	"github.com/sadopc/brainrot/internal/usage"
)

// Store is the persistence port the tracker writes samples to and reads
// history from.
type Store interface {
	AppendSample(usage.Sample) error
	SnapshotForDate(date time.Time) (usage.DailySnapshot, error)
	LoadCategoryAssignments() (map[string]usage.Category, error)
	SaveCategoryAssignment(app string, category usage.Category) error
	Aggregates(startInclusive, endExclusive time.Time) ([]usage.DateAggregate, error)
	TimelineBins(startInclusive, endExclusive time.Time, binSize time.Duration) ([]usage.TimelineBin, error)
	DeleteAllData() error
	// Location is the zone whose calendar dates the store groups by.
	Location() *time.Location
}

// Prober reports the application that currently has focus. ok is false when
// there is no signal this cycle.
type Prober interface {
	ActiveApplication() (app string, ok bool)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func() (string, bool)

func (f ProbeFunc) ActiveApplication() (string, bool) { return f() }

// Health describes persistence failures seen by the tick loop.
type Health struct {
	Degraded  bool
	Failures  int
	LastError error
	LastAt    time.Time
}

// Tracker is safe for concurrent use by one tick driver and any number of
// query callers. Tick itself must not be called concurrently.
type Tracker struct {
	mu sync.Mutex

	store      Store
	prober     Prober
	classifier *classify.Classifier
	now        func() time.Time
	loc        *time.Location
	logger     *slog.Logger

	date  time.Time // local midnight of the day being tallied
	tally *usage.Tally

	health Health
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
	self   string
	seeds  classify.Seeds
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSelf sets the tracker's own process identity, which is never counted.
func WithSelf(self string) Option {
	return func(o *options) { o.self = self }
}

// WithSeeds replaces the default category lists.
func WithSeeds(seeds classify.Seeds) Option {
	return func(o *options) { o.seeds = seeds }
}

// New loads today's snapshot and the persisted category assignments.
func New(store Store, prober Prober, opts ...Option) (*Tracker, error) {
	o := options{
		now:   time.Now,
		seeds: classify.DefaultSeeds(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	t := &Tracker{
		store:      store,
		prober:     prober,
		classifier: classify.New(o.self, o.seeds),
		now:        o.now,
		loc:        store.Location(),
		logger:     o.logger,
	}
	if t.loc == nil {
		t.loc = time.Local
	}

	today := usage.StartOfDay(t.localNow())
	snap, err := store.SnapshotForDate(today)
	if err != nil {
		return nil, fmt.Errorf("load today: %w", err)
	}
	t.date = today
	t.tally = usage.TallyFrom(snap)

	assignments, err := store.LoadCategoryAssignments()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	t.classifier.Load(assignments)
	return t, nil
}

// Tick runs one sampling cycle. It reports whether an application was just
// surfaced into the Neutral list. A persistence error aborts the tick with
// counters unchanged and marks the tracker degraded.
func (t *Tracker) Tick() (bool, error) {
	// Platform probes may shell out; queries must not wait on them.
	app, ok := t.prober.ActiveApplication()
	app = strings.TrimSpace(app)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.localNow()
	if err := t.rollover(now); err != nil {
		return false, t.fail(now, err)
	}
	if !ok || app == "" {
		return false, nil
	}

	category := t.classifier.Classify(app)
	if category == usage.Ignored {
		return false, nil
	}

	sample := usage.Sample{Timestamp: now, App: app, Category: category, Duration: 1}
	if err := t.store.AppendSample(sample); err != nil {
		return false, t.fail(now, fmt.Errorf("record %s: %w", app, err))
	}
	t.tally.Add(app, category, sample.Duration)

	surfaced, err := t.autoDiscover(app)
	if err != nil {
		// The sample is stored; discovery is retried on the next tick.
		t.logger.Warn("auto-discover failed", "app", app, "err", err)
		return false, nil
	}
	return surfaced, nil
}

func (t *Tracker) localNow() time.Time {
	return t.now().In(t.loc)
}

// rollover reloads the running totals when the local date has moved on.
func (t *Tracker) rollover(now time.Time) error {
	today := usage.StartOfDay(now)
	if !today.After(t.date) {
		return nil
	}
	snap, err := t.store.SnapshotForDate(today)
	if err != nil {
		return fmt.Errorf("roll over to %s: %w", today.Format("2006-01-02"), err)
	}
	t.logger.Info("day rollover", "from", t.date.Format("2006-01-02"), "to", today.Format("2006-01-02"))
	t.date = today
	t.tally = usage.TallyFrom(snap)
	return nil
}

func (t *Tracker) autoDiscover(app string) (bool, error) {
	secs := t.tally.Seconds(app)
	if t.classifier.Known(app) || secs < classify.AutoDiscoverSeconds {
		return false, nil
	}
	if err := t.store.SaveCategoryAssignment(app, usage.Neutral); err != nil {
		return false, fmt.Errorf("auto-discover %s: %w", app, err)
	}
	if !t.classifier.AutoDiscover(app, secs) {
		return false, nil
	}
	t.logger.Info("application discovered", "app", app, "seconds", secs)
	return true, nil
}

func (t *Tracker) fail(at time.Time, err error) error {
	t.health.Degraded = true
	t.health.Failures++
	t.health.LastError = err
	t.health.LastAt = at
	t.logger.Error("tick failed", "err", err, "failures", t.health.Failures)
	return err
}

// Health reports whether any tick has failed to persist.
func (t *Tracker) Health() Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.health
}

// Date returns local midnight of the day currently tallied.
func (t *Tracker) Date() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.date
}

// Snapshot returns a copy of today's running totals.
func (t *Tracker) Snapshot() usage.DailySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tally.Snapshot(t.date)
}

// TopApplications returns the n most used applications today.
func (t *Tracker) TopApplications(n int) []usage.AppSeconds {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tally.Top(n)
}

// Aggregates returns per-date totals for [today-daysBack, today+1), where
// today is taken in the store's location.
func (t *Tracker) Aggregates(daysBack int) ([]usage.DateAggregate, error) {
	if daysBack < 0 {
		return nil, fmt.Errorf("%w: daysBack %d", usage.ErrInvalidRange, daysBack)
	}
	today := usage.StartOfDay(t.localNow())
	return t.store.Aggregates(today.AddDate(0, 0, -daysBack), today.AddDate(0, 0, 1))
}

// TimelineBins returns binSize-wide totals over [start, end).
func (t *Tracker) TimelineBins(start, end time.Time, binSize time.Duration) ([]usage.TimelineBin, error) {
	if _, err := usage.BinCount(start, end, binSize); err != nil {
		return nil, err
	}
	return t.store.TimelineBins(start, end, binSize)
}

// ClearAllData purges history, zeroes today's totals, and writes the current
// category lists back so classification survives the wipe.
func (t *Tracker) ClearAllData() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteAllData(); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	t.tally = usage.NewTally()
	t.date = usage.StartOfDay(t.localNow())

	var errs []error
	for app, category := range t.classifier.Assignments() {
		if err := t.store.SaveCategoryAssignment(app, category); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("restore categories: %w", err)
	}
	t.logger.Info("usage data cleared")
	return nil
}

// Category returns the current category of app; blank input is Neutral.
func (t *Tracker) Category(app string) usage.Category {
	if strings.TrimSpace(app) == "" {
		return usage.Neutral
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.classifier.Classify(app)
}

// SetCategory persists and applies a new category for app. Blank input and
// non-countable categories are ignored. Existing samples keep their category.
func (t *Tracker) SetCategory(app string, category usage.Category) error {
	name := strings.TrimSpace(app)
	if name == "" || !category.Counted() {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveCategoryAssignment(name, category); err != nil {
		return fmt.Errorf("set category: %w", err)
	}
	t.classifier.Assign(name, category)
	return nil
}

// Members returns the sorted applications listed under category.
func (t *Tracker) Members(category usage.Category) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.classifier.Members(category)
}

// SetIgnored replaces the list of applications that are never sampled.
func (t *Tracker) SetIgnored(apps []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classifier.SetIgnored(apps)
}
