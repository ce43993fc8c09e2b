package usage

import (
	"fmt"
	"slices"
	"time"
)

func addTo(rot, focus, neutral *int64, c Category, secs int64) {
	switch c {
	case Rot:
		*rot += secs
	case Focus:
		*focus += secs
	case Neutral:
		*neutral += secs
	}
}

// GroupByDate folds samples into per-date totals keyed by the local calendar
// date in loc. Dates without samples are omitted. A sample at exactly
// midnight belongs to the day that starts there.
func GroupByDate(samples []Sample, loc *time.Location) []DateAggregate {
	if loc == nil {
		loc = time.Local
	}
	byDate := make(map[time.Time]*DateAggregate)
	for _, s := range samples {
		if !s.Category.Counted() {
			continue
		}
		day := StartOfDay(s.Timestamp.In(loc))
		agg, ok := byDate[day]
		if !ok {
			agg = &DateAggregate{Date: day}
			byDate[day] = agg
		}
		addTo(&agg.RotSeconds, &agg.FocusSeconds, &agg.NeutralSeconds, s.Category, s.Duration)
	}

	out := make([]DateAggregate, 0, len(byDate))
	for _, agg := range byDate {
		out = append(out, *agg)
	}
	slices.SortFunc(out, func(a, b DateAggregate) int { return a.Date.Compare(b.Date) })
	return out
}

// MaxBins caps how many bins a single timeline query may produce.
const MaxBins = 100_000

// BinCount returns ceil((end-start)/size). Ranges too wide for time.Duration
// or needing more than MaxBins bins are rejected with ErrInvalidRange.
func BinCount(start, end time.Time, size time.Duration) (int, error) {
	if size <= 0 {
		return 0, ErrInvalidBinSize
	}
	span := end.Sub(start)
	if span < 0 {
		return 0, fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	// Sub saturates instead of overflowing.
	if !start.Add(span).Equal(end) {
		return 0, fmt.Errorf("%w: span from %s to %s is too wide", ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	n := span / size
	if span%size != 0 {
		n++
	}
	if n > MaxBins {
		return 0, fmt.Errorf("%w: %d bins of %s exceeds the limit of %d", ErrInvalidRange, int64(n), size, MaxBins)
	}
	return int(n), nil
}

// Bins partitions [start, end) into equal-width bins anchored at start and
// folds samples into them. The result is dense: every bin is present even
// when empty. Samples whose index falls outside the bins are dropped.
func Bins(samples []Sample, start, end time.Time, size time.Duration) ([]TimelineBin, error) {
	n, err := BinCount(start, end, size)
	if err != nil {
		return nil, err
	}
	bins := make([]TimelineBin, n)
	for i := range bins {
		bins[i].Start = start.Add(time.Duration(i) * size)
	}
	for _, s := range samples {
		if !s.Category.Counted() {
			continue
		}
		offset := s.Timestamp.Sub(start)
		if offset < 0 {
			continue
		}
		idx := int(offset / size)
		if idx >= n {
			continue
		}
		b := &bins[idx]
		addTo(&b.RotSeconds, &b.FocusSeconds, &b.NeutralSeconds, s.Category, s.Duration)
	}
	return bins, nil
}

// FillDates returns one aggregate per calendar date in [start, end), taking
// values from aggs and zero elsewhere.
func FillDates(aggs []DateAggregate, start, end time.Time) []DateAggregate {
	byDate := make(map[time.Time]DateAggregate, len(aggs))
	for _, a := range aggs {
		byDate[StartOfDay(a.Date.In(start.Location()))] = a
	}
	var out []DateAggregate
	for d := StartOfDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if a, ok := byDate[d]; ok {
			a.Date = d
			out = append(out, a)
			continue
		}
		out = append(out, DateAggregate{Date: d})
	}
	return out
}

// SumDates totals a series of aggregates.
func SumDates(aggs []DateAggregate) DateAggregate {
	var sum DateAggregate
	for _, a := range aggs {
		sum.RotSeconds += a.RotSeconds
		sum.FocusSeconds += a.FocusSeconds
		sum.NeutralSeconds += a.NeutralSeconds
	}
	return sum
}
