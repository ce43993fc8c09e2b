package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

// AppendSample durably inserts one usage sample.
func (s *Store) AppendSample(sample usage.Sample) error {
	app := strings.TrimSpace(sample.App)
	switch {
	case app == "":
		return fmt.Errorf("%w: blank application", ErrInvalidSample)
	case sample.Duration < 1:
		return fmt.Errorf("%w: duration %d", ErrInvalidSample, sample.Duration)
	case !sample.Category.Counted():
		return fmt.Errorf("%w: category %s", ErrInvalidSample, sample.Category)
	}

	_, err := s.db.Exec(
		`INSERT INTO usage_samples (ts, app, category, duration) VALUES (?, ?, ?, ?)`,
		sample.Timestamp.UnixMilli(), app, sample.Category.String(), sample.Duration,
	)
	if err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	return nil
}

// SnapshotForDate folds every sample on date's local calendar day.
func (s *Store) SnapshotForDate(date time.Time) (usage.DailySnapshot, error) {
	start := usage.StartOfDay(date.In(s.loc))
	end := start.AddDate(0, 0, 1)

	samples, err := s.ListSamples(SampleFilter{From: &start, To: &end})
	if err != nil {
		return usage.DailySnapshot{}, fmt.Errorf("snapshot for %s: %w", start.Format("2006-01-02"), err)
	}
	return usage.FoldDay(start, samples), nil
}

// Aggregates returns per-date totals for samples in [startInclusive, endExclusive),
// ascending by date. Dates without samples are omitted.
func (s *Store) Aggregates(startInclusive, endExclusive time.Time) ([]usage.DateAggregate, error) {
	if endExclusive.Before(startInclusive) {
		return nil, fmt.Errorf("aggregates: %w", usage.ErrInvalidRange)
	}
	samples, err := s.ListSamples(SampleFilter{From: &startInclusive, To: &endExclusive})
	if err != nil {
		return nil, fmt.Errorf("aggregates: %w", err)
	}
	return usage.GroupByDate(samples, s.loc), nil
}

// TimelineBins partitions [startInclusive, endExclusive) into binSize-wide bins.
func (s *Store) TimelineBins(startInclusive, endExclusive time.Time, binSize time.Duration) ([]usage.TimelineBin, error) {
	if _, err := usage.BinCount(startInclusive, endExclusive, binSize); err != nil {
		return nil, fmt.Errorf("timeline bins: %w", err)
	}
	samples, err := s.ListSamples(SampleFilter{From: &startInclusive, To: &endExclusive})
	if err != nil {
		return nil, fmt.Errorf("timeline bins: %w", err)
	}
	return usage.Bins(samples, startInclusive.In(s.loc), endExclusive.In(s.loc), binSize)
}

// ListSamples returns samples in timestamp order, oldest first.
func (s *Store) ListSamples(f SampleFilter) ([]usage.Sample, error) {
	query := `SELECT ts, app, category, duration FROM usage_samples WHERE 1=1`
	var args []any

	if f.App != "" {
		query += ` AND app = ? COLLATE NOCASE`
		args = append(args, f.App)
	}
	if f.From != nil {
		query += ` AND ts >= ?`
		args = append(args, f.From.UnixMilli())
	}
	if f.To != nil {
		query += ` AND ts < ?`
		args = append(args, f.To.UnixMilli())
	}
	query += ` ORDER BY ts, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []usage.Sample
	for rows.Next() {
		var (
			sample   usage.Sample
			ts       int64
			category string
		)
		if err := rows.Scan(&ts, &sample.App, &category, &sample.Duration); err != nil {
			return nil, err
		}
		sample.Timestamp = time.UnixMilli(ts).In(s.loc)
		if sample.Category, err = usage.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("sample at %d: %w", ts, err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// CountSamples returns the number of stored samples.
func (s *Store) CountSamples() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM usage_samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count samples: %w", err)
	}
	return n, nil
}
