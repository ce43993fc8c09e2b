package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Totals     jsonTotals   `json:"totals"`
	Days       []jsonDay    `json:"days"`
	Samples    []jsonSample `json:"samples"`
}

type jsonTotals struct {
	RotSeconds     int64  `json:"rot_seconds"`
	FocusSeconds   int64  `json:"focus_seconds"`
	NeutralSeconds int64  `json:"neutral_seconds"`
	TotalSeconds   int64  `json:"total_seconds"`
	Total          string `json:"total"`
}

type jsonDay struct {
	Date           string `json:"date"`
	RotSeconds     int64  `json:"rot_seconds"`
	FocusSeconds   int64  `json:"focus_seconds"`
	NeutralSeconds int64  `json:"neutral_seconds"`
	TotalSeconds   int64  `json:"total_seconds"`
}

type jsonSample struct {
	Timestamp   string `json:"timestamp"`
	App         string `json:"app"`
	Category    string `json:"category"`
	DurationSec int64  `json:"duration_seconds"`
}

// SamplesToJSON writes the raw samples together with their per-date totals.
func SamplesToJSON(samples []usage.Sample, days []usage.DateAggregate, path string) error {
	sum := usage.SumDates(days)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(samples),
		Totals: jsonTotals{
			RotSeconds:     sum.RotSeconds,
			FocusSeconds:   sum.FocusSeconds,
			NeutralSeconds: sum.NeutralSeconds,
			TotalSeconds:   sum.Total(),
			Total:          FormatDuration(sum.Total()),
		},
		Days:    make([]jsonDay, 0, len(days)),
		Samples: make([]jsonSample, 0, len(samples)),
	}

	for _, d := range days {
		export.Days = append(export.Days, jsonDay{
			Date:           d.Date.Format(time.DateOnly),
			RotSeconds:     d.RotSeconds,
			FocusSeconds:   d.FocusSeconds,
			NeutralSeconds: d.NeutralSeconds,
			TotalSeconds:   d.Total(),
		})
	}
	for _, s := range samples {
		export.Samples = append(export.Samples, jsonSample{
			Timestamp:   s.Timestamp.Format(time.RFC3339),
			App:         s.App,
			Category:    s.Category.String(),
			DurationSec: s.Duration,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
