package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

var csvHeader = []string{"Timestamp", "Date", "Application", "Category", "Duration (s)"}

// SamplesToCSV writes one row per usage sample, oldest first as given.
func SamplesToCSV(samples []usage.Sample, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.Timestamp.Format(time.RFC3339),
			s.Timestamp.Format(time.DateOnly),
			s.App,
			s.Category.String(),
			strconv.FormatInt(s.Duration, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
