package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewStats
	viewCategories
	viewSettings
)

var viewNames = []string{"Dashboard", "Stats", "Categories", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type categoryChangedMsg struct {
	app      string
	category usage.Category
}

type settingsSavedMsg struct {
	refreshEvery int
	topApps      int
}

type dataClearedMsg struct{}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

// percent returns part as a whole-number share of total.
func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(part * 100 / total)
}
