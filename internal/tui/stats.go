package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/usage"
)

type statsMode int

const (
	statsDaily statsMode = iota
	statsWeekly
	statsMonthly
)

var statsModeNames = []string{"daily", "weekly", "monthly"}

func (m statsMode) String() string { return statsModeNames[m] }

func parseStatsMode(s string) statsMode {
	for i, name := range statsModeNames {
		if s == name {
			return statsMode(i)
		}
	}
	return statsDaily
}

// spanDays is the number of days shown by the weekly and monthly modes.
func (m statsMode) spanDays() int {
	switch m {
	case statsWeekly:
		return 7
	case statsMonthly:
		return 30
	}
	return 1
}

type statsModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	mode   statsMode
	offset int // periods back from the current one

	bins []usage.TimelineBin
	days []usage.DateAggregate
	err  error

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	mode := statsDaily
	if v, err := s.GetSetting(store.SettingStatsInterval); err == nil {
		mode = parseStatsMode(v)
	}
	return statsModel{
		store: s,
		now:   time.Now,
		mode:  mode,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type statsDataMsg struct {
	bins []usage.TimelineBin
	days []usage.DateAggregate
	err  error
}

func (r statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		if r.mode == statsDaily {
			bins, err := r.store.TimelineBins(from, to, time.Hour)
			return statsDataMsg{bins: bins, err: err}
		}
		days, err := r.store.Aggregates(from, to)
		if err != nil {
			return statsDataMsg{err: err}
		}
		return statsDataMsg{days: usage.FillDates(days, from, to)}
	}
}

// dateRange returns the half-open range shown for the current mode and offset.
func (r statsModel) dateRange() (time.Time, time.Time) {
	today := usage.StartOfDay(r.now().In(r.store.Location()))
	span := r.mode.spanDays()
	end := today.AddDate(0, 0, 1-span*r.offset)
	return end.AddDate(0, 0, -span), end
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.bins, r.days, r.err = msg.bins, msg.days, msg.err
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			r.mode = (r.mode + 1) % statsMode(len(statsModeNames))
			r.offset = 0
			mode := r.mode.String()
			s := r.store
			return r, tea.Batch(r.refresh(), func() tea.Msg {
				if err := s.SetSetting(store.SettingStatsInterval, mode); err != nil {
					return statusMsg{text: fmt.Sprintf("Save interval: %v", err), isError: true}
				}
				return nil
			})
		}
	}
	return r, nil
}

func stackedValues(rot, focus, neutral int64, unit float64) []barchart.BarValue {
	return []barchart.BarValue{
		{Name: "focus", Value: float64(focus) / unit, Style: focusStyle},
		{Name: "neutral", Value: float64(neutral) / unit, Style: neutralStyle},
		{Name: "rot", Value: float64(rot) / unit, Style: rotStyle},
	}
}

func (r *statsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	var bars []barchart.BarData
	if r.mode == statsDaily {
		for _, b := range r.bins {
			bars = append(bars, barchart.BarData{
				Label:  b.Start.Format("15"),
				Values: stackedValues(b.RotSeconds, b.FocusSeconds, b.NeutralSeconds, 60),
			})
		}
	} else {
		layout := "Mon 02"
		if r.mode == statsMonthly {
			layout = "02"
		}
		for _, d := range r.days {
			bars = append(bars, barchart.BarData{
				Label:  d.Date.Format(layout),
				Values: stackedValues(d.RotSeconds, d.FocusSeconds, d.NeutralSeconds, 3600),
			})
		}
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	r.chart.PushAll(bars)
	r.chart.Draw()
}

// totals sums whatever the current mode loaded.
func (r statsModel) totals() usage.DateAggregate {
	if r.mode != statsDaily {
		return usage.SumDates(r.days)
	}
	var sum usage.DateAggregate
	for _, b := range r.bins {
		sum.RotSeconds += b.RotSeconds
		sum.FocusSeconds += b.FocusSeconds
		sum.NeutralSeconds += b.NeutralSeconds
	}
	return sum
}

func (r statsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, name := range statsModeNames {
		label := strings.ToUpper(name[:1]) + name[1:]
		if statsMode(i) == r.mode {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	from, to := r.dateRange()
	rangeLabel := from.Format("Jan 02, 2006")
	if r.mode != statsDaily {
		rangeLabel = fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006"))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", modeTabs, "  ", mutedStyle.Render(rangeLabel),
	)

	if r.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", errorStyle.Render("  "+r.err.Error()),
		))
	}

	unit := "hours"
	if r.mode == statsDaily {
		unit = "minutes"
	}
	legend := fmt.Sprintf("  %s focus  %s neutral  %s rot  %s",
		focusStyle.Render("●"), neutralStyle.Render("●"), rotStyle.Render("●"), mutedStyle.Render("("+unit+")"))

	nav := mutedStyle.Render("  ←/→: navigate  m: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r statsModel) renderSummaryTable(w int) string {
	sum := r.totals()
	if sum.Total() == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s %10s", "Date", "Focus", "Neutral", "Rot", "Total")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	line := func(label string, a usage.DateAggregate) string {
		return fmt.Sprintf("  %-12s %10s %10s %10s %10s", label,
			formatHours(a.FocusSeconds), formatHours(a.NeutralSeconds), formatHours(a.RotSeconds), formatHours(a.Total()))
	}
	for _, d := range r.days {
		if d.Total() == 0 {
			continue
		}
		rows = append(rows, line(d.Date.Format(time.DateOnly), d))
	}
	rows = append(rows, titleStyle.Render(line("Total", sum)))
	return strings.Join(rows, "\n")
}
