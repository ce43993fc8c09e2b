package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/brainrot/internal/tracker"
	"github.com/sadopc/brainrot/internal/usage"
)

type dashboardModel struct {
	tracker *tracker.Tracker
	width   int
	height  int
	topN    int

	snapshot usage.DailySnapshot
	top      []usage.AppSeconds
	health   tracker.Health
}

func newDashboardModel(tr *tracker.Tracker, topN int) dashboardModel {
	return dashboardModel{
		tracker: tr,
		topN:    max(topN, 1),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	snapshot usage.DailySnapshot
	top      []usage.AppSeconds
	health   tracker.Health
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		return dashboardDataMsg{
			snapshot: d.tracker.Snapshot(),
			top:      d.tracker.TopApplications(d.topN),
			health:   d.tracker.Health(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.snapshot = msg.snapshot
		d.top = msg.top
		d.health = msg.health
	case settingsSavedMsg:
		d.topN = max(msg.topApps, 1)
		return d, d.loadData()
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	panels := []string{d.renderMoodPanel(w), d.renderTotalsPanel(w), d.renderTopPanel(w)}
	if d.health.Degraded {
		banner := degradedStyle.Render(fmt.Sprintf("history may be incomplete (%d failed writes)", d.health.Failures))
		panels = append([]string{banner}, panels...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderMoodPanel(w int) string {
	mood := usage.MoodOf(d.snapshot)
	style := moodStyle.Width(w - 6)
	switch mood {
	case usage.MoodFullBrainrot, usage.MoodStruggling:
		style = style.Foreground(colorRot)
	case usage.MoodLockedIn:
		style = style.Foreground(colorFocus)
	default:
		style = style.Foreground(colorNeutral)
	}

	ratio := mutedStyle.Render(fmt.Sprintf("focus ratio %.0f%%", usage.FocusRatio(d.snapshot)*100))
	content := lipgloss.JoinVertical(lipgloss.Center,
		style.Render(mood.String()),
		ratio,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	total := d.snapshot.Total()
	title := titleStyle.Render("Today")
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(formatSeconds(total)))

	rows := []string{header}
	for _, c := range []usage.Category{usage.Focus, usage.Neutral, usage.Rot} {
		secs := categorySeconds(d.snapshot, c)
		rows = append(rows, fmt.Sprintf("  %s %-8s %s  %3d%%",
			categoryStyle(c).Render("●"),
			c.String(),
			formatSeconds(secs),
			percent(secs, total),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTopPanel(w int) string {
	title := titleStyle.Render("Top Apps")
	if len(d.top) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing tracked yet today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for i, a := range d.top {
		c := d.tracker.Category(a.App)
		rows = append(rows, fmt.Sprintf("  %2d. %s %-24s %s",
			i+1,
			categoryStyle(c).Render("●"),
			a.App,
			formatSeconds(a.Seconds),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func categorySeconds(s usage.DailySnapshot, c usage.Category) int64 {
	switch c {
	case usage.Rot:
		return s.RotSeconds
	case usage.Focus:
		return s.FocusSeconds
	case usage.Neutral:
		return s.NeutralSeconds
	}
	return 0
}
