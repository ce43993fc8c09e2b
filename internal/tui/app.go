package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/brainrot/internal/config"
	"github.com/sadopc/brainrot/internal/export"
	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/tracker"
	"github.com/sadopc/brainrot/internal/usage"
)

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	tracker *tracker.Tracker
	width   int
	height  int

	interval time.Duration

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	sampler    samplerModel
	dashboard  dashboardModel
	stats      statsModel
	categories categoriesModel
	settings   settingsModel

	help   help.Model
	status string
}

// NewApp wires the views to a running tracker. Settings stored in the
// database take precedence over cfg.
func NewApp(tr *tracker.Tracker, s *store.Store, cfg *config.Config) App {
	if cfg == nil {
		cfg = config.Default()
	}
	h := help.New()
	h.ShowAll = false

	refreshEvery := s.GetIntSetting(store.SettingRefreshEvery, cfg.RefreshEvery)
	topApps := s.GetIntSetting(store.SettingTopApps, cfg.TopApps)

	return App{
		store:      s,
		tracker:    tr,
		interval:   max(cfg.TickInterval.Duration, 100*time.Millisecond),
		activeView: viewDashboard,
		sampler:    newSamplerModel(tr, refreshEvery),
		dashboard:  newDashboardModel(tr, topApps),
		stats:      newStatsModel(s),
		categories: newCategoriesModel(tr),
		settings:   newSettingsModel(s, tr),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(a.interval),
	)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.categories.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Pause):
			a.sampler.toggle()
			if a.sampler.paused() {
				a.status = "Sampling paused"
			} else {
				a.status = "Sampling resumed"
			}
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewCategories
			return a, a.categories.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(a.interval)}
		if a.sampler.tick() {
			cmds = append(cmds, a.dashboard.loadData())
			if a.activeView != viewDashboard && !a.isFormActive() {
				cmds = append(cmds, a.refreshCurrentView())
			}
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case categoryChangedMsg:
		a.status = fmt.Sprintf("%s is now %s", msg.app, msg.category)
		var cmd tea.Cmd
		a.categories, cmd = a.categories.update(msg)
		return a, tea.Batch(cmd, a.dashboard.loadData())

	case settingsSavedMsg:
		a.status = "Settings saved"
		a.sampler.setRefreshEvery(msg.refreshEvery)
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case dataClearedMsg:
		a.status = "All usage data cleared"
		return a, tea.Batch(a.dashboard.loadData(), a.refreshCurrentView())

	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewCategories:
		a.categories, cmd = a.categories.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewCategories:
		return a.categories.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewStats:
		return a.stats.refresh()
	case viewCategories:
		return a.categories.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewStats:
		content = a.stats.view()
	case viewCategories:
		content = a.categories.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("brainrot")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	indicator := successStyle.Render(" ● " + formatDuration(a.sampler.uptime()))
	if a.sampler.paused() {
		indicator = warningStyle.Render(" ⏸ paused")
	}
	if h := a.tracker.Health(); h.Degraded {
		indicator = errorStyle.Render(" ! history may be incomplete") + indicator
	}

	left := footerStyle.Render(helpView)
	right := indicator + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		home, _ := os.UserHomeDir()
		return a, a.doExport(a.exportCursor, home)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the full sample log into dir.
func (a App) doExport(format int, dir string) tea.Cmd {
	s := a.store
	return func() tea.Msg {
		samples, err := s.ListSamples(store.SampleFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		dateStr := time.Now().Format(time.DateOnly)

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("brainrot-export-%s.csv", dateStr))
			if err := export.SamplesToCSV(samples, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("brainrot-export-%s.json", dateStr))
			days := usage.GroupByDate(samples, s.Location())
			if err := export.SamplesToJSON(samples, days, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}
