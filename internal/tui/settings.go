package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/tracker"
)

type settingsForm int

const (
	formEdit settingsForm = iota
	formClear
)

type settingsModel struct {
	store   *store.Store
	tracker *tracker.Tracker
	width   int
	height  int

	settings   []store.Setting
	formActive bool
	formType   settingsForm
	form       *huh.Form

	// Form values as pointers (survive value copies)
	statsInterval *string
	refreshEvery  *string
	topApps       *string
	confirmClear  *bool
}

func newSettingsModel(s *store.Store, tr *tracker.Tracker) settingsModel {
	si, re, ta, cc := "", "", "", false
	return settingsModel{
		store:         s,
		tracker:       tr,
		statsInterval: &si,
		refreshEvery:  &re,
		topApps:       &ta,
		confirmClear:  &cc,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		case key.Matches(msg, keys.Clear):
			return s.showClearForm()
		}
	}
	return s, nil
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return errors.New("enter a whole number of at least 1")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.statsInterval = s.getVal(store.SettingStatsInterval, "daily")
	*s.refreshEvery = s.getVal(store.SettingRefreshEvery, "5")
	*s.topApps = s.getVal(store.SettingTopApps, "10")

	options := make([]huh.Option[string], 0, len(statsModeNames))
	for _, name := range statsModeNames {
		options = append(options, huh.NewOption(strings.ToUpper(name[:1])+name[1:], name))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default stats interval").
				Options(options...).Value(s.statsInterval),
			huh.NewInput().Title("Refresh every (ticks)").
				Validate(positiveInt).Value(s.refreshEvery),
			huh.NewInput().Title("Top apps shown").
				Validate(positiveInt).Value(s.topApps),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formType = formEdit
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showClearForm() (settingsModel, tea.Cmd) {
	*s.confirmClear = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all usage history?").
				Description("Category lists are kept. This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(s.confirmClear),
		),
	).WithShowHelp(true)

	s.formType = formClear
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		if s.formType == formClear {
			if !*s.confirmClear {
				return s, nil
			}
			return s, s.clearData()
		}
		return s, tea.Batch(s.saveSettings(), s.refresh())
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	values := map[string]string{
		store.SettingStatsInterval: *s.statsInterval,
		store.SettingRefreshEvery:  strings.TrimSpace(*s.refreshEvery),
		store.SettingTopApps:       strings.TrimSpace(*s.topApps),
	}
	st := s.store
	return func() tea.Msg {
		for k, v := range values {
			if err := st.SetSetting(k, v); err != nil {
				return statusMsg{text: fmt.Sprintf("Save settings: %v", err), isError: true}
			}
		}
		return settingsSavedMsg{
			refreshEvery: st.GetIntSetting(store.SettingRefreshEvery, 5),
			topApps:      st.GetIntSetting(store.SettingTopApps, 10),
		}
	}
}

func (s settingsModel) clearData() tea.Cmd {
	tr := s.tracker
	return func() tea.Msg {
		if err := tr.ClearAllData(); err != nil {
			return statusMsg{text: fmt.Sprintf("Clear failed: %v", err), isError: true}
		}
		return dataClearedMsg{}
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))
	rows = append(rows, errorStyle.Render("Press X to clear all usage data"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingRefreshEvery:
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("every %d ticks", n)
		}
	case store.SettingTopApps:
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d apps", n)
		}
	}
	return v
}
