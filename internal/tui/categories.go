package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/brainrot/internal/tracker"
	"github.com/sadopc/brainrot/internal/usage"
)

// categoryColumns is the left-to-right column order.
var categoryColumns = []usage.Category{usage.Focus, usage.Neutral, usage.Rot}

type categoriesModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	lists   map[usage.Category][]string
	today   map[string]int64
	column  int
	cursors []int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formApp      *string
	formCategory *usage.Category
}

func newCategoriesModel(tr *tracker.Tracker) categoriesModel {
	app, cat := "", usage.Neutral
	return categoriesModel{
		tracker:      tr,
		lists:        make(map[usage.Category][]string),
		cursors:      make([]int, len(categoryColumns)),
		formApp:      &app,
		formCategory: &cat,
	}
}

func (p *categoriesModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type categoriesDataMsg struct {
	lists map[usage.Category][]string
	today map[string]int64
}

func (p categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		lists := make(map[usage.Category][]string, len(categoryColumns))
		for _, c := range categoryColumns {
			lists[c] = p.tracker.Members(c)
		}
		today := make(map[string]int64)
		for app, secs := range p.tracker.Snapshot().PerApp {
			today[strings.ToLower(app)] += secs
		}
		return categoriesDataMsg{lists: lists, today: today}
	}
}

func (p categoriesModel) selected() (string, bool) {
	list := p.lists[categoryColumns[p.column]]
	i := p.cursors[p.column]
	if i < 0 || i >= len(list) {
		return "", false
	}
	return list[i], true
}

func (p categoriesModel) setCategory(app string, c usage.Category) tea.Cmd {
	tr := p.tracker
	return func() tea.Msg {
		if err := tr.SetCategory(app, c); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return categoryChangedMsg{app: app, category: c}
	}
}

func (p categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoriesDataMsg:
		p.lists = msg.lists
		p.today = msg.today
		for i, c := range categoryColumns {
			if n := len(p.lists[c]); p.cursors[i] >= n {
				p.cursors[i] = max(0, n-1)
			}
		}
		return p, nil

	case categoryChangedMsg:
		return p, p.refresh()

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p categoriesModel) updateList(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if p.column > 0 {
			p.column--
		}
	case key.Matches(msg, keys.Right):
		if p.column < len(categoryColumns)-1 {
			p.column++
		}
	case key.Matches(msg, keys.Up):
		if p.cursors[p.column] > 0 {
			p.cursors[p.column]--
		}
	case key.Matches(msg, keys.Down):
		if p.cursors[p.column] < len(p.lists[categoryColumns[p.column]])-1 {
			p.cursors[p.column]++
		}
	case key.Matches(msg, keys.Focus):
		return p.move(usage.Focus)
	case key.Matches(msg, keys.Neutral):
		return p.move(usage.Neutral)
	case key.Matches(msg, keys.Rot):
		return p.move(usage.Rot)
	case key.Matches(msg, keys.Add):
		return p.showAddForm()
	}
	return p, nil
}

func (p categoriesModel) move(c usage.Category) (categoriesModel, tea.Cmd) {
	app, ok := p.selected()
	if !ok || categoryColumns[p.column] == c {
		return p, nil
	}
	return p, p.setCategory(app, c)
}

func (p categoriesModel) showAddForm() (categoriesModel, tea.Cmd) {
	*p.formApp = ""
	*p.formCategory = categoryColumns[p.column]

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Application").
				Description("Process name without extension").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name required")
					}
					return nil
				}).
				Value(p.formApp),
			huh.NewSelect[usage.Category]().Title("Category").
				Options(
					huh.NewOption("Focus", usage.Focus),
					huh.NewOption("Neutral", usage.Neutral),
					huh.NewOption("Rot", usage.Rot),
				).Value(p.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		p.form = nil
		return p, p.setCategory(*p.formApp, *p.formCategory)
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	}
	return p, cmd
}

func (p categoriesModel) view() string {
	w := p.width - 4
	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Add Application"), "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	colWidth := max((w-8)/len(categoryColumns), 16)
	cols := make([]string, 0, len(categoryColumns))
	for i, c := range categoryColumns {
		cols = append(cols, p.renderColumn(i, c, colWidth))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Categories"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		"",
		mutedStyle.Render("  ←/→: column  f/n/r: move to focus/neutral/rot  a: add"),
	)
	return panelStyle.Width(w).Render(content)
}

func (p categoriesModel) renderColumn(idx int, c usage.Category, width int) string {
	title := categoryStyle(c).Bold(true).Render(strings.ToUpper(c.String()))
	rows := []string{title, ""}

	list := p.lists[c]
	if len(list) == 0 {
		rows = append(rows, mutedStyle.Render("(empty)"))
	}

	visible := max(p.height-10, 5)
	start := 0
	if cur := p.cursors[idx]; cur >= visible {
		start = cur - visible + 1
	}
	for i := start; i < len(list) && i < start+visible; i++ {
		app := list[i]
		cursor := "  "
		style := normalItemStyle
		if idx == p.column && i == p.cursors[idx] {
			cursor = "> "
			style = selectedItemStyle
		}
		line := style.Render(cursor + app)
		if secs := p.today[strings.ToLower(app)]; secs > 0 {
			line += mutedStyle.Render(" " + formatSeconds(secs))
		}
		rows = append(rows, line)
	}

	return lipgloss.NewStyle().Width(width).PaddingRight(2).Render(strings.Join(rows, "\n"))
}
