package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/brainrot/internal/config"
	"github.com/sadopc/brainrot/internal/probe"
	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/tracker"
	"github.com/sadopc/brainrot/internal/usage"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTracker(t *testing.T, s *store.Store, apps ...string) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.New(s, probe.Static(apps...),
		tracker.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tr
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// runCmd executes cmd and any batched commands, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// ============================================================
// Sampler
// ============================================================

func TestSamplerTicksTracker(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	sm := newSamplerModel(tr, 3)

	for i := 0; i < 4; i++ {
		sm.tick()
	}
	if sm.ticks != 4 {
		t.Fatalf("expected 4 ticks, got %d", sm.ticks)
	}
	if got := tr.Snapshot().FocusSeconds; got != 4 {
		t.Fatalf("expected 4 focus seconds, got %d", got)
	}
}

func TestSamplerRefreshCadence(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	sm := newSamplerModel(tr, 3)

	var refreshes []int
	for i := 1; i <= 6; i++ {
		if sm.tick() {
			refreshes = append(refreshes, i)
		}
	}
	if len(refreshes) != 2 || refreshes[0] != 3 || refreshes[1] != 6 {
		t.Fatalf("expected refresh on ticks 3 and 6, got %v", refreshes)
	}
}

func TestSamplerRefreshOnDiscovery(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "slack")
	sm := newSamplerModel(tr, 100)

	for i := 1; i <= 5; i++ {
		refresh := sm.tick()
		if i < 5 && refresh {
			t.Fatalf("unexpected refresh on tick %d", i)
		}
		if i == 5 && !refresh {
			t.Fatal("discovering slack should force a refresh")
		}
	}
}

func TestSamplerRefreshOnFailure(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	sm := newSamplerModel(tr, 100)

	s.Close()
	if !sm.tick() {
		t.Fatal("a failed tick should force a refresh")
	}
	if sm.lastErr == nil {
		t.Fatal("error should be recorded")
	}
	if !tr.Health().Degraded {
		t.Fatal("tracker should be degraded")
	}
}

func TestSamplerPauseResume(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	sm := newSamplerModel(tr, 1)

	sm.pause()
	if !sm.paused() {
		t.Fatal("sampler should be paused")
	}
	if sm.tick() {
		t.Fatal("paused sampler should not refresh")
	}
	if tr.Snapshot().Total() != 0 {
		t.Fatal("paused sampler should not tick the tracker")
	}

	sm.resume()
	if sm.paused() {
		t.Fatal("sampler should be running after resume")
	}
	sm.tick()
	if tr.Snapshot().Total() != 1 {
		t.Fatal("resumed sampler should tick the tracker")
	}
}

func TestSamplerToggle(t *testing.T) {
	s := newTestStore(t)
	sm := newSamplerModel(newTestTracker(t, s), 1)

	sm.toggle()
	if !sm.paused() {
		t.Fatal("toggle should pause")
	}
	sm.toggle()
	if sm.paused() {
		t.Fatal("toggle should resume")
	}

	// Resume when running is a no-op.
	sm.resume()
	if sm.paused() {
		t.Fatal("should not be paused")
	}
}

func TestSamplerUptimeExcludesPause(t *testing.T) {
	s := newTestStore(t)
	sm := newSamplerModel(newTestTracker(t, s), 1)
	sm.startTime = time.Now().Add(-10 * time.Second)

	sm.pause()
	sm.pausedAt = time.Now().Add(-4 * time.Second)
	frozen := sm.uptime()
	if frozen < 5*time.Second || frozen > 7*time.Second {
		t.Fatalf("paused uptime should freeze at ~6s, got %v", frozen)
	}
	sm.resume()
	if up := sm.uptime(); up < 5*time.Second || up > 7*time.Second {
		t.Fatalf("uptime should exclude the pause, got %v", up)
	}
}

func TestSamplerRefreshEveryFloor(t *testing.T) {
	s := newTestStore(t)
	sm := newSamplerModel(newTestTracker(t, s), 0)
	if sm.refreshEvery != 1 {
		t.Fatalf("refreshEvery should be at least 1, got %d", sm.refreshEvery)
	}
	sm.setRefreshEvery(-3)
	if sm.refreshEvery != 1 {
		t.Fatalf("refreshEvery should be at least 1, got %d", sm.refreshEvery)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(3661); got != "01:01:01" {
		t.Fatalf("formatSeconds(3661) = %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(5400); got != "1.5h" {
		t.Fatalf("formatHours(5400) = %q", got)
	}
}

func TestPercent(t *testing.T) {
	if percent(1, 4) != 25 {
		t.Fatal("1 of 4 should be 25%")
	}
	if percent(5, 0) != 0 {
		t.Fatal("empty total should be 0%")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewStats] != "Stats" || viewNames[viewCategories] != "Categories" {
		t.Fatalf("view names out of order: %v", viewNames)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardLoadData(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "chrome", "chrome", "code")
	for i := 0; i < 3; i++ {
		tr.Tick()
	}

	d := newDashboardModel(tr, 5)
	d.setSize(120, 40)
	msg := d.loadData()()
	d, _ = d.update(msg)

	if d.snapshot.RotSeconds != 2 || d.snapshot.FocusSeconds != 1 {
		t.Fatalf("unexpected snapshot: %+v", d.snapshot)
	}
	if len(d.top) != 2 || d.top[0].App != "chrome" {
		t.Fatalf("unexpected top apps: %v", d.top)
	}

	view := d.view()
	if !strings.Contains(view, "chrome") {
		t.Fatal("dashboard should list chrome")
	}
	if strings.Contains(view, "history may be incomplete") {
		t.Fatal("healthy tracker should not show the degraded banner")
	}
}

func TestDashboardDegradedBanner(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	s.Close()
	tr.Tick()

	d := newDashboardModel(tr, 5)
	d.setSize(120, 40)
	d, _ = d.update(d.loadData()())

	if !strings.Contains(d.view(), "history may be incomplete") {
		t.Fatal("degraded tracker should show the banner")
	}
}

func TestDashboardMood(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	for i := 0; i < 12; i++ {
		tr.Tick()
	}

	d := newDashboardModel(tr, 5)
	d.setSize(120, 40)
	d, _ = d.update(d.loadData()())
	if !strings.Contains(d.view(), usage.MoodLockedIn.String()) {
		t.Fatal("all-focus day should render as locked in")
	}
}

func TestDashboardTopAppsSetting(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "a", "b", "c")
	for i := 0; i < 3; i++ {
		tr.Tick()
	}

	d := newDashboardModel(tr, 5)
	d, cmd := d.update(settingsSavedMsg{refreshEvery: 1, topApps: 2})
	d, _ = d.update(cmd())
	if len(d.top) != 2 {
		t.Fatalf("expected 2 top apps, got %d", len(d.top))
	}
}

// ============================================================
// Stats
// ============================================================

func TestParseStatsMode(t *testing.T) {
	tests := map[string]statsMode{
		"daily":   statsDaily,
		"weekly":  statsWeekly,
		"monthly": statsMonthly,
		"bogus":   statsDaily,
	}
	for in, want := range tests {
		if got := parseStatsMode(in); got != want {
			t.Errorf("parseStatsMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStatsDateRange(t *testing.T) {
	s := newTestStore(t)
	r := newStatsModel(s)
	now := time.Date(2026, time.June, 10, 15, 0, 0, 0, time.Local)
	r.now = func() time.Time { return now }
	today := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.Local)

	from, to := r.dateRange()
	if !from.Equal(today) || !to.Equal(today.AddDate(0, 0, 1)) {
		t.Fatalf("daily range = %v..%v", from, to)
	}

	r.mode = statsWeekly
	from, to = r.dateRange()
	if !from.Equal(today.AddDate(0, 0, -6)) || !to.Equal(today.AddDate(0, 0, 1)) {
		t.Fatalf("weekly range = %v..%v", from, to)
	}

	r.mode = statsMonthly
	r.offset = 1
	from, to = r.dateRange()
	if !to.Equal(today.AddDate(0, 0, -29)) || !from.Equal(today.AddDate(0, 0, -59)) {
		t.Fatalf("previous monthly range = %v..%v", from, to)
	}
}

func TestStatsDailyLoadsHourlyBins(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	tr.Tick()

	r := newStatsModel(s)
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())
	if r.err != nil {
		t.Fatal(r.err)
	}
	if len(r.bins) != 24 {
		t.Fatalf("expected 24 hourly bins, got %d", len(r.bins))
	}
	if r.totals().FocusSeconds != 1 {
		t.Fatalf("expected 1 focus second, got %+v", r.totals())
	}
	if r.view() == "" {
		t.Fatal("stats view rendered empty")
	}
}

func TestStatsWeeklyZeroFills(t *testing.T) {
	s := newTestStore(t)
	r := newStatsModel(s)
	r.mode = statsWeekly
	r.setSize(120, 40)

	r, _ = r.update(r.refresh()())
	if len(r.days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(r.days))
	}
	if !strings.Contains(r.view(), "No data for this period") {
		t.Fatal("empty week should say so")
	}
}

func TestStatsModeKeyPersists(t *testing.T) {
	s := newTestStore(t)
	r := newStatsModel(s)

	r, cmd := r.update(runeKey("m"))
	if r.mode != statsWeekly {
		t.Fatalf("expected weekly after m, got %v", r.mode)
	}
	runCmd(cmd)
	if v, _ := s.GetSetting(store.SettingStatsInterval); v != "weekly" {
		t.Fatalf("interval not persisted, got %q", v)
	}

	again := newStatsModel(s)
	if again.mode != statsWeekly {
		t.Fatal("stats mode should load from settings")
	}
}

func TestStatsNavigation(t *testing.T) {
	s := newTestStore(t)
	r := newStatsModel(s)

	r, _ = r.update(tea.KeyMsg{Type: tea.KeyLeft})
	if r.offset != 1 {
		t.Fatalf("left should go back one period, offset=%d", r.offset)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	if r.offset != 0 {
		t.Fatalf("offset should not go below zero, got %d", r.offset)
	}
}

// ============================================================
// Categories
// ============================================================

func loadCategories(t *testing.T, p categoriesModel) categoriesModel {
	t.Helper()
	p, _ = p.update(p.refresh()())
	return p
}

func TestCategoriesLists(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := loadCategories(t, newCategoriesModel(tr))

	if len(p.lists[usage.Rot]) == 0 || p.lists[usage.Rot][0] != "chrome" {
		t.Fatalf("rot list should start with chrome: %v", p.lists[usage.Rot])
	}
	if len(p.lists[usage.Neutral]) != 0 {
		t.Fatalf("neutral list should start empty: %v", p.lists[usage.Neutral])
	}
}

func TestCategoriesMoveSelected(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := loadCategories(t, newCategoriesModel(tr))

	// Focus, Neutral, Rot: move right twice to reach the rot column.
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyRight})
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyRight})
	if app, ok := p.selected(); !ok || app != "chrome" {
		t.Fatalf("expected chrome selected, got %q", app)
	}

	_, cmd := p.update(runeKey("f"))
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	changed, ok := msgs[0].(categoryChangedMsg)
	if !ok || changed.app != "chrome" || changed.category != usage.Focus {
		t.Fatalf("unexpected message: %#v", msgs[0])
	}
	if tr.Category("chrome") != usage.Focus {
		t.Fatal("chrome should now be focus")
	}
	if cats, _ := s.LoadCategoryAssignments(); cats["chrome"] != usage.Focus {
		t.Fatal("move should be persisted")
	}
}

func TestCategoriesMoveToSameColumnIsNoop(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := loadCategories(t, newCategoriesModel(tr))

	// First column is focus.
	_, cmd := p.update(runeKey("f"))
	if cmd != nil {
		t.Fatal("moving into the current column should do nothing")
	}
}

func TestCategoriesCursorBounds(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := loadCategories(t, newCategoriesModel(tr))

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyUp})
	if p.cursors[0] != 0 {
		t.Fatal("cursor should not go above the first item")
	}
	for i := 0; i < 50; i++ {
		p, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.cursors[0] != len(p.lists[usage.Focus])-1 {
		t.Fatalf("cursor should stop at the last item, got %d", p.cursors[0])
	}
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyLeft})
	if p.column != 0 {
		t.Fatal("column should not go below zero")
	}
}

func TestCategoriesAddForm(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	p := loadCategories(t, newCategoriesModel(tr))
	p.setSize(120, 40)

	p, _ = p.update(runeKey("a"))
	if !p.formActive {
		t.Fatal("a should open the add form")
	}
	if *p.formCategory != usage.Focus {
		t.Fatal("form should default to the current column")
	}
	if !strings.Contains(p.view(), "Add Application") {
		t.Fatal("form view should be shown")
	}

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	st := newSettingsModel(s, newTestTracker(t, s))

	*st.statsInterval = "monthly"
	*st.refreshEvery = " 3 "
	*st.topApps = "7"
	msgs := runCmd(st.saveSettings())

	saved, ok := msgs[0].(settingsSavedMsg)
	if !ok {
		t.Fatalf("expected settingsSavedMsg, got %#v", msgs[0])
	}
	if saved.refreshEvery != 3 || saved.topApps != 7 {
		t.Fatalf("unexpected saved values: %+v", saved)
	}
	if v, _ := s.GetSetting(store.SettingStatsInterval); v != "monthly" {
		t.Fatalf("stats interval = %q", v)
	}
}

func TestSettingsClearData(t *testing.T) {
	s := newTestStore(t)
	tr := newTestTracker(t, s, "code")
	tr.Tick()
	tr.SetCategory("slack", usage.Rot)

	st := newSettingsModel(s, tr)
	msgs := runCmd(st.clearData())
	if _, ok := msgs[0].(dataClearedMsg); !ok {
		t.Fatalf("expected dataClearedMsg, got %#v", msgs[0])
	}
	if n, _ := s.CountSamples(); n != 0 {
		t.Fatalf("samples should be purged, got %d", n)
	}
	if tr.Category("slack") != usage.Rot {
		t.Fatal("categories should survive a clear")
	}
}

func TestSettingsForms(t *testing.T) {
	s := newTestStore(t)
	st := newSettingsModel(s, newTestTracker(t, s))
	st.setSize(120, 40)

	st, _ = st.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !st.formActive || st.formType != formEdit {
		t.Fatal("enter should open the edit form")
	}
	if *st.refreshEvery != "5" {
		t.Fatalf("form should load current values, got %q", *st.refreshEvery)
	}
	st, _ = st.update(tea.KeyMsg{Type: tea.KeyEsc})

	st, _ = st.update(runeKey("X"))
	if !st.formActive || st.formType != formClear {
		t.Fatal("X should open the clear confirmation")
	}
	if *st.confirmClear {
		t.Fatal("confirmation should default to no")
	}
}

func TestPositiveInt(t *testing.T) {
	for _, v := range []string{"1", " 12 "} {
		if err := positiveInt(v); err != nil {
			t.Errorf("positiveInt(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"0", "-1", "abc", ""} {
		if err := positiveInt(v); err == nil {
			t.Errorf("positiveInt(%q) should fail", v)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{store.SettingRefreshEvery, "5", "every 5 ticks"},
		{store.SettingTopApps, "10", "10 apps"},
		{store.SettingStatsInterval, "weekly", "weekly"},
		{store.SettingTopApps, "abc", "abc"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T, apps ...string) (App, *store.Store, *tracker.Tracker) {
	t.Helper()
	s := newTestStore(t)
	tr := newTestTracker(t, s, apps...)
	app := NewApp(tr, s, config.Default())
	app.width = 120
	app.height = 40
	return app, s, tr
}

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
	if app.interval != time.Second {
		t.Fatalf("tick interval should come from config, got %v", app.interval)
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppSettingsOverrideConfig(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(store.SettingRefreshEvery, "9")
	app := NewApp(newTestTracker(t, s), s, config.Default())
	if app.sampler.refreshEvery != 9 {
		t.Fatalf("stored setting should win, got %d", app.sampler.refreshEvery)
	}
}

func TestAppTickSamples(t *testing.T) {
	app, _, tr := newTestApp(t, "code")

	m, cmd := app.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if tr.Snapshot().FocusSeconds != 1 {
		t.Fatal("tick should sample once")
	}
	if m.(App).sampler.ticks != 1 {
		t.Fatal("sampler should count the tick")
	}
}

func TestAppPauseKey(t *testing.T) {
	app, _, tr := newTestApp(t, "code")

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeySpace})
	app = m.(App)
	if !app.sampler.paused() {
		t.Fatal("space should pause sampling")
	}
	m, _ = app.Update(tickMsg(time.Now()))
	if tr.Snapshot().Total() != 0 {
		t.Fatal("paused app should not sample")
	}
	if !strings.Contains(m.(App).renderFooter(), "paused") {
		t.Fatal("footer should show paused")
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, want := range []viewState{viewStats, viewCategories, viewSettings, viewDashboard} {
		m, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = m.(App)
		if app.activeView != want {
			t.Fatalf("expected view %d, got %d", want, app.activeView)
		}
	}

	m, _ := app.Update(runeKey("3"))
	if m.(App).activeView != viewCategories {
		t.Fatal("3 should open categories")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, v := range []viewState{viewDashboard, viewStats, viewCategories, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _, _ := newTestApp(t)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppFooterDegraded(t *testing.T) {
	app, s, _ := newTestApp(t, "code")
	s.Close()
	m, _ := app.Update(tickMsg(time.Now()))

	if !strings.Contains(m.(App).renderFooter(), "history may be incomplete") {
		t.Fatal("footer should warn when history may be incomplete")
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.width = 0
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _, _ := newTestApp(t)
	m, _ := app.Update(statusMsg{text: "test status"})
	if !strings.Contains(m.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _, _ := newTestApp(t)

	m, _ := app.Update(runeKey("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	if app.exportCursor != 1 {
		t.Fatal("down should select JSON")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppDoExport(t *testing.T) {
	app, _, tr := newTestApp(t, "code", "chrome")
	tr.Tick()
	tr.Tick()
	dir := t.TempDir()

	for format, ext := range []string{".csv", ".json"} {
		msg := app.doExport(format, dir)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("expected exportDoneMsg, got %#v", msg)
		}
		if filepath.Ext(done.path) != ext || filepath.Dir(done.path) != dir {
			t.Fatalf("unexpected export path %q", done.path)
		}
		if info, err := os.Stat(done.path); err != nil || info.Size() == 0 {
			t.Fatalf("export file missing or empty: %v", err)
		}
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"mood", func() string { return moodStyle.Render("test") }},
		{"degraded", func() string { return degradedStyle.Render("test") }},
		{"rot", func() string { return categoryStyle(usage.Rot).Render("test") }},
		{"focus", func() string { return categoryStyle(usage.Focus).Render("test") }},
		{"neutral", func() string { return categoryStyle(usage.Neutral).Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
