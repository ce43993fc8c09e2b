package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/brainrot/internal/export"
	"github.com/sadopc/brainrot/internal/store"
	"github.com/sadopc/brainrot/internal/tracker"
	"github.com/sadopc/brainrot/internal/tui"
	"github.com/sadopc/brainrot/internal/usage"
)

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	e, err := openEnv(flags, envOptions{sample: true})
	if err != nil {
		return err
	}
	defer e.close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.watchConfig(ctx)

	e.logger.Info("dashboard started", "db", e.cfg.DBPath, "tick", e.cfg.TickInterval.Duration)
	p := tea.NewProgram(tui.NewApp(e.tracker, e.store, e.cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sample in the background and print today's totals periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(flags, envOptions{logToStderr: true, sample: true})
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			e.watchConfig(ctx)

			refreshEvery := e.store.GetIntSetting(store.SettingRefreshEvery, e.cfg.RefreshEvery)
			return runLoop(ctx, e.tracker, e.cfg.TickInterval.Duration, refreshEvery, cmd.OutOrStdout())
		},
	}
}

// runLoop ticks until ctx ends, printing a summary line every refreshEvery
// ticks and whenever an application is discovered.
func runLoop(ctx context.Context, tr *tracker.Tracker, interval time.Duration, refreshEvery int, w io.Writer) error {
	refreshEvery = max(refreshEvery, 1)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			printSummary(w, tr)
			return nil
		case <-ticker.C:
			ticks++
			surfaced, err := tr.Tick()
			if err != nil {
				_, _ = fmt.Fprintf(w, "tick failed: %v\n", err)
				continue
			}
			if surfaced || ticks%refreshEvery == 0 {
				printSummary(w, tr)
			}
		}
	}
}

func printSummary(w io.Writer, tr *tracker.Tracker) {
	snap := tr.Snapshot()
	line := fmt.Sprintf("%s  focus %s  neutral %s  rot %s  mood %s",
		snap.Date.Format(time.DateOnly),
		export.FormatDuration(snap.FocusSeconds),
		export.FormatDuration(snap.NeutralSeconds),
		export.FormatDuration(snap.RotSeconds),
		usage.MoodOf(snap),
	)
	if h := tr.Health(); h.Degraded {
		line += fmt.Sprintf("  (degraded: %d failed writes)", h.Failures)
	}
	_, _ = fmt.Fprintln(w, line)
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-day totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()

			aggs, err := e.tracker.Aggregates(days - 1)
			if err != nil {
				return err
			}
			today := e.tracker.Date()
			filled := usage.FillDates(aggs, today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, 1))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderDays(filled))
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days to show, including today")
	return cmd
}

func renderDays(days []usage.DateAggregate) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Focus", "Neutral", "Rot", "Total")
	for _, d := range days {
		t.Row(
			d.Date.Format(time.DateOnly),
			export.FormatDuration(d.FocusSeconds),
			export.FormatDuration(d.NeutralSeconds),
			export.FormatDuration(d.RotSeconds),
			export.FormatDuration(d.Total()),
		)
	}
	sum := usage.SumDates(days)
	t.Row("total",
		export.FormatDuration(sum.FocusSeconds),
		export.FormatDuration(sum.NeutralSeconds),
		export.FormatDuration(sum.RotSeconds),
		export.FormatDuration(sum.Total()),
	)
	return t.String()
}

func newTimelineCmd(flags *globalFlags) *cobra.Command {
	var from, to string
	var bin time.Duration
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print fixed-width usage bins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()

			loc := e.store.Location()
			start := e.tracker.Date()
			if from != "" {
				if start, err = parseTime(from, loc); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			end := start.AddDate(0, 0, 1)
			if to != "" {
				if end, err = parseTime(to, loc); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			bins, err := e.tracker.TimelineBins(start, end, bin)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderBins(bins))
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start time, YYYY-MM-DD or YYYY-MM-DDTHH:MM (default today)")
	cmd.Flags().StringVar(&to, "to", "", "end time, exclusive (default one day after --from)")
	cmd.Flags().DurationVar(&bin, "bin", time.Hour, "bin width")
	return cmd
}

var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", time.DateOnly}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func renderBins(bins []usage.TimelineBin) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Start", "Focus", "Neutral", "Rot")
	for _, b := range bins {
		t.Row(
			b.Start.Format("2006-01-02 15:04"),
			strconv.FormatInt(b.FocusSeconds, 10),
			strconv.FormatInt(b.NeutralSeconds, 10),
			strconv.FormatInt(b.RotSeconds, 10),
		)
	}
	return t.String()
}

func newCategoryCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category <app> <rot|focus|neutral>",
		Short: "Assign an application to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := usage.ParseCategory(args[1])
			if err != nil {
				return err
			}
			if !category.Counted() {
				return fmt.Errorf("category must be rot, focus or neutral, got %q", args[1])
			}
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.tracker.SetCategory(args[0], category); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", strings.TrimSpace(args[0]), category)
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List applications per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderMembers(e.tracker))
			return err
		},
	})
	return cmd
}

func renderMembers(tr *tracker.Tracker) string {
	var b strings.Builder
	for _, c := range []usage.Category{usage.Focus, usage.Neutral, usage.Rot} {
		members := tr.Members(c)
		fmt.Fprintf(&b, "%s (%d)\n", c, len(members))
		for _, app := range members {
			fmt.Fprintf(&b, "  %s\n", app)
		}
	}
	return b.String()
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sample log to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "json" {
				return fmt.Errorf("--format must be csv or json, got %q", format)
			}
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()

			path := out
			if path == "" {
				path = filepath.Join(".", fmt.Sprintf("brainrot-export-%s.%s", time.Now().Format(time.DateOnly), format))
			}
			samples, err := e.store.ListSamples(store.SampleFilter{})
			if err != nil {
				return err
			}
			if format == "csv" {
				err = export.SamplesToCSV(samples, path)
			} else {
				err = export.SamplesToJSON(samples, usage.GroupByDate(samples, e.store.Location()), path)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d samples to %s\n", len(samples), path)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVar(&out, "out", "", "output file (default ./brainrot-export-<date>.<format>)")
	return cmd
}

func newClearCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all usage history, keeping category lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			e, err := openEnv(flags, envOptions{logToStderr: true})
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.tracker.ClearAllData(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "usage data cleared")
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
