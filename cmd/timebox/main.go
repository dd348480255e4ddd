package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"timebox/internal/bootstrap"
	"timebox/internal/platform/config"
	timerview "timebox/internal/ui/views/timer"
)

const dateLayout = "2006-01-02"

type rootFlags struct {
	dataDir     string
	configPath  string
	logLevel    string
	metricsAddr string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "timebox",
		Short:         "Focus timer with session history and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", config.DefaultDataDir(), "directory holding the database and plugins")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/timebox.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while a timer runs")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newStartCmd(flags))
	root.AddCommand(newResumeCmd(flags))
	root.AddCommand(newStopCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newPresetsCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newProCmd(flags))
	root.AddCommand(newInsightsCmd(flags))
	root.AddCommand(newPluginCmd(flags))
	root.AddCommand(newRemindCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, flags.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.metricsAddr != "" {
		cfg.MetricsAddr = flags.metricsAddr
	}
	return cfg, nil
}

// loadApp wires the application and restores any session a previous process left
// behind, so every command sees the same timer state.
func loadApp(cmd *cobra.Command, flags *rootFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	rec, err := app.TimerCLI.Recover(cmd.Context())
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	switch rec.Outcome {
	case "restored":
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "restored %q paused at %s\n", rec.Session.Title, timerview.FormatClock(rec.TimeLeftSeconds))
	case "completed":
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%q finished while timebox was closed\n", rec.Session.Title)
	case "discarded":
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "discarded saved session: %s\n", rec.Reason)
	}
	return app, nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timebox terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(flags.dataDir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(flags.dataDir, "timebox.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			app, err := loadApp(cmd, flags, bootstrap.Options{LogOutput: logFile})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newStartCmd(flags *rootFlags) *cobra.Command {
	var minutes int
	var title string
	start := &cobra.Command{
		Use:   "start <preset>",
		Short: "Start a session and count down in the foreground",
		Long:  "Presets: quick (15), focus (25), deep (45), ultra (90, pro), custom (--minutes, pro).\nCtrl+C pauses the session; continue it with `timebox resume`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			status, err := app.TimerCLI.Start(cmd.Context(), args[0], minutes, title)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %q (%s, %d min)\n", status.Session.Title, status.Session.SessionType, status.Session.DurationMinutes)
			return runForeground(cmd, app)
		},
	}
	start.Flags().IntVar(&minutes, "minutes", 0, "length for the custom preset (1-480)")
	start.Flags().StringVar(&title, "title", "", "session title (defaults to the preset label)")
	return start
}

func newResumeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused session in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			if _, err := app.TimerCLI.Resume(cmd.Context()); err != nil {
				return err
			}
			return runForeground(cmd, app)
		},
	}
}

func newStopCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the current session and record it as interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.TimerCLI.Stop(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %q completed=%t\n", out.Title, out.Completed)
			return nil
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current timer state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			status, err := app.TimerCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			if !status.Active {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "idle")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q %s left (%.0f%%)\n", status.State, status.Session.Title, timerview.FormatClock(status.TimeLeftSeconds), status.Progress*100)
			return nil
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			sessions, err := app.TimerCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				result := "interrupted"
				if s.Completed {
					result = "completed"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\t%s\t%s\n", s.StartTime.In(app.Location).Format("2006-01-02 15:04"), s.SessionType, s.DurationMinutes, result, s.Title)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show (0 for all)")
	return history
}

func newPresetsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List session presets and whether they are unlocked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			presets, err := app.PremiumCLI.Presets(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range presets {
				length := fmt.Sprintf("%dmin", p.Minutes)
				if p.ID == "custom" {
					length = "1-480min"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tunlocked=%t\n", p.ID, p.Label, length, p.Unlocked)
			}
			return nil
		},
	}
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Session statistics"}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Sessions, minutes, streak and score for one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			day, err := parseDate(date, app.Location)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Daily(cmd.Context(), day)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "date: %s\nsessions: %d (%d completed)\nminutes: %d\nstreak: %d\nscore: %d\n",
				out.Date.Format(dateLayout), out.SessionCount, out.CompletedCount, out.TotalMinutes, out.Streak, out.ProductivityScore)
			return nil
		},
	}
	daily.Flags().StringVar(&date, "date", "", "day to report (YYYY-MM-DD, default today)")

	var ref string
	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Week totals, trend and heatmap (pro)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			day, err := parseDate(ref, app.Location)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Weekly(cmd.Context(), day)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "week of %s: %d sessions, %d min, avg %d min, trend %+.0f%%\n",
				out.WeekStart.Format(dateLayout), out.TotalSessions, out.TotalMinutes, out.AverageSessionLength, out.ProductivityTrend*100)
			for _, d := range out.Heatmap {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d sessions\t%s\n", d.Date.Format("Mon 02"), d.SessionCount, strings.Repeat("#", d.Intensity))
			}
			return nil
		},
	}
	weekly.Flags().StringVar(&ref, "date", "", "any day in the week (YYYY-MM-DD, default today)")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "All-time totals, completion rate and peak hours (pro)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.StatsCLI.Summary(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sessions: %d (%d completed, %.0f%%)\nminutes: %d\nlongest streak: %d\n",
				out.TotalSessions, out.CompletedSessions, out.CompletionRate*100, out.TotalMinutes, out.LongestStreak)
			types := make([]string, 0, len(out.MinutesByType))
			for t := range out.MinutesByType {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d min\n", t, out.MinutesByType[t])
			}
			if len(out.PeakHours) > 0 {
				hours := make([]string, len(out.PeakHours))
				for i, h := range out.PeakHours {
					hours[i] = fmt.Sprintf("%02d:00", h)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "peak hours: %s\n", strings.Join(hours, ", "))
			}
			return nil
		},
	}

	var from, to string
	rangeCmd := &cobra.Command{
		Use:   "range --from <date> --to <date>",
		Short: "Sessions started between two days, inclusive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
				return fmt.Errorf("--from and --to are required")
			}
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			start, err := parseDate(from, app.Location)
			if err != nil {
				return err
			}
			end, err := parseDate(to, app.Location)
			if err != nil {
				return err
			}
			// --to names a whole day.
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			records, err := app.StatsCLI.Range(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\tcompleted=%t\t%s\n", r.StartTime.In(app.Location).Format("2006-01-02 15:04"), r.SessionType, r.DurationMinutes, r.Completed, r.Title)
			}
			return nil
		},
	}
	rangeCmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")

	export := &cobra.Command{
		Use:   "export",
		Short: "Write history and current statistics as JSON (pro)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.StatsCLI.Export(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	stats.AddCommand(daily, weekly, summary, rangeCmd, export)
	return stats
}

func newProCmd(flags *rootFlags) *cobra.Command {
	pro := &cobra.Command{Use: "pro", Short: "Pro upgrade and feature flags"}

	pro.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show Pro status and feature availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			status, err := app.PremiumCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pro=%t", status.IsPro)
			if status.PurchaseDate != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " product=%s purchased=%s", status.ProductID, status.PurchaseDate.In(app.Location).Format(dateLayout))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			features, err := app.PremiumCLI.Features(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range features {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tavailable=%t\t%s\n", f.ID, f.Available, f.Description)
			}
			return nil
		},
	})

	var simulateSuccess bool
	var productID string
	purchase := &cobra.Command{
		Use:   "purchase",
		Short: "Buy the lifetime Pro upgrade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{SimulatePurchase: simulateSuccess})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PremiumCLI.Purchase(cmd.Context(), productID)
			if err != nil {
				return err
			}
			return printPurchase(cmd.OutOrStdout(), "purchase", out.Success)
		},
	}
	purchase.Flags().BoolVar(&simulateSuccess, "simulate-success", false, "approve the simulated store transaction")
	purchase.Flags().StringVar(&productID, "product", "", "product id (default timebox_pro_lifetime)")

	var simulateRestore bool
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore a previous Pro purchase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{SimulatePurchase: simulateRestore})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PremiumCLI.Restore(cmd.Context())
			if err != nil {
				return err
			}
			return printPurchase(cmd.OutOrStdout(), "restore", out.Success)
		},
	}
	restore.Flags().BoolVar(&simulateRestore, "simulate-success", false, "report a previous purchase from the simulated store")

	pro.AddCommand(purchase, restore)
	return pro
}

func newInsightsCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	insights := &cobra.Command{
		Use:   "insights",
		Short: "Generate focus insights from your history (pro)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			report, err := app.InsightCLI.Generate(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			m := report.Metrics
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "focus score %d, completion %d%%, avg %d min, trend %s\n\n",
				m.FocusScore, m.CompletionRate, m.AverageSessionLength, m.WeeklyTrend)
			for _, in := range report.Insights {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (%s, %.0f%%)\n  %s\n", in.Type, in.Title, in.Source, in.Confidence*100, in.Message)
			}
			if len(report.Recommendations) > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nrecommendations:")
				for _, r := range report.Recommendations {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", r)
				}
			}
			if len(report.Failed) > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped providers: %s\n", strings.Join(report.Failed, ", "))
			}
			return nil
		},
	}
	insights.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return insights
}

func newPluginCmd(flags *rootFlags) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Insight provider plugins"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured insight providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			providers, err := app.InsightCLI.Providers(cmd.Context())
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, p := range providers {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t capabilities=%s binary=%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Capabilities, ","), p.Binary)
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.InsightCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return plugin
}

func newRemindCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Check whether today's session is still missing from your streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.StatsCLI.Reminder(cmd.Context())
			if err != nil {
				return err
			}
			if !out.Due {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nothing due (streak %d)\n", out.Streak)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}

// runForeground drives the engine until the session completes or is stopped.
// An interrupt pauses the session so it survives the process.
func runForeground(cmd *cobra.Command, app *bootstrap.App) error {
	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = app.TimerCLI.Run(loopCtx) }()
	go func() {
		if err := app.ServeMetrics(loopCtx, app.Config.MetricsAddr); err != nil {
			app.Logger.Warn("metrics endpoint stopped", "error", err)
		}
	}()

	out := cmd.OutOrStdout()
	events := app.TimerCLI.Events()
	notes := app.Notifications()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCtx.Done():
			status, err := app.TimerCLI.Pause(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "\npaused at %s, run `timebox resume` to continue\n", timerview.FormatClock(status.TimeLeftSeconds))
			return nil
		case note := <-notes:
			_, _ = fmt.Fprintf(out, "\n%s\n", note)
		case event, ok := <-events:
			if !ok {
				return nil
			}
			switch event.Kind {
			case "completed":
				_, _ = fmt.Fprintf(out, "\ncompleted %q\n", event.Session.Title)
				return nil
			case "stopped":
				_, _ = fmt.Fprintf(out, "\nstopped %q\n", event.Session.Title)
				return nil
			case "persistence_failed":
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\nwarning: %s\n", event.Reason)
			}
		case <-ticker.C:
			status, err := app.TimerCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			if !status.Active {
				return nil
			}
			_, _ = fmt.Fprintf(out, "\r%s  %s  %-8s", timerview.FormatClock(status.TimeLeftSeconds), status.Session.Title, status.State)
		}
	}
}

func printPurchase(w io.Writer, action string, success bool) error {
	if !success {
		_, _ = fmt.Fprintf(w, "%s cancelled, Pro not unlocked\n", action)
		return nil
	}
	_, _ = fmt.Fprintln(w, "Pro unlocked")
	return nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
