package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	insightinadapter "timebox/internal/modules/insight/adapter/in"
	insightoutadapter "timebox/internal/modules/insight/adapter/out"
	insightservice "timebox/internal/modules/insight/service"
	insightusecase "timebox/internal/modules/insight/usecase"
	premiuminadapter "timebox/internal/modules/premium/adapter/in"
	premiumoutadapter "timebox/internal/modules/premium/adapter/out"
	premiumservice "timebox/internal/modules/premium/service"
	premiumusecase "timebox/internal/modules/premium/usecase"
	statsinadapter "timebox/internal/modules/stats/adapter/in"
	statsoutadapter "timebox/internal/modules/stats/adapter/out"
	statsdto "timebox/internal/modules/stats/dto"
	statsservice "timebox/internal/modules/stats/service"
	statsusecase "timebox/internal/modules/stats/usecase"
	timerinadapter "timebox/internal/modules/timer/adapter/in"
	timeroutadapter "timebox/internal/modules/timer/adapter/out"
	timerout "timebox/internal/modules/timer/port/out"
	timerservice "timebox/internal/modules/timer/service"
	timerusecase "timebox/internal/modules/timer/usecase"
	"timebox/internal/platform/clock"
	"timebox/internal/platform/config"
	"timebox/internal/platform/id"
	"timebox/internal/platform/kv"
	"timebox/internal/platform/logging"
	uiapp "timebox/internal/ui/app"
)

// Options are per-invocation knobs that do not belong in the config file.
type Options struct {
	// LogOutput receives structured logs; nil means stderr.
	LogOutput io.Writer
	// SimulatePurchase makes the simulated store approve purchases and restores.
	SimulatePurchase bool
}

const notificationBuffer = 8

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Location *time.Location
	Registry *prometheus.Registry

	TimerCLI   timerinadapter.CLIHandler
	PremiumCLI premiuminadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler
	InsightCLI insightinadapter.CLIHandler
	Reminder   *statsinadapter.StreakReminder

	store *kv.Store
	notes chan string
}

func New(cfg config.Config, opts Options) (*App, error) {
	logOutput := opts.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger, err := logging.New(logOutput, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	loc := cfg.GetTimezone()
	notes := make(chan string, notificationBuffer)
	notify := func(title, body string) {
		logger.Info("notification", "title", title, "body", body)
		select {
		case notes <- title + ": " + body:
		default:
		}
	}

	store, err := kv.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	clk := clock.SystemClock{}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	premiumUC := premiumusecase.NewInteractor(premiumservice.NewPremiumService(
		clk,
		premiumoutadapter.NewKVFlagStore(store),
		premiumoutadapter.NewSimulatedPurchaser(opts.SimulatePurchase, logger.With("module", "premium")),
		logger.With("module", "premium"),
	))

	recorder, err := timeroutadapter.NewPrometheusRecorder(registry)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("register timer metrics: %w", err)
	}
	alerts := timeroutadapter.NewLocalAlertScheduler(clk, func(_ timerout.AlertHandle, fireAt time.Time) {
		notify("Session complete", fmt.Sprintf("Focus session finished at %s", fireAt.In(loc).Format("15:04")))
	})
	engine := timerservice.NewEngine(timerservice.Deps{
		Clock:        clk,
		IDs:          id.SessionToken{Clock: clk},
		Store:        timeroutadapter.NewSQLiteSessionStore(store, cfg.HistoryLimit),
		Alerts:       alerts,
		Policy:       timeroutadapter.NewPremiumPresetPolicy(premiumUC),
		Recorder:     recorder,
		Logger:       logger.With("module", "timer"),
		TickInterval: cfg.TickInterval,
	})
	timerUC := timerusecase.NewInteractor(engine)

	statsUC := statsusecase.NewInteractor(
		statsservice.NewStatsService(clk, loc, statsoutadapter.NewTimerHistoryAdapter(timerUC)),
		statsoutadapter.NewPremiumFeatureGate(premiumUC),
	)
	reminder := statsinadapter.NewStreakReminder(statsUC, loc, func(out statsdto.ReminderOutput) {
		notify("Keep your streak", out.Message)
	}, logger.With("module", "stats"))

	hostLogger := hclog.New(&hclog.LoggerOptions{
		Name:   "insight-host",
		Output: logOutput,
		Level:  hclog.LevelFromString(cfg.LogLevel),
	})
	insightUC := insightusecase.NewInteractor(insightservice.NewInsightService(
		clk,
		insightoutadapter.NewFileManifestStore(cfg.PluginsDir),
		insightoutadapter.NewGRPCHost(hostLogger),
		insightoutadapter.NewStatsMetricsSource(clk, statsUC),
		insightoutadapter.NewPremiumGate(premiumUC),
		logger.With("module", "insight"),
	))

	return &App{
		Config:     cfg,
		Logger:     logger,
		Location:   loc,
		Registry:   registry,
		TimerCLI:   timerinadapter.NewCLIHandler(timerUC),
		PremiumCLI: premiuminadapter.NewCLIHandler(premiumUC),
		StatsCLI:   statsinadapter.NewCLIHandler(statsUC),
		InsightCLI: insightinadapter.NewCLIHandler(insightUC),
		Reminder:   reminder,
		store:      store,
		notes:      notes,
	}, nil
}

// Notifications yields completion alerts and streak reminders. Nothing is queued
// once the buffer is full and no one is reading.
func (a *App) Notifications() <-chan string {
	return a.notes
}

func (a *App) Close() error {
	return a.store.Close()
}

// ServeMetrics exposes the registry on addr until ctx is cancelled. An empty
// addr disables the endpoint.
func (a *App) ServeMetrics(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	a.Logger.Info("metrics endpoint listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

// RunTUI drives the engine loop and the streak reminder for as long as the
// terminal UI is open.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineDone := make(chan error, 1)
	go func() { engineDone <- app.TimerCLI.Run(ctx) }()

	if err := app.Reminder.Start(ctx, app.Config.ReminderSchedule); err != nil {
		app.Logger.Warn("streak reminder disabled", "error", err)
	} else {
		defer app.Reminder.Stop()
	}
	go func() {
		if err := app.ServeMetrics(ctx, app.Config.MetricsAddr); err != nil {
			app.Logger.Warn("metrics endpoint stopped", "error", err)
		}
	}()

	model := uiapp.NewModel(app.TimerCLI, app.PremiumCLI, app.StatsCLI, app.InsightCLI, app.Notifications())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	cancel()
	if runErr := <-engineDone; runErr != nil && !errors.Is(runErr, context.Canceled) {
		app.Logger.Warn("timer loop exited", "error", runErr)
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
