package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"easy-plotter/internal/config"
	"easy-plotter/internal/controllers"
	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"
	"easy-plotter/internal/services"
	"easy-plotter/internal/shutdown"
	"easy-plotter/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const metricsInterval = 30 * time.Second

// Application owns the window and the MVC components behind it
type Application struct {
	// Core components
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  config.Config

	// MVC Components
	controller *controllers.MainController
	view       *views.MainView

	// Models/Repositories
	tableRepo *models.TableRepository

	// Lifecycle management
	shutdown *shutdown.Manager
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewApplication wires models, services, controller and view together
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) *Application {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()

	appCtx, appCancel := context.WithCancel(ctx)

	log.Info("Application", "application starting", map[string]interface{}{
		"version":     AppVersion,
		"window_size": fmt.Sprintf("%.0fx%.0f", cfg.Window.Width, cfg.Window.Height),
		"go_version":  runtime.Version(),
	})

	tableRepo := models.NewTableRepository()
	recent := models.NewRecentFiles(fyneApp.Preferences(), cfg.RecentLimit)

	tableService := services.NewTableService(tableRepo, log)
	chartService := services.NewChartService(cfg.Chart, log)

	mainController := controllers.NewMainController(tableService, chartService, tableRepo, recent, log)
	mainView := views.NewMainView(window, cfg)
	mainController.SetMainView(mainView)

	manager := shutdown.NewManager(log)
	manager.Register("controller", mainController)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		config:     cfg,
		controller: mainController,
		view:       mainView,
		tableRepo:  tableRepo,
		shutdown:   manager,
		ctx:        appCtx,
		cancel:     appCancel,
	}
	application.setupWindowEvents()

	return application
}

// Run shows the window, optionally loads initial, and blocks until the
// application quits
func (a *Application) Run(initial string) error {
	a.shutdown.Listen()

	go func() {
		select {
		case <-a.shutdown.Done():
			a.logger.Info("Application", "quitting after shutdown", nil)
			fyne.Do(a.fyneApp.Quit)
		case <-a.ctx.Done():
			a.shutdown.Shutdown()
			fyne.Do(a.fyneApp.Quit)
		}
	}()
	go a.startMetricsMonitoring()

	a.window.Show()
	if initial != "" {
		a.controller.OpenLocation(initial)
	}

	a.fyneApp.Run()

	a.shutdown.Shutdown()
	a.cancel()
	a.logger.Info("Application", "application terminated", nil)
	return nil
}

func (a *Application) setupWindowEvents() {
	a.window.SetOnClosed(func() {
		a.logger.Info("Application", "window closed", nil)
		a.shutdown.Shutdown()
	})
}

// startMetricsMonitoring periodically logs runtime and table statistics
func (a *Application) startMetricsMonitoring() {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logMetrics()
		case <-a.shutdown.Context().Done():
			return
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *Application) logMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := a.tableRepo.Stats()
	a.logger.Debug("Application", "runtime metrics", map[string]interface{}{
		"go_memory_mb":    memStats.Alloc / 1024 / 1024,
		"go_gc_runs":      memStats.NumGC,
		"goroutine_count": runtime.NumGoroutine(),
		"table_loaded":    stats.Loaded,
		"table_rows":      stats.Rows,
		"table_columns":   stats.Columns,
		"table_loads":     stats.Loads,
	})
}
