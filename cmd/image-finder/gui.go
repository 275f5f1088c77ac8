package main

import (
	"runtime"
	"time"

	"image-finder/internal/config"
	"image-finder/internal/controllers"
	"image-finder/internal/logger"
	"image-finder/internal/models"
	"image-finder/internal/services"
	"image-finder/internal/shutdown"
	"image-finder/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// Application holds the desktop window and its MVC components
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	controller    *controllers.MainController
	view          *views.MainView
	searchService *services.SearchService
	shutdown      *shutdown.Manager
}

func runGUI(ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	log, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	application, err := NewApplication(cfg, log)
	if err != nil {
		return err
	}
	return application.Run()
}

// NewApplication wires models, services, controller and view
func NewApplication(cfg *config.Config, log logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(cfg.Window.Title)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":           AppVersion,
		"go_version":        runtime.Version(),
		"match_limit":       cfg.MatchLimit,
		"confirm_threshold": cfg.ConfirmThreshold,
		"case_insensitive":  cfg.CaseInsensitive,
	})

	resultRepo := models.NewResultRepository()
	stateRepo := models.NewRunStateRepository()

	locks, err := services.NewLockManager("")
	if err != nil {
		return nil, err
	}
	searchService := services.NewSearchService(services.Settings{
		MatchLimit:       cfg.MatchLimit,
		ConfirmThreshold: cfg.ConfirmThreshold,
		CaseInsensitive:  cfg.CaseInsensitive,
	}, resultRepo, stateRepo, locks, log)

	mainController := controllers.NewMainController(searchService, resultRepo, log)
	mainView := views.NewMainView(window, views.Options{Watermark: cfg.Window.Watermark})
	mainController.SetMainView(mainView)

	shutdownManager := shutdown.NewManager(log, 10*time.Second)
	shutdownManager.Register("search service", searchService)
	shutdownManager.Register("controller", mainController)

	application := &Application{
		fyneApp:       fyneApp,
		window:        window,
		logger:        log,
		controller:    mainController,
		view:          mainView,
		searchService: searchService,
		shutdown:      shutdownManager,
	}
	application.setupWindowEvents()

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// Run shows the window and blocks until the application quits
func (a *Application) Run() error {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.view.Show()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application terminated", nil)
	return nil
}

// setupWindowEvents asks before closing while a search is copying files
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if !a.controller.IsRunning() {
			a.window.Close()
			return
		}
		a.view.ShowConfirm(
			"Exit Application",
			"A search is still copying files. Stop it and exit?",
			func(confirmed bool) {
				if confirmed {
					a.searchService.Cancel()
					a.window.Close()
				}
			},
		)
	})
}
