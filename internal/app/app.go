package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/wailsapp/wails/v2/pkg/options"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"vellum/internal/config"
	"vellum/internal/database"
	"vellum/internal/document"
	"vellum/internal/frontend"
	apperrors "vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
	"vellum/internal/intent"
	"vellum/internal/platform"
	"vellum/internal/repository"
)

// App wires the open-intent pipeline to the Wails runtime and exposes the
// bound methods the viewer layer calls.
type App struct {
	ctx    context.Context
	config *config.Config
	logger logging.Logger

	pathAPI    platform.PathAPI
	validator  *intent.Validator
	dispatcher *intent.Dispatcher
	bridge     *intent.Bridge
	drops      *intent.DropListener
	documents  *document.Service

	// storage and recents stay nil when the open history is disabled or
	// its database failed to come up. Every caller nil-checks: the history
	// must never block an open.
	storage database.Service
	recents repository.RecentsRepository

	// events is the display-layer channel. Left nil until Startup, where
	// it defaults to the Wails runtime; tests inject a recording double.
	events frontend.Events

	// launchArgs is the argument vector captured at construction, before
	// anything else has a chance to mutate os.Args.
	launchArgs []string
}

// NewApp creates a new App with dependency injection
func NewApp(cfg *config.Config, logger logging.Logger) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	pathAPI := platform.NewPathAPI()
	validator := intent.NewValidator(pathAPI, cfg.Document.Extension)
	dispatcher := intent.NewDispatcher(nil, cfg.Pipeline.ReadinessTimeout, logger)
	bridge := intent.NewBridge(pathAPI, validator, dispatcher, logger)
	drops := intent.NewDropListener(validator, dispatcher, logger)
	documents := document.NewService(cfg.Document.MaxBytes, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		pathAPI:    pathAPI,
		validator:  validator,
		dispatcher: dispatcher,
		bridge:     bridge,
		drops:      drops,
		documents:  documents,
		launchArgs: os.Args,
	}
}

// Startup is called at application startup. The runtime context becomes
// available here, so this is where the pipeline gets connected to the
// display layer and the launch arguments are scanned.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if a.events == nil {
		a.events = frontend.NewWailsChannel(ctx)
	}
	a.dispatcher.SetEmitter(a.events)
	a.drops.Attach(a.events)

	if candidate, ok := intent.ScanArgs(a.launchArgs, a.validator); ok {
		a.dispatcher.Submit(candidate)
	}

	a.initStorage(ctx)

	a.logger.Info("Application started",
		"environment", a.config.Environment,
		"open_events_supported", a.bridge.Supported(),
		"history_enabled", a.recents != nil)
}

// initStorage connects the recent-documents store and builds the repository
// over it. Any failure here disables the history for the session.
func (a *App) initStorage(ctx context.Context) {
	if a.config.Storage.Disabled {
		a.logger.Info("Open history disabled by configuration")
		return
	}

	dbConfig := database.DefaultConfig()
	if a.config.Storage.Path != "" {
		dbConfig.Path = a.config.Storage.Path
	}
	if dbConfig.IsInMemory() {
		dbConfig.JournalMode = "MEMORY"
	}
	if err := dbConfig.Validate(); err != nil {
		a.logger.Error("Open history disabled, invalid storage configuration", "error", err)
		return
	}

	service := database.NewSQLiteService(a.logger)
	if err := service.Connect(ctx, dbConfig); err != nil {
		a.logger.Error("Open history disabled, storage connection failed", "error", err)
		return
	}
	if dbConfig.AutoMigrate {
		if err := service.Migrate(ctx); err != nil {
			a.logger.Error("Open history disabled, storage migration failed", "error", err)
			service.Close()
			return
		}
	}

	a.storage = service
	a.recents = repository.NewSQLiteRecentsRepository(service, a.config.Storage.MaxRecents, a.logger)
}

// DomReady is called after front-end resources have been loaded. Any open
// request held since launch is released to the viewer here.
func (a *App) DomReady(ctx context.Context) {
	a.dispatcher.MarkReady()
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.drops.Detach()
	a.dispatcher.Stop()
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Error("Failed to close recents store", "error", err)
		}
		a.storage = nil
		a.recents = nil
	}
	a.logger.Info("Application shutdown completed")
}

// OnFileOpen receives native open-document events. Registered with the
// runtime on macOS only; other platforms never call it.
func (a *App) OnFileOpen(filePath string) {
	a.bridge.HandleOpenFile(filePath)
}

// OnSecondInstanceLaunch handles the argument vector relayed from a
// rejected second instance. The existing window comes back to the
// foreground and any document argument flows into the pipeline.
func (a *App) OnSecondInstanceLaunch(data options.SecondInstanceData) {
	a.logger.Info("Second instance launch relayed",
		"arg_count", len(data.Args),
		"working_dir", data.WorkingDirectory)
	a.RaiseWindow()
	a.bridge.HandleRelaunch(data.Args, data.WorkingDirectory)
}

// RaiseWindow brings the main window back to the foreground.
func (a *App) RaiseWindow() {
	if a.ctx == nil {
		return
	}
	wailsruntime.WindowUnminimise(a.ctx)
	wailsruntime.WindowShow(a.ctx)
}

// OpenFilePath is an inbound command reserved for the viewer layer. It
// acknowledges the call and takes no action; the open pipeline is fed by
// the backend sources only. It never returns an error.
func (a *App) OpenFilePath(filePath string) error {
	a.logger.Debug("OpenFilePath acknowledged", "path", filePath)
	return nil
}

// ChooseDocument shows the native open-file dialog filtered to the
// supported document type. Returns the chosen path, or an empty string
// when the user cancels.
func (a *App) ChooseDocument() (string, error) {
	if a.ctx == nil {
		err := apperrors.NewPipelineError("choose_document",
			fmt.Errorf("display layer not started"), apperrors.ErrCodeInternal)
		logging.LogPipelineError(a.logger, err, "choose_document", nil)
		return "", err
	}

	ext := a.validator.Extension()
	path, err := wailsruntime.OpenFileDialog(a.ctx, wailsruntime.OpenDialogOptions{
		Title: "Open Document",
		Filters: []wailsruntime.FileFilter{
			{
				DisplayName: fmt.Sprintf("%s documents (*%s)", strings.ToUpper(strings.TrimPrefix(ext, ".")), ext),
				Pattern:     "*" + ext,
			},
		},
	})
	if err != nil {
		wrapped := apperrors.NewPipelineError("choose_document", err, apperrors.ErrCodeInternal)
		logging.LogPipelineError(a.logger, wrapped, "choose_document", nil)
		return "", wrapped
	}
	return path, nil
}

// ReadDocument loads a document from disk for the viewer layer. A
// successful read lands in the open history.
func (a *App) ReadDocument(path string) (*document.Document, error) {
	doc, err := a.documents.Read(a.runtimeContext(), path)
	if err != nil {
		logging.LogPipelineError(a.logger, err, "read_document", map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	a.recordOpen(doc)
	return doc, nil
}

// recordOpen notes a successful open in the history. The repository logs
// its own failures; the read result is already committed either way.
func (a *App) recordOpen(doc *document.Document) {
	if a.recents == nil {
		return
	}
	if err := a.recents.RecordOpen(a.runtimeContext(), doc.Path, doc.Name, doc.Size); err != nil {
		a.logger.Warn("Open not recorded in history", "path", doc.Path, "error", err)
	}
}

// StatDocument probes a document without reading its contents.
func (a *App) StatDocument(path string) (*document.DocumentInfo, error) {
	info, err := a.documents.Stat(a.runtimeContext(), path)
	if err != nil {
		logging.LogPipelineError(a.logger, err, "stat_document", map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	return info, nil
}

// RecentDocuments returns the open history, newest first. The list is empty
// when the history is disabled or unavailable.
func (a *App) RecentDocuments() ([]repository.RecentDocument, error) {
	if a.recents == nil {
		return []repository.RecentDocument{}, nil
	}

	docs, err := a.recents.ListRecent(a.runtimeContext())
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []repository.RecentDocument{}
	}
	return docs, nil
}

// RemoveRecentDocument deletes one entry from the open history.
func (a *App) RemoveRecentDocument(path string) error {
	if a.recents == nil {
		return nil
	}
	return a.recents.Remove(a.runtimeContext(), path)
}

// ClearRecentDocuments empties the open history.
func (a *App) ClearRecentDocuments() error {
	if a.recents == nil {
		return nil
	}
	return a.recents.Clear(a.runtimeContext())
}

// HostInfo describes the host for the viewer's about dialog
type HostInfo struct {
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelVersion   string `json:"kernelVersion"`
	KernelArch      string `json:"kernelArch"`
	Hostname        string `json:"hostname"`
}

// OSInfo reports host platform details to the viewer layer.
func (a *App) OSInfo() (*HostInfo, error) {
	info, err := host.Info()
	if err != nil {
		wrapped := apperrors.NewPipelineError("os_info", err, apperrors.ErrCodeInternal)
		logging.LogPipelineError(a.logger, wrapped, "os_info", nil)
		return nil, wrapped
	}
	return &HostInfo{
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		Hostname:        info.Hostname,
	}, nil
}

// Bridge exposes the native open-event bridge for runtime registration.
func (a *App) Bridge() *intent.Bridge {
	return a.bridge
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}

// runtimeContext returns the runtime context once startup has run, and a
// background context before that.
func (a *App) runtimeContext() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}
