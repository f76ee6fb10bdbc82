package main

import (
	"embed"
	"log"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"vellum/internal/app"
	"vellum/internal/config"
	apperrors "vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed build/appicon.png
var icon []byte

func main() {
	// GUI launches carry OS-injected tokens (-psn_... on older macOS) and
	// possibly a document path, so unknown flags must not abort startup.
	flags := flag.NewFlagSet("vellum", flag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	env := flags.String("env", "", "override run environment (development, test, production)")
	logLevel := flags.String("log-level", "", "override log level (debug, info, warn, error)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *env != "" {
		cfg.Environment = *env
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	appLogger := logging.NewDefaultLogger()
	apperrors.SetRetryLogger(apperrors.NewLoggerBridge(appLogger))

	application := app.NewApp(cfg, appLogger)

	wailsLogLevel := logger.INFO
	if cfg.IsDevelopment() {
		wailsLogLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:            "Vellum",
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		MinWidth:         640,
		MinHeight:        480,
		BackgroundColour: &options.RGBA{R: 32, G: 32, B: 36, A: 1},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             nil,
		Logger:           logging.NewWailsLoggerAdapter(appLogger),
		LogLevel:         wailsLogLevel,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		// Native drop stays on and the webview never sees DOM drops, so
		// one gesture cannot arrive on both channels.
		DragAndDrop: &options.DragAndDrop{
			EnableFileDrop:     true,
			DisableWebViewDrop: true,
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               "vellum-single-instance-lock",
			OnSecondInstanceLaunch: application.OnSecondInstanceLaunch,
		},
		// Windows platform specific options
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
			WebviewUserDataPath:  "",
			ZoomFactor:           1.0,
		},
		// Mac platform specific options
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  false,
				HideTitleBar:               false,
				FullSizeContent:            false,
				UseToolbar:                 false,
				HideToolbarSeparator:       true,
			},
			Appearance:           mac.NSAppearanceNameDarkAqua,
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   "Vellum",
				Message: "A small local PDF viewer",
				Icon:    icon,
			},
			OnFileOpen: application.OnFileOpen,
		},
	})

	if err != nil {
		log.Fatal(err)
	}
}
