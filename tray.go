package main

import (
	"fmt"
	"image"
	"log"
	"sync"

	"fyne.io/systray"
)

// App shows the generated icon in the system tray so it can be judged at
// its real size.
type App struct {
	config    Config
	overrides overrides
	img       *image.NRGBA
	quit      chan struct{} // closed on shutdown
	uiMu      sync.Mutex    // guards config and img

	mInfo       *systray.MenuItem
	mRegenerate *systray.MenuItem
	mQuit       *systray.MenuItem
}

// NewApp creates an App for an already generated icon. Regenerating reloads
// the config file and re-applies o.
func NewApp(cfg Config, o overrides, img *image.NRGBA) *App {
	return &App{
		config:    cfg,
		overrides: o,
		img:       img,
		quit:      make(chan struct{}),
	}
}

// Run starts the systray. Blocks until the tray exits.
func (a *App) Run() {
	systray.Run(a.onReady, a.onExit)
}

// Shutdown signals the app to stop.
func (a *App) Shutdown() {
	a.closeQuit()
	systray.Quit()
}

func (a *App) closeQuit() {
	select {
	case <-a.quit:
		// already closed
	default:
		close(a.quit)
	}
}

func (a *App) onReady() {
	systray.SetTitle("")

	a.mInfo = systray.AddMenuItem("", "Generated icon")
	a.mInfo.Disable()
	systray.AddSeparator()
	a.mRegenerate = systray.AddMenuItem("Regenerate", "Reload config and regenerate the icon")
	a.mQuit = systray.AddMenuItem("Quit", "Quit the preview")

	a.updateUI()
	go a.eventLoop()
}

func (a *App) onExit() {
	a.closeQuit()
}

// eventLoop handles menu item clicks.
func (a *App) eventLoop() {
	for {
		select {
		case <-a.quit:
			return
		case <-a.mRegenerate.ClickedCh:
			a.regenerate()
		case <-a.mQuit.ClickedCh:
			a.Shutdown()
			return
		}
	}
}

// regenerate reloads the config, rewrites the icon files and refreshes the tray.
func (a *App) regenerate() {
	cfg := loadConfig()
	applyOverrides(&cfg, a.overrides)
	img, err := generate(cfg)
	if err != nil {
		log.Printf("Regenerate failed: %v", err)
		return
	}
	a.uiMu.Lock()
	a.config, a.img = cfg, img
	a.uiMu.Unlock()
	a.updateUI()
}

// updateUI pushes the current icon and its description to the tray.
func (a *App) updateUI() {
	a.uiMu.Lock()
	defer a.uiMu.Unlock()

	data, err := iconToBytes(a.img)
	if err != nil {
		log.Printf("Icon encode error: %v", err)
	} else {
		systray.SetIcon(data)
	}
	systray.SetTooltip(buildTooltip(a.config))
	a.mInfo.SetTitle(fmt.Sprintf("%s (%dx%d, %s)", a.config.Output, a.config.Size, a.config.Size, a.config.Style))
}

// buildTooltip describes the icon shown in the tray.
func buildTooltip(cfg Config) string {
	return fmt.Sprintf("%s\n%s (%dx%d)", versionString(), cfg.Output, cfg.Size, cfg.Size)
}
