package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strconv"
)

// Build-time variables injected via ldflags.
var (
	Version        = "v0.0.0"
	CommitHash     = "dev"
	BuildTimestamp = "1970-01-01T00:00:00Z"
	Builder        = "unknown"
	GithubRepo     = "babs/icogen"
)

func versionString() string {
	return fmt.Sprintf("icogen %s-%s", Version, CommitHash)
}

func versionStringLong() string {
	return fmt.Sprintf("icogen %s-%s (built %s using %s)\nhttps://github.com/%s\n",
		Version, CommitHash, BuildTimestamp, Builder, GithubRepo)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[icogen] ")

	showVersion := flag.Bool("version", false, "show version and exit")
	doUpdate := flag.Bool("update", false, "check and update to latest release")
	cfgFile := flag.String("config", "", "path to config file (default ~/.config/icogen/config.json)")
	saveCfg := flag.Bool("save-config", false, "write the effective config to the config file and exit")
	inspect := flag.String("inspect", "", "print the headers of an existing ICO file and exit")
	tray := flag.Bool("tray", false, "show the generated icon in the system tray")
	output := flag.String("o", "", "output ICO path (env: ICOGEN_OUTPUT)")
	size := flag.Int("size", 0, "icon size in pixels, 1-256 (env: ICOGEN_SIZE)")
	style := flag.String("style", "", "icon style: glyph, font (env: ICOGEN_STYLE)")
	letter := flag.String("letter", "", "letter drawn by the font style (env: ICOGEN_LETTER)")
	bg := flag.String("bg", "", "background color #rrggbb[aa] (env: ICOGEN_BG)")
	accent := flag.String("accent", "", "outline color #rrggbb[aa] (env: ICOGEN_ACCENT)")
	fg := flag.String("fg", "", "letter color #rrggbb[aa] (env: ICOGEN_FG)")
	preview := flag.String("preview", "", "also write a PNG preview to this path (env: ICOGEN_PREVIEW)")
	previewSize := flag.Int("preview-size", 0, "PNG preview size in pixels (env: ICOGEN_PREVIEW_SIZE)")
	flag.Usage = func() {
		fmt.Print(versionStringLong())
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Print(versionStringLong())
		return
	}

	if *doUpdate {
		selfUpdate()
		return
	}

	if *inspect != "" {
		if err := inspectICO(*inspect); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *cfgFile != "" {
		configPath = *cfgFile
	}
	o := overrides{
		Output:      *output,
		Size:        *size,
		Style:       *style,
		Letter:      *letter,
		Background:  *bg,
		Accent:      *accent,
		Text:        *fg,
		Preview:     *preview,
		PreviewSize: *previewSize,
	}
	cfg := loadConfig()
	applyOverrides(&cfg, o)

	if *saveCfg {
		if err := saveConfig(cfg); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved config: %s\n", configPath)
		return
	}

	img, err := generate(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *tray {
		app := NewApp(cfg, o, img)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, shutdownSignals...)
		go func() {
			<-sigCh
			log.Println("Signal received, shutting down...")
			app.Shutdown()
		}()
		app.Run()
	}
}

// generate renders the icon, writes the ICO file and the optional preview,
// and returns the rendered bitmap.
func generate(cfg Config) (*image.NRGBA, error) {
	img, err := renderIcon(cfg.renderOptions())
	if err != nil {
		return nil, err
	}
	if err := writeICO(cfg.Output, img); err != nil {
		return nil, err
	}
	total, _ := icoSize(cfg.Size)
	fmt.Printf("Created icon: %s (%dx%d, %s)\n", cfg.Output, cfg.Size, cfg.Size, formatBytes(int64(total)))

	if cfg.Preview != "" {
		if err := writePreview(cfg.Preview, img, cfg.PreviewSize); err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		fmt.Printf("Created preview: %s (%dx%d)\n", cfg.Preview, cfg.PreviewSize, cfg.PreviewSize)
	}
	return img, nil
}

// inspectICO prints the headers and pixel stats of an ICO file.
func inspectICO(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := decodeICOHeaders(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("%s: %s\n", path, formatBytes(int64(len(data))))
	fmt.Print(formatHeader(h))

	img, mask, err := decodeICO(data)
	if errors.Is(err, ErrInvalidICO) && (h.PNG || h.DIBBitCount != icoBitsPerPixel) {
		return nil // headers are all we can show
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Println(formatStats(countPixels(img, mask)))
	return nil
}

// overrides holds CLI flag values for config overrides.
type overrides struct {
	Output      string
	Size        int
	Style       string
	Letter      string
	Background  string
	Accent      string
	Text        string
	Preview     string
	PreviewSize int
}

// applyIntOverride applies an int override from env var and flag.
// The env value is parsed with Atoi; both env and flag values are accepted only if valid returns true.
func applyIntOverride(target *int, envKey, flagName string, flagVal int, valid func(int) bool) {
	if v := os.Getenv(envKey); v != "" {
		if i, err := strconv.Atoi(v); err != nil || !valid(i) {
			log.Printf("Ignoring invalid %s=%q", envKey, v)
		} else {
			*target = i
		}
	}
	if flagVal == 0 {
		return
	}
	if !valid(flagVal) {
		log.Printf("Ignoring invalid -%s=%d", flagName, flagVal)
		return
	}
	*target = flagVal
}

// applyStringOverride applies a string override from env var and flag.
// Non-empty values are accepted only if valid returns true.
func applyStringOverride(target *string, envKey, flagName, flagVal string, valid func(string) bool) {
	if v := os.Getenv(envKey); v != "" {
		if !valid(v) {
			log.Printf("Ignoring invalid %s=%q", envKey, v)
		} else {
			*target = v
		}
	}
	if flagVal != "" {
		if !valid(flagVal) {
			log.Printf("Ignoring invalid -%s=%q", flagName, flagVal)
		} else {
			*target = flagVal
		}
	}
}

func anyString(string) bool { return true }

// applyOverrides applies env vars and flags to config. Priority: flag > env > config file.
func applyOverrides(cfg *Config, o overrides) {
	applyStringOverride(&cfg.Output, "ICOGEN_OUTPUT", "o", o.Output, anyString)
	applyIntOverride(&cfg.Size, "ICOGEN_SIZE", "size", o.Size, validSize)
	applyStringOverride(&cfg.Style, "ICOGEN_STYLE", "style", o.Style, ValidStyle)
	applyStringOverride(&cfg.Letter, "ICOGEN_LETTER", "letter", o.Letter, anyString)
	applyStringOverride(&cfg.Background, "ICOGEN_BG", "bg", o.Background, validHexColor)
	applyStringOverride(&cfg.Accent, "ICOGEN_ACCENT", "accent", o.Accent, validHexColor)
	applyStringOverride(&cfg.Text, "ICOGEN_FG", "fg", o.Text, validHexColor)
	applyStringOverride(&cfg.Preview, "ICOGEN_PREVIEW", "preview", o.Preview, anyString)
	applyIntOverride(&cfg.PreviewSize, "ICOGEN_PREVIEW_SIZE", "preview-size", o.PreviewSize, validPreviewSize)
}
