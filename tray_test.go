package main

import (
	"strings"
	"testing"
)

func TestBuildTooltip(t *testing.T) {
	cfg := defaultConfig()
	got := buildTooltip(cfg)
	if !strings.HasPrefix(got, "icogen ") {
		t.Errorf("buildTooltip = %q, want version first", got)
	}
	if !strings.Contains(got, "app_icon.ico (32x32)") {
		t.Errorf("buildTooltip = %q, missing output line", got)
	}
}

func TestAppShutdownIdempotent(t *testing.T) {
	a := NewApp(defaultConfig(), overrides{}, renderGlyphIcon(32, defaultPalette()))
	a.closeQuit()
	a.closeQuit()
	select {
	case <-a.quit:
	default:
		t.Error("quit channel not closed")
	}
}
