//go:build windows

package main

import "os"

// shutdownSignals stop the tray preview. Only Ctrl+C is delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
