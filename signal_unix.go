//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop the tray preview.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
