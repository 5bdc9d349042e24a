package actions

import (
	"fmt"
	"os"
	"runtime"
)

// SystemInfo returns a short summary of the host.
func SystemInfo() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("System: %s/%s (%d CPUs)\nNode: %s\nGo: %s",
		runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), host, runtime.Version())
}
