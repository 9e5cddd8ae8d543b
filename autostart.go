package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart reconciles the desktop login item with the configured
// preference. Registering resolves the running binary through any
// symlinks so the entry survives relocation of the launcher link.
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	entry := &autostart.App{
		Name:        "planhelper",
		DisplayName: "Plan Helper",
		Exec:        []string{execPath},
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		log.Println("Autostart enabled")
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			return fmt.Errorf("failed to disable autostart: %w", err)
		}
		log.Println("Autostart disabled")
	}
	return nil
}
