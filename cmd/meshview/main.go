// Package main is the interactive viewer for the static collision mesh: fly
// a sphere probe through the generated tunnel, inspect raycast hits and the
// spatial grid.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/asteroid-tunnel/internal/config"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/window"
	"github.com/Faultbox/asteroid-tunnel/internal/logger"
)

const windowTitle = "Asteroid Tunnel"

func init() {
	runtime.LockOSThread()
}

func main() {
	// Parse CLI flags
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Asteroid Tunnel mesh viewer ===",
		zap.String("scene", cfg.Scene.Kind),
		zap.String("cell_size", cfg.Collider.CellSize.String()))

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	collider := cfg.BuildCollider()

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	v, err := newViewer(cfg, win, collider)
	if err != nil {
		return err
	}
	defer v.destroy()

	v.run()
	return nil
}
